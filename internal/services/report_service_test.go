package services

import (
	"testing"
	"time"

	"spendtrack/internal/testutil"
)

func TestDashboardSummary(t *testing.T) {
	t.Run("aggregates", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		user := testutil.CreateTestUser(t, db)
		food := testutil.CreateTestCategoryWithName(t, db, user.ID, "Food")
		bills := testutil.CreateTestCategoryWithName(t, db, user.ID, "Bills")

		testutil.CreateTestTransaction(t, db, user.ID, food.ID, "25.50", time.Now())
		testutil.CreateTestTransaction(t, db, user.ID, bills.ID, "100.00", time.Now())
		// Last month: counts toward overall total but not month total.
		testutil.CreateTestTransaction(t, db, user.ID, food.ID, "10.00", time.Now().AddDate(0, -1, 0))

		summary, err := svc.DashboardSummary(user.ID)
		testutil.AssertNoError(t, err)

		if !summary.Total.Equal(mustDecimal(t, "135.50")) {
			t.Errorf("expected total 135.50, got %s", summary.Total)
		}
		if !summary.MonthTotal.Equal(mustDecimal(t, "125.50")) {
			t.Errorf("expected month total 125.50, got %s", summary.MonthTotal)
		}
		if summary.TransactionCount != 3 {
			t.Errorf("expected 3 transactions, got %d", summary.TransactionCount)
		}
		if summary.CategoryCount != 2 {
			t.Errorf("expected 2 categories, got %d", summary.CategoryCount)
		}
		// Per-category data is ordered by total descending.
		if len(summary.CategoryData) != 2 || summary.CategoryData[0].Name != "Bills" {
			t.Errorf("expected Bills first in category data, got %+v", summary.CategoryData)
		}
	})

	t.Run("recent_capped_at_five", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)

		for i := 0; i < 7; i++ {
			testutil.CreateTestTransaction(t, db, user.ID, cat.ID, "10.00", time.Now().AddDate(0, 0, -i))
		}

		summary, err := svc.DashboardSummary(user.ID)
		testutil.AssertNoError(t, err)

		if len(summary.Recent) != 5 {
			t.Fatalf("expected 5 recent transactions, got %d", len(summary.Recent))
		}
		// Newest first.
		for i := 1; i < len(summary.Recent); i++ {
			if summary.Recent[i].Date.After(summary.Recent[i-1].Date) {
				t.Errorf("recent transactions not in descending date order at index %d", i)
			}
		}
	})

	t.Run("empty_ledger", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		user := testutil.CreateTestUser(t, db)

		summary, err := svc.DashboardSummary(user.ID)
		testutil.AssertNoError(t, err)

		if !summary.Total.IsZero() || summary.TransactionCount != 0 {
			t.Errorf("expected empty summary, got total %s count %d", summary.Total, summary.TransactionCount)
		}
		if len(summary.Recent) != 0 || len(summary.MonthlyData) != 0 {
			t.Error("expected empty recent and monthly series")
		}
	})
}

func TestMonthlyReport(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewReportService(db)
	user := testutil.CreateTestUser(t, db)
	cat := testutil.CreateTestCategory(t, db, user.ID)

	now := time.Now()
	testutil.CreateTestTransaction(t, db, user.ID, cat.ID, "10.00", now)
	testutil.CreateTestTransaction(t, db, user.ID, cat.ID, "20.00", now)
	twoMonthsAgo := now.AddDate(0, -2, 0)
	testutil.CreateTestTransaction(t, db, user.ID, cat.ID, "5.00", twoMonthsAgo)
	// Outside the trailing 12 months: excluded.
	testutil.CreateTestTransaction(t, db, user.ID, cat.ID, "99.00", now.AddDate(0, -14, 0))

	report, err := svc.MonthlyReport(user.ID)
	testutil.AssertNoError(t, err)

	if len(report) != 2 {
		t.Fatalf("expected 2 months with activity, got %d", len(report))
	}
	// Most recent month first.
	if report[0].Month != now.Format("2006-01") {
		t.Errorf("expected current month first, got %s", report[0].Month)
	}
	if report[0].Count != 2 || !report[0].Total.Equal(mustDecimal(t, "30.00")) {
		t.Errorf("expected count 2 total 30.00, got count %d total %s", report[0].Count, report[0].Total)
	}
	if report[1].Month != twoMonthsAgo.Format("2006-01") {
		t.Errorf("expected %s second, got %s", twoMonthsAgo.Format("2006-01"), report[1].Month)
	}
	if report[0].Label != now.Format("January 2006") {
		t.Errorf("expected label %q, got %q", now.Format("January 2006"), report[0].Label)
	}
}

func TestCategoryReport(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewReportService(db)
	user := testutil.CreateTestUser(t, db)
	food := testutil.CreateTestCategoryWithName(t, db, user.ID, "Food")
	bills := testutil.CreateTestCategoryWithName(t, db, user.ID, "Bills")
	testutil.CreateTestCategoryWithName(t, db, user.ID, "Unused")

	testutil.CreateTestTransaction(t, db, user.ID, food.ID, "10.00", time.Now())
	testutil.CreateTestTransaction(t, db, user.ID, food.ID, "15.00", time.Now())
	testutil.CreateTestTransaction(t, db, user.ID, bills.ID, "100.00", time.Now())

	report, err := svc.CategoryReport(user.ID)
	testutil.AssertNoError(t, err)

	// Only categories with transactions, largest total first.
	if len(report) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(report))
	}
	if report[0].Name != "Bills" || !report[0].Total.Equal(mustDecimal(t, "100.00")) {
		t.Errorf("expected Bills 100.00 first, got %s %s", report[0].Name, report[0].Total)
	}
	if report[1].Name != "Food" || report[1].Count != 2 {
		t.Errorf("expected Food with count 2 second, got %s count %d", report[1].Name, report[1].Count)
	}
}

func TestTopExpenses(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewReportService(db)
	user := testutil.CreateTestUser(t, db)
	cat := testutil.CreateTestCategory(t, db, user.ID)

	amounts := []string{"5.00", "300.00", "20.00", "150.00", "1.00", "75.00", "42.00", "9.99", "60.00", "18.00", "33.00", "250.00"}
	for _, a := range amounts {
		testutil.CreateTestTransaction(t, db, user.ID, cat.ID, a, time.Now())
	}

	top, err := svc.TopExpenses(user.ID)
	testutil.AssertNoError(t, err)

	if len(top) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(top))
	}
	if !top[0].Amount.Equal(mustDecimal(t, "300.00")) {
		t.Errorf("expected 300.00 first, got %s", top[0].Amount)
	}
	for i := 1; i < len(top); i++ {
		if top[i].Amount.GreaterThan(top[i-1].Amount) {
			t.Errorf("amounts not descending at index %d", i)
		}
	}
}

func TestChartSeries(t *testing.T) {
	t.Run("category_series", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		user := testutil.CreateTestUser(t, db)
		food := testutil.CreateTestCategoryWithName(t, db, user.ID, "Food")
		bills := testutil.CreateTestCategoryWithName(t, db, user.ID, "Bills")

		testutil.CreateTestTransaction(t, db, user.ID, food.ID, "30.00", time.Now())
		testutil.CreateTestTransaction(t, db, user.ID, bills.ID, "70.00", time.Now())

		series, err := svc.CategorySeries(user.ID)
		testutil.AssertNoError(t, err)

		if len(series) != 2 {
			t.Fatalf("expected 2 points, got %d", len(series))
		}
		if series[0].Name != "Bills" {
			t.Errorf("expected Bills first, got %s", series[0].Name)
		}
	})

	t.Run("monthly_series_ascending", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)

		now := time.Now()
		testutil.CreateTestTransaction(t, db, user.ID, cat.ID, "10.00", now.AddDate(0, -3, 0))
		testutil.CreateTestTransaction(t, db, user.ID, cat.ID, "20.00", now)

		series, err := svc.MonthlySeries(user.ID)
		testutil.AssertNoError(t, err)

		if len(series) != 2 {
			t.Fatalf("expected 2 points, got %d", len(series))
		}
		if series[0].Month >= series[1].Month {
			t.Errorf("expected ascending month keys, got %s then %s", series[0].Month, series[1].Month)
		}
	})
}
