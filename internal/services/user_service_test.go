package services

import (
	"testing"

	"spendtrack/internal/models"
	"spendtrack/internal/testutil"
)

func TestRegister(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.Register("alice", "alice@example.com", "secret1", "secret1")
		testutil.AssertNoError(t, err)

		if user.ID == 0 {
			t.Fatal("expected non-zero user ID")
		}
		if user.Username != "alice" {
			t.Errorf("expected username alice, got %s", user.Username)
		}
		if user.Password == "secret1" {
			t.Error("password should be stored hashed, not plaintext")
		}
	})

	t.Run("seeds_default_categories", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.Register("bob", "bob@example.com", "secret1", "secret1")
		testutil.AssertNoError(t, err)

		var categories []models.Category
		if err := db.Where("user_id = ?", user.ID).Order("id").Find(&categories).Error; err != nil {
			t.Fatalf("failed to load categories: %v", err)
		}
		if len(categories) != len(models.DefaultCategories) {
			t.Fatalf("expected %d seeded categories, got %d", len(models.DefaultCategories), len(categories))
		}
		for i, want := range models.DefaultCategories {
			if categories[i].Name != want {
				t.Errorf("category %d: expected %s, got %s", i, want, categories[i].Name)
			}
		}
	})

	t.Run("duplicate_username", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.Register("carol", "carol@example.com", "secret1", "secret1")
		testutil.AssertNoError(t, err)

		_, err = svc.Register("carol", "other@example.com", "secret1", "secret1")
		testutil.AssertAppError(t, err, "DUPLICATE_USER")
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.Register("dave", "dave@example.com", "secret1", "secret1")
		testutil.AssertNoError(t, err)

		_, err = svc.Register("dave2", "dave@example.com", "secret1", "secret1")
		testutil.AssertAppError(t, err, "DUPLICATE_USER")
	})

	t.Run("password_mismatch", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.Register("erin", "erin@example.com", "secret1", "secret2")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("password_too_short", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.Register("frank", "frank@example.com", "abc", "abc")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("missing_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.Register("", "grace@example.com", "secret1", "secret1")
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.Register("grace", "", "secret1", "secret1")
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.Register("grace", "grace@example.com", "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestAuthenticate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		registered, err := svc.Register("henry", "henry@example.com", "secret1", "secret1")
		testutil.AssertNoError(t, err)

		user, err := svc.Authenticate("henry", "secret1")
		testutil.AssertNoError(t, err)
		if user.ID != registered.ID {
			t.Errorf("expected user ID %d, got %d", registered.ID, user.ID)
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.Register("iris", "iris@example.com", "secret1", "secret1")
		testutil.AssertNoError(t, err)

		_, err = svc.Authenticate("iris", "wrong")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unknown_username", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.Authenticate("nobody", "secret1")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})
}

func TestGetUserByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		got, err := svc.GetUserByID(user.ID)
		testutil.AssertNoError(t, err)
		if got.Username != user.Username {
			t.Errorf("expected username %s, got %s", user.Username, got.Username)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.GetUserByID(99999)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}
