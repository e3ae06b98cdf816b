package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"spendtrack/internal/config"
	"spendtrack/internal/models"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "session"

// getSessionKey returns the session signing key from configuration.
func getSessionKey() []byte {
	return []byte(config.Get().SessionSecret)
}

// SessionClaims represents the claims in the session token.
type SessionClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// GenerateSessionToken generates a signed session token for a user.
func GenerateSessionToken(user *models.User) (string, error) {
	claims := &SessionClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(config.Get().SessionExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "spendtrack",
			Subject:   fmt.Sprintf("%d", user.ID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(getSessionKey())
}

// ParseSessionToken parses and validates a session token.
func ParseSessionToken(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return getSessionKey(), nil
	})

	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid session token")
	}

	return claims, nil
}

// SetSessionCookie attaches the session token to the response using the
// configured cookie security flags.
func SetSessionCookie(c *gin.Context, token string) {
	cfg := config.Get()
	c.SetSameSite(cfg.CookieSameSite)
	c.SetCookie(SessionCookieName, token, cfg.SessionCookieTTL, "/", "", cfg.CookieSecure, true)
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c *gin.Context) {
	cfg := config.Get()
	c.SetSameSite(cfg.CookieSameSite)
	c.SetCookie(SessionCookieName, "", -1, "/", "", cfg.CookieSecure, true)
}

// sessionToken extracts the token from the session cookie, falling back to
// an Authorization: Bearer header for non-browser clients.
func sessionToken(c *gin.Context) (string, bool) {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie, true
	}
	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1], true
	}
	return "", false
}

// AuthRequired verifies the session token and sets the authenticated user
// in the request context. The user identifier travels with the request; no
// ambient global session state exists.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := sessionToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Please log in to access this page",
			}})
			c.Abort()
			return
		}

		claims, err := ParseSessionToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Invalid or expired session",
			}})
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("username", claims.Username)
		c.Next()
	}
}
