// Package auth implements the password gate: one shared access password
// exchanged for an expiring session token. There are no user accounts; the
// whole knowledge base is behind a single operator password.
package auth

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/render"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// sessionDuration matches the 30-day expiring session of the original tool.
const sessionDuration = 30 * 24 * time.Hour

var (
	jwtSecret    []byte
	passwordHash string
	password     string
)

// SessionClaims is the JWT payload for an authenticated session.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// Init reads the gate configuration from the environment.
func Init() {
	jwtSecret = []byte(os.Getenv("JWT_SECRET"))
	if len(jwtSecret) == 0 {
		logrus.Warn("JWT_SECRET is not set. Authentication will not work.")
	}

	passwordHash = os.Getenv("ACCESS_PASSWORD_HASH")
	password = os.Getenv("ACCESS_PASSWORD")
	if passwordHash == "" && password == "" {
		logrus.Warn("No access password configured. All logins will be rejected.")
	} else if passwordHash == "" {
		logrus.Warn("ACCESS_PASSWORD is compared in plaintext. Prefer ACCESS_PASSWORD_HASH (bcrypt).")
	}
}

// HandleLogin exchanges the access password for a session token.
func HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "Invalid request body"})
		return
	}

	if !verifyPassword(req.Password) {
		logrus.Warn("Rejected login attempt")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, map[string]string{"error": "Wrong access password"})
		return
	}

	token, expiresAt, err := createSession()
	if err != nil {
		logrus.WithError(err).Error("Failed to create session token")
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]string{"error": "Failed to create session"})
		return
	}

	render.JSON(w, r, map[string]any{
		"token":     token,
		"expiresAt": expiresAt.UTC().Format(time.RFC3339),
	})
}

func verifyPassword(candidate string) bool {
	if passwordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(candidate)) == nil
	}
	if password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(candidate)) == 1
}

func createSession() (string, time.Time, error) {
	expiresAt := time.Now().Add(sessionDuration)
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "operator",
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(jwtSecret)
	return signed, expiresAt, err
}

// ParseSession validates a session token and returns its claims.
func ParseSession(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}
