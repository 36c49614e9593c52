// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements bearer-token authentication for the admin dashboard
// (HS256 JWT) and the shared-secret guard for the rollup trigger. Session
// issuance lives outside this service; RequireAuth only verifies tokens
// minted with the same secret, and SignToken exists for tooling and tests.
package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
)

// Claims is the JWT payload carried by dashboard bearer tokens.
type Claims struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// SignToken mints an HS256 token for uid/email valid for ttl. It is used by
// session tooling and tests; the API itself never issues tokens.
func SignToken(secret []byte, uid, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UID:   uid,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// parseToken verifies an HS256 token against secret and returns its claims.
func parseToken(secret []byte, tok string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tok, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid {
		return c, nil
	}
	return nil, errors.New("invalid token")
}

// RequireAuth returns a middleware that rejects requests lacking a valid
// Bearer token with a 401 envelope. On success the authenticated user id is
// stored under "userID" for the logger and rate limiter.
func RequireAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			unauthorized(c)
			return
		}
		claims, err := parseToken(secret, strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")))
		if err != nil {
			unauthorized(c)
			return
		}
		c.Set("userID", claims.UID)
		c.Next()
	}
}

// RequireSharedSecret returns a middleware guarding machine-to-machine
// triggers with a static Bearer secret compared in constant time. An empty
// configured secret disables the guarded endpoint entirely.
func RequireSharedSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			unauthorized(c)
			return
		}
		got := c.GetHeader("Authorization")
		want := "Bearer " + secret
		if subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
			unauthorized(c)
			return
		}
		c.Next()
	}
}

// unauthorized aborts with the standard 401 envelope.
func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": c.Writer.Header().Get("X-Request-ID"),
		"code":       "unauthorized",
		"message":    "missing or invalid credentials",
	})
}
