package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// UserIDKey is the gin context key holding the caller's opaque user id.
const UserIDKey = "userID"

const identityCookie = "chatflow_uid"

// Identity assigns every caller an opaque user id on first contact and
// carries it in an HS256-signed cookie. This is identity, not
// authentication: the id only partitions session state per browser.
func Identity(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		if uid, ok := parseIdentity(c, key); ok {
			c.Set(UserIDKey, uid)
			c.Next()
			return
		}

		uid := uuid.NewString()
		claims := jwt.RegisteredClaims{
			Subject:  uid,
			IssuedAt: jwt.NewNumericDate(time.Now()),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to establish identity"})
			return
		}
		c.SetCookie(identityCookie, token, int((30 * 24 * time.Hour).Seconds()), "/", "", false, true)
		c.Set(UserIDKey, uid)
		c.Next()
	}
}

func parseIdentity(c *gin.Context, key []byte) (string, bool) {
	raw, err := c.Cookie(identityCookie)
	if err != nil || raw == "" {
		return "", false
	}
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}

// UserID pulls the identity set by Identity out of the request context.
func UserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
