package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret []byte

// InitJWT sets the HMAC secret used for caller tokens.
func InitJWT(secret string) {
	jwtSecret = []byte(secret)
}

// GenerateJWT mints a token for a caller identity, valid 24h.
func GenerateJWT(callerID int64) (string, error) {
	now := time.Now().Unix()
	claims := jwt.MapClaims{
		"caller_id": callerID,
		"exp":       time.Now().Add(24 * time.Hour).Unix(),
		"iat":       now,
		"nbf":       now,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ParseJWT validates a token and returns the caller identity.
func ParseJWT(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return 0, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid claims")
	}

	callerID, ok := claims["caller_id"].(float64)
	if !ok {
		return 0, errors.New("caller_id not found")
	}
	return int64(callerID), nil
}

// JWT authenticates the request and stores the caller identity under
// "caller_id" for the handlers' role checks.
func JWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		callerID, err := ParseJWT(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("caller_id", callerID)
		c.Next()
	}
}
