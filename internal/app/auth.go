package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"mirai-scheduler/internal/backend"
)

// SubjectKey holds the authenticated caller's id in the gin context.
const SubjectKey = "auth_subject"

// bearerToken extracts the token of an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// jwtSubject validates an HS256 token that carries an expiry and returns its
// subject.
func jwtSubject(tokenStr, secret string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(5*time.Second),
	)
	if err != nil {
		return "", err
	}
	return token.Claims.GetSubject()
}

// AuthMiddleware accepts an expiring HS256 JWT signed with jwtSecret or one of
// the static tokens. With neither configured every request passes.
func AuthMiddleware(jwtSecret string, staticTokens []string) gin.HandlerFunc {
	static := make(map[string]struct{}, len(staticTokens))
	for _, t := range staticTokens {
		static[t] = struct{}{}
	}

	return func(c *gin.Context) {
		if jwtSecret == "" && len(static) == 0 {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
			return
		}
		tokenStr, ok := bearerToken(header)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}

		if jwtSecret != "" {
			if sub, err := jwtSubject(tokenStr, jwtSecret); err == nil {
				c.Set(SubjectKey, sub)
				c.Next()
				return
			}
		}
		if _, ok := static[tokenStr]; ok {
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
	}
}

// ForwardSession hands the caller's Mirai session cookie to the backend client.
func ForwardSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if cookie, err := c.Cookie(backend.SessionCookie); err == nil && cookie != "" {
			c.Request = c.Request.WithContext(backend.WithSession(c.Request.Context(), cookie))
		}
		c.Next()
	}
}
