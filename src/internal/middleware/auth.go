package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"accessgate-svc/src/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// Claims represents admin JWT token claims
type Claims struct {
	Username  string `json:"username"`
	Role      string `json:"role"`
	TokenType string `json:"tokenType"`
	jwt.RegisteredClaims
}

// AuthMiddleware guards the admin surface. Admins exchange the configured
// credential pair for a short-lived HMAC JWT; holder access tokens never
// pass through here.
type AuthMiddleware struct {
	cfg *config.SecuritySettings
}

func NewAuthMiddleware(cfg *config.Configuration) *AuthMiddleware {
	return &AuthMiddleware{cfg: &cfg.Security}
}

type adminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginHandler exchanges the admin username/password for a JWT.
func (m *AuthMiddleware) LoginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req adminLoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Username and password are required",
			})
			return
		}

		if !m.credentialsMatch(req.Username, req.Password) {
			logrus.WithField("username", req.Username).Warn("Admin login rejected")
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid admin credentials",
			})
			return
		}

		token, err := m.issueAdminToken(req.Username)
		if err != nil {
			logrus.WithError(err).Error("Failed to sign admin token")
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to issue admin token",
			})
			return
		}

		logrus.WithField("username", req.Username).Info("Admin authenticated")
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"accessToken": token},
		})
	}
}

// RequireAdmin validates the admin JWT from the Authorization header.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization token is required",
			})
			c.Abort()
			return
		}

		claims, err := m.validateJWTToken(token)
		if err != nil {
			logrus.WithError(err).Error("Admin JWT validation failed")
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		if claims.Role != "admin" {
			logrus.WithField("username", claims.Username).Warn("Non-admin token on admin endpoint")
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Access forbidden - admin privileges required",
			})
			c.Abort()
			return
		}

		c.Set("admin_username", claims.Username)
		c.Next()
	}
}

func (m *AuthMiddleware) credentialsMatch(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(m.cfg.AdminUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(m.cfg.AdminPassword)) == 1
	return userOK && passOK
}

func (m *AuthMiddleware) issueAdminToken(username string) (string, error) {
	hours := m.cfg.AdminTokenHours
	if hours <= 0 {
		hours = 12
	}

	now := time.Now()
	claims := &Claims{
		Username:  username,
		Role:      "admin",
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(hours) * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.cfg.JwtKey))
}

// extractToken extracts the JWT from the Authorization header
func (m *AuthMiddleware) extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		logrus.Error("Invalid authorization header format")
		return ""
	}

	return strings.TrimPrefix(authHeader, "Bearer ")
}

// validateJWTToken parses and validates the JWT (signature and expiration)
func (m *AuthMiddleware) validateJWTToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(m.cfg.JwtKey), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.New("token expired")
		}
		return nil, errors.New("invalid token")
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	if claims.TokenType != "access" {
		return nil, errors.New("invalid token type")
	}

	return claims, nil
}
