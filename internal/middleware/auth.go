package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"Doare/config"
	"Doare/internal/domain/user"
	appErrors "Doare/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type JwtService struct {
	secret     []byte
	expiration time.Duration
}

func NewJwtService(cfg config.JWTConfig) (*JwtService, error) {
	if cfg.Secret == "" {
		return nil, errors.New("JWT_SECRET não configurado")
	}
	return &JwtService{
		secret:     []byte(cfg.Secret),
		expiration: time.Duration(cfg.ExpirationHours) * time.Hour,
	}, nil
}

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (s *JwtService) GenerateToken(u *user.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Id.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *JwtService) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de assinatura inesperado: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, appErrors.ErrUnauthorized.WithError(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, appErrors.ErrUnauthorized
	}

	return claims, nil
}

func AuthMiddleware(jwtSvc *JwtService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abortUnauthorized(c)
			return
		}

		claims, err := jwtSvc.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set("user_id", claims.Subject)
		c.Set("user_role", claims.Role)
		c.Next()
	}
}

// RequireAdmin bloqueia rotas administrativas para doadores comuns.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("user_role")
		if !exists || role != string(user.RoleAdmin) {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   appErrors.ErrForbidden.Code,
				"message": appErrors.ErrForbidden.Message,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"error":   appErrors.ErrUnauthorized.Code,
		"message": appErrors.ErrUnauthorized.Message,
	})
	c.Abort()
}
