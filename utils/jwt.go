package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/moneybridge/moneybridge/config"
	"github.com/moneybridge/moneybridge/models"
)

// Claims defines JWT claims used in the application.
type Claims struct {
	MemberID uint        `json:"member_id"`
	Role     models.Role `json:"role"`
	Admin    bool        `json:"admin,omitempty"`
	jwt.RegisteredClaims
}

// Principal converts the claims into the request identity.
func (c *Claims) Principal() models.Principal {
	return models.Principal{ID: c.MemberID, Role: c.Role, Admin: c.Admin}
}

// GenerateToken issues a JWT for the specified member identity.
func GenerateToken(p models.Principal, duration time.Duration) (string, error) {
	cfg := config.Get()

	claims := Claims{
		MemberID: p.ID,
		Role:     p.Role,
		Admin:    p.Admin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ParseToken validates a JWT and returns its claims.
func ParseToken(tokenStr string) (*Claims, error) {
	cfg := config.Get()
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	if !claims.Role.Valid() {
		return nil, errors.New("invalid member role")
	}

	return claims, nil
}
