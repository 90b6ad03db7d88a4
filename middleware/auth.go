package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/moneybridge/moneybridge/models"
	"github.com/moneybridge/moneybridge/utils"
)

// ContextPrincipalKey is the key used to store the authenticated member in Gin context.
const ContextPrincipalKey = "principal"

// AuthRequired ensures the request is authenticated via JWT.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, code, msg := bearerToken(ctx)
		if code != 0 {
			utils.Error(ctx, http.StatusUnauthorized, code, msg)
			ctx.Abort()
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
			ctx.Abort()
			return
		}

		ctx.Set(ContextPrincipalKey, claims.Principal())
		ctx.Next()
	}
}

// OptionalAuth resolves the member when a valid token is present and lets anonymous requests through.
func OptionalAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if tokenString, code, _ := bearerToken(ctx); code == 0 {
			if claims, err := utils.ParseToken(tokenString); err == nil {
				ctx.Set(ContextPrincipalKey, claims.Principal())
			}
		}
		ctx.Next()
	}
}

// RoleRequired rejects members whose role is not listed. It must run after AuthRequired.
func RoleRequired(roles ...models.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		p, ok := PrincipalFrom(ctx)
		if !ok {
			utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
			ctx.Abort()
			return
		}
		for _, r := range roles {
			if p.Role == r {
				ctx.Next()
				return
			}
		}
		utils.Error(ctx, http.StatusForbidden, 40301, "권한이 없습니다.")
		ctx.Abort()
	}
}

// AdminRequired only admits users carrying the admin flag.
func AdminRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		p, ok := PrincipalFrom(ctx)
		if !ok {
			utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
			ctx.Abort()
			return
		}
		if !p.Admin || p.Role != models.RoleUser {
			utils.Error(ctx, http.StatusForbidden, 40302, "관리자 권한이 없습니다.")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// PrincipalFrom returns the member stored by AuthRequired or OptionalAuth.
func PrincipalFrom(ctx *gin.Context) (models.Principal, bool) {
	value, exists := ctx.Get(ContextPrincipalKey)
	if !exists {
		return models.Principal{}, false
	}
	p, ok := value.(models.Principal)
	return p, ok
}

func bearerToken(ctx *gin.Context) (string, int, string) {
	authHeader := ctx.GetHeader("Authorization")
	if authHeader == "" {
		return "", 40101, "authorization header missing"
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", 40102, "invalid authorization header format"
	}

	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		return "", 40103, "empty bearer token"
	}
	return tokenString, 0, ""
}
