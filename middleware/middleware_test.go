package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneybridge/moneybridge/config"
	"github.com/moneybridge/moneybridge/models"
	"github.com/moneybridge/moneybridge/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	chain := append(handlers, func(ctx *gin.Context) {
		p, _ := PrincipalFrom(ctx)
		ctx.JSON(http.StatusOK, gin.H{"id": p.ID, "role": p.Role})
	})
	r.GET("/", chain...)
	return r
}

func serve(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func tokenFor(t *testing.T, p models.Principal) string {
	t.Helper()
	config.Set(config.AppConfig{JWTSecret: "middleware-secret"})
	tok, err := utils.GenerateToken(p, time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestAuthRequired(t *testing.T) {
	r := newEngine(AuthRequired())
	pb := tokenFor(t, models.Principal{ID: 7, Role: models.RolePB})

	w := serve(r, pb)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":7,"role":"PB"}`, w.Body.String())

	for header, code := range map[string]int{
		"":                 40101,
		"Token abc":        40102,
		"Bearer ":          40103,
		"Bearer not-a-jwt": 40105,
	} {
		w := serve(r, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
		assert.Contains(t, w.Body.String(), `"code":`+itoa(code), header)
	}
}

func TestAuthRequiredRejectsOtherSecret(t *testing.T) {
	header := tokenFor(t, models.Principal{ID: 1, Role: models.RoleUser})
	config.Set(config.AppConfig{JWTSecret: "rotated"})
	w := serve(newEngine(AuthRequired()), header)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAuth(t *testing.T) {
	r := newEngine(OptionalAuth())
	assert.JSONEq(t, `{"id":0,"role":""}`, serve(r, "").Body.String())
	assert.JSONEq(t, `{"id":0,"role":""}`, serve(r, "Bearer junk").Body.String())

	user := tokenFor(t, models.Principal{ID: 3, Role: models.RoleUser})
	assert.JSONEq(t, `{"id":3,"role":"USER"}`, serve(r, user).Body.String())
}

func TestRoleAndAdminGuards(t *testing.T) {
	user := tokenFor(t, models.Principal{ID: 1, Role: models.RoleUser})
	admin := tokenFor(t, models.Principal{ID: 2, Role: models.RoleUser, Admin: true})
	pbAdmin := tokenFor(t, models.Principal{ID: 3, Role: models.RolePB, Admin: true})

	pbOnly := newEngine(AuthRequired(), RoleRequired(models.RolePB))
	assert.Equal(t, http.StatusForbidden, serve(pbOnly, user).Code)
	assert.Equal(t, http.StatusOK, serve(pbOnly, pbAdmin).Code)

	adminOnly := newEngine(AuthRequired(), AdminRequired())
	assert.Equal(t, http.StatusForbidden, serve(adminOnly, user).Code)
	assert.Equal(t, http.StatusForbidden, serve(adminOnly, pbAdmin).Code)
	assert.Equal(t, http.StatusOK, serve(adminOnly, admin).Code)

	// guards without AuthRequired see no principal
	assert.Equal(t, http.StatusUnauthorized, serve(newEngine(AdminRequired()), admin).Code)
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimit(2), func(ctx *gin.Context) { ctx.Status(http.StatusNoContent) })

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":5555"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	// burst is half the per-minute rate
	assert.Equal(t, http.StatusNoContent, hit("10.1.1.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit("10.1.1.1"))
	assert.Equal(t, http.StatusNoContent, hit("10.1.1.2"))

	open := gin.New()
	open.GET("/", RateLimit(0), func(ctx *gin.Context) { ctx.Status(http.StatusNoContent) })
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		open.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
