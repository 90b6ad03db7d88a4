package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	assert.Equal(t, "<p>hi</p>", Sanitize(`<p onclick="x()">hi</p><script>alert(1)</script>`))
	assert.Equal(t, "title", SanitizeText(" <b>title</b> "))
}

func TestUniqueUint(t *testing.T) {
	assert.Equal(t, []uint{3, 1, 2}, UniqueUint([]uint{3, 1, 3, 2, 1}))
	assert.Equal(t, []uint{}, UniqueUint(nil))
}

func TestNewPagination(t *testing.T) {
	assert.Equal(t, Pagination{Page: 2, PageSize: 10, Total: 21, TotalPages: 3}, NewPagination(2, 10, 21))
	assert.Equal(t, 0, NewPagination(1, 10, 0).TotalPages)
}

func TestInvalid(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	Invalid(ctx, 40000, "companyId", "존재하지 않는 증권사입니다.")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"code":40000,"message":"존재하지 않는 증권사입니다.","data":{"key":"companyId"}}`, w.Body.String())

	w = httptest.NewRecorder()
	ctx, _ = gin.CreateTestContext(w)
	Invalid(ctx, 40000, "", "이미 승인 완료된 PB입니다.")
	assert.JSONEq(t, `{"code":40000,"message":"이미 승인 완료된 PB입니다."}`, w.Body.String())
}
