package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/moneybridge/moneybridge/services"
)

func testContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return ctx, w
}

func TestParsePagination(t *testing.T) {
	cases := map[string]services.PageRequest{
		"/":                      {Page: 1, Size: 10},
		"/?page=3&page_size=20":  {Page: 3, Size: 20},
		"/?page=2&size=5":        {Page: 2, Size: 5},
		"/?page_size=7&size=50":  {Page: 1, Size: 7},
		"/?page=-1&page_size=0":  {Page: 1, Size: 10},
		"/?page=x&page_size=500": {Page: 1, Size: 10},
	}
	for target, want := range cases {
		ctx, _ := testContext(target)
		assert.Equal(t, want, parsePagination(ctx), target)
	}
}

func TestRespondError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		body   string
	}{
		{&services.Error{Kind: services.KindBadRequest, Key: "title", Message: "title: required"}, http.StatusBadRequest, `{"code":40000,"message":"title: required","data":{"key":"title"}}`},
		{fmt.Errorf("wrapped: %w", &services.Error{Kind: services.KindNotFound, Message: "없음"}), http.StatusNotFound, `{"code":40400,"message":"없음"}`},
		{&services.Error{Kind: services.KindInternal, Message: "컨텐츠 저장 실패 : disk full", Err: errors.New("disk full")}, http.StatusInternalServerError, `{"code":50000,"message":"컨텐츠 저장 실패 : disk full"}`},
		{errors.New("boom"), http.StatusInternalServerError, `{"code":50000,"message":"boom"}`},
	}
	for _, tc := range cases {
		ctx, w := testContext("/")
		respondError(ctx, tc.err)
		assert.Equal(t, tc.status, w.Code)
		assert.JSONEq(t, tc.body, w.Body.String())
	}
}

func TestParamID(t *testing.T) {
	ctx, w := testContext("/")
	ctx.Params = gin.Params{{Key: "id", Value: "0"}}
	_, ok := paramID(ctx, "id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	ctx, _ = testContext("/")
	ctx.Params = gin.Params{{Key: "id", Value: "42"}}
	id, ok := paramID(ctx, "id")
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)
}
