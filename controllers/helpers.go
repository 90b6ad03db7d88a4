package controllers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/moneybridge/moneybridge/middleware"
	"github.com/moneybridge/moneybridge/models"
	"github.com/moneybridge/moneybridge/services"
	"github.com/moneybridge/moneybridge/utils"
)

// maxThumbnailSize bounds uploaded thumbnails before they are decoded.
const maxThumbnailSize = 10 * 1024 * 1024

// respondError maps a service error to status and business code. Internal failures are logged and reported.
func respondError(ctx *gin.Context, err error) {
	msg, key := err.Error(), ""
	var se *services.Error
	if errors.As(err, &se) {
		msg, key = se.Message, se.Key
	}

	switch services.KindOf(err) {
	case services.KindBadRequest:
		utils.Invalid(ctx, 40000, key, msg)
	case services.KindNotFound:
		utils.Error(ctx, http.StatusNotFound, 40400, msg)
	default:
		utils.Logger.Error("request failed",
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.FullPath()),
			zap.Error(err),
		)
		utils.CaptureError(err, map[string]string{"path": ctx.FullPath()})
		utils.Error(ctx, http.StatusInternalServerError, 50000, msg)
	}
}

func parsePagination(ctx *gin.Context) services.PageRequest {
	page := 1
	pageSize := 10
	if p, err := strconv.Atoi(ctx.Query("page")); err == nil && p > 0 {
		page = p
	}
	sizeStr := ctx.Query("page_size")
	if sizeStr == "" {
		sizeStr = ctx.Query("size")
	}
	if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 100 {
		pageSize = s
	}
	return services.PageRequest{Page: page, Size: pageSize}
}

// principal returns the authenticated member or writes 401.
func principal(ctx *gin.Context) (models.Principal, bool) {
	p, ok := middleware.PrincipalFrom(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
	}
	return p, ok
}

// optionalMember returns nil for anonymous callers.
func optionalMember(ctx *gin.Context) models.Member {
	if p, ok := middleware.PrincipalFrom(ctx); ok {
		return p
	}
	return nil
}

// paramID parses a positive id path parameter or writes 400.
func paramID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func bindJSON(ctx *gin.Context, dst interface{}) bool {
	if err := ctx.ShouldBindJSON(dst); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40002, "invalid request payload")
		return false
	}
	return true
}

// thumbnailFile opens the optional "thumbnail" form file. A nil reader means none was sent.
func thumbnailFile(ctx *gin.Context) (io.ReadCloser, bool) {
	fh, err := ctx.FormFile("thumbnail")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, true
		}
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid thumbnail")
		return nil, false
	}
	if fh.Size > maxThumbnailSize {
		utils.Error(ctx, http.StatusBadRequest, 40004, "thumbnail size exceeds 10MB")
		return nil, false
	}
	f, err := fh.Open()
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid thumbnail")
		return nil, false
	}
	return limitedFile{f, io.LimitReader(f, maxThumbnailSize)}, true
}

type limitedFile struct {
	multipart.File
	r io.Reader
}

func (l limitedFile) Read(p []byte) (int, error) { return l.r.Read(p) }
