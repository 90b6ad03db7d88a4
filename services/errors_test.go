package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	cause := errors.New("connection reset")
	err := internal("컨텐츠 조회 실패", cause)
	assert.Equal(t, "컨텐츠 조회 실패 : connection reset", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindInternal, KindOf(err))

	wrapped := fmt.Errorf("handler: %w", notFound("없음"))
	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.Equal(t, KindBadRequest, KindOf(badRequest("title", "required")))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Equal(t, "not_found", KindNotFound.String())
}

func TestPageRequestNormalize(t *testing.T) {
	p := PageRequest{}.normalize()
	assert.Equal(t, PageRequest{Page: 1, Size: defaultPageSize}, p)
	assert.Equal(t, 0, p.offset())

	p = PageRequest{Page: 3, Size: 500}.normalize()
	assert.Equal(t, maxPageSize, p.Size)
	assert.Equal(t, 200, p.offset())

	page := newPage[int](nil, PageRequest{Page: 1, Size: 10}, 0)
	assert.NotNil(t, page.Items)
	assert.Equal(t, 0, page.Pagination.TotalPages)
}
