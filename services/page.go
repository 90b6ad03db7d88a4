package services

import "github.com/moneybridge/moneybridge/utils"

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// PageRequest selects a 1-based page of a listing.
type PageRequest struct {
	Page int
	Size int
}

func (p PageRequest) normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Size < 1 {
		p.Size = defaultPageSize
	}
	if p.Size > maxPageSize {
		p.Size = maxPageSize
	}
	return p
}

func (p PageRequest) offset() int {
	return (p.Page - 1) * p.Size
}

// Page is one page of a listing.
type Page[T any] struct {
	Items      []T              `json:"items"`
	Pagination utils.Pagination `json:"pagination"`
}

func newPage[T any](items []T, p PageRequest, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Pagination: utils.NewPagination(p.Page, p.Size, total)}
}
