package models

import (
	"math"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxPage keeps (page-1)*limit within int for every allowed limit.
	MaxPage = math.MaxInt32 / MaxLimit
)

// Pagination is the "pagination" block of list responses.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

// PageRequest resolved page/limit for a list query.
type PageRequest struct {
	Page  int
	Limit int
}

// ParsePageRequest resolves raw query values. Page is at least 1 (non-numeric -> 1)
// and at most MaxPage; limit defaults to 10 and is clamped to [1,100].
func ParsePageRequest(rawPage, rawLimit string) PageRequest {
	page, err := strconv.Atoi(rawPage)
	if err != nil || page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}
	limit, err := strconv.Atoi(rawLimit)
	if err != nil {
		limit = DefaultLimit
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return PageRequest{Page: page, Limit: limit}
}

func (p PageRequest) Skip() int { return (p.Page - 1) * p.Limit }

// With builds the response block for total matching rows.
func (p PageRequest) With(total int64) Pagination {
	limit := int64(p.Limit)
	return Pagination{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
	}
}
