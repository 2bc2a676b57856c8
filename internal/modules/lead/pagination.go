package lead

import (
	"strconv"

	"leadflow/internal/domain"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// PageRequest is a clamped page window. Build one with ParsePageRequest so
// the bounds always hold.
type PageRequest struct {
	Page  int
	Limit int
}

// ParsePageRequest reads raw query-string values and clamps them: page into
// [1,inf), limit into [1,100]. Missing, non-numeric, zero and negative
// inputs fall back to the defaults so a mangled query string still lists.
func ParsePageRequest(pageStr, limitStr string) PageRequest {
	page := DefaultPage
	if v, err := strconv.Atoi(pageStr); err == nil && v > 0 {
		page = v
	}

	limit := DefaultLimit
	if v, err := strconv.Atoi(limitStr); err == nil && v > 0 {
		limit = v
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return PageRequest{Page: page, Limit: limit}
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageResult is the page envelope. Total counts every record matching the
// compiled query regardless of the window, so TotalPages is always
// consistent with Total and Limit.
type PageResult struct {
	Data       []domain.Lead `json:"data"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	Total      int64         `json:"total"`
	TotalPages int64         `json:"totalPages"`
}

func NewPageResult(data []domain.Lead, req PageRequest, total int64) *PageResult {
	if data == nil {
		data = []domain.Lead{}
	}
	return &PageResult{
		Data:       data,
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: TotalPages(total, req.Limit),
	}
}

// TotalPages returns ceil(total/limit), with 0 pages for an empty result.
func TotalPages(total int64, limit int) int64 {
	if total <= 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
