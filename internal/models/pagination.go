package models

// PaginationMeta is the page envelope returned alongside list responses.
type PaginationMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// NewPaginationMeta derives the full page envelope from page, limit and the
// total row count.
func NewPaginationMeta(page, limit int, total int64) PaginationMeta {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return PaginationMeta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1 && totalPages > 0,
	}
}

// Envelope is the standard success response shape: {success, data, meta?}.
type Envelope struct {
	Success bool            `json:"success"`
	Data    interface{}     `json:"data"`
	Meta    *PaginationMeta `json:"meta,omitempty"`
}

// OK wraps data in a success envelope.
func OK(data interface{}) Envelope {
	return Envelope{Success: true, Data: data}
}

// OKPage wraps data and pagination meta in a success envelope.
func OKPage(data interface{}, meta PaginationMeta) Envelope {
	return Envelope{Success: true, Data: data, Meta: &meta}
}
