package dto

import "github.com/google/uuid"

type PaginationMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

type IDRequest struct {
	ID uuid.UUID `json:"id" validate:"required" param:"id"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// NewPaginationMeta คำนวณจำนวนหน้า (อย่างน้อย 1)
func NewPaginationMeta(total int64, page, limit int) PaginationMeta {
	pages := 1
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
		if pages < 1 {
			pages = 1
		}
	}
	return PaginationMeta{Total: total, Page: page, Limit: limit, TotalPages: pages}
}
