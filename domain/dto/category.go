package dto

import (
	"time"

	"github.com/google/uuid"
	"loft-shop/domain/models"
)

// === Requests ===

type CreateCategoryRequest struct {
	Title    string     `json:"title" validate:"required,min=1,max=150"`
	Slug     string     `json:"slug" validate:"omitempty,max=150"`
	Icon     string     `json:"icon" validate:"omitempty,url,max=500"`
	ParentID *uuid.UUID `json:"parentId"`
}

// === Responses ===

type CategoryResponse struct {
	ID        uuid.UUID           `json:"id"`
	Title     string              `json:"title"`
	Slug      string              `json:"slug"`
	Icon      string              `json:"icon,omitempty"`
	ParentID  *uuid.UUID          `json:"parentId"`
	CreatedAt time.Time           `json:"createdAt"`
	Children  []*CategoryResponse `json:"children,omitempty"`
}

// === Mappers ===

func CategoryToCategoryResponse(category *models.Category) *CategoryResponse {
	if category == nil {
		return nil
	}
	resp := &CategoryResponse{
		ID:        category.ID,
		Title:     category.Title,
		Slug:      category.Slug,
		Icon:      category.Icon,
		ParentID:  category.ParentID,
		CreatedAt: category.CreatedAt,
	}
	if len(category.Children) > 0 {
		resp.Children = make([]*CategoryResponse, len(category.Children))
		for i := range category.Children {
			resp.Children[i] = CategoryToCategoryResponse(&category.Children[i])
		}
	}
	return resp
}

func CategoriesToResponses(categories []*models.Category) []*CategoryResponse {
	out := make([]*CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryToCategoryResponse(c))
	}
	return out
}
