package dto

import (
	"time"

	"github.com/google/uuid"
	"loft-shop/domain/models"
)

// === Requests ===

type ShippingRequest struct {
	Address  string    `json:"address" validate:"required,max=150"`
	Phone    string    `json:"phone" validate:"required,max=30"`
	Comment  string    `json:"comment" validate:"max=200"`
	RegionID uuid.UUID `json:"regionId" validate:"required"`
	CityID   uuid.UUID `json:"cityId" validate:"required"`
}

type CreateRegionRequest struct {
	Title string `json:"title" validate:"required,min=1,max=150"`
}

type CreateCityRequest struct {
	Title    string    `json:"title" validate:"required,min=1,max=150"`
	RegionID uuid.UUID `json:"regionId" validate:"required"`
}

// === Responses ===

type CityOption struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

type RegionOption struct {
	ID     uuid.UUID    `json:"id"`
	Title  string       `json:"title"`
	Cities []CityOption `json:"cities"`
}

type ShippingResponse struct {
	ID        uuid.UUID `json:"id"`
	OrderID   uuid.UUID `json:"orderId"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	Comment   string    `json:"comment"`
	RegionID  uuid.UUID `json:"regionId"`
	CityID    uuid.UUID `json:"cityId"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CheckoutResponse struct {
	Cart     *CartResponse     `json:"cart"`
	Regions  []RegionOption    `json:"regions"`
	Shipping *ShippingResponse `json:"shipping"`
}

// === Mappers ===

func ShippingToResponse(s *models.ShippingAddress) *ShippingResponse {
	if s == nil {
		return nil
	}
	return &ShippingResponse{
		ID:        s.ID,
		OrderID:   s.OrderID,
		Address:   s.Address,
		Phone:     s.Phone,
		Comment:   s.Comment,
		RegionID:  s.RegionID,
		CityID:    s.CityID,
		UpdatedAt: s.UpdatedAt,
	}
}

// RegionsToOptions ลำดับตามที่ repository ส่งมา (ชื่อ region / ชื่อ city)
func RegionsToOptions(regions []*models.Region) []RegionOption {
	out := make([]RegionOption, 0, len(regions))
	for _, r := range regions {
		opt := RegionOption{ID: r.ID, Title: r.Title, Cities: make([]CityOption, 0, len(r.Cities))}
		for _, c := range r.Cities {
			opt.Cities = append(opt.Cities, CityOption{ID: c.ID, Title: c.Title})
		}
		out = append(out, opt)
	}
	return out
}
