package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"loft-shop/domain/models"
	"loft-shop/pkg/utils"
)

// CartAction การเปลี่ยนจำนวนสินค้าใน cart
type CartAction string

const (
	CartActionIncrement CartAction = "increment"
	CartActionDecrement CartAction = "decrement"
)

// ParseCartAction รับ add/remove เป็น alias ของ increment/decrement
func ParseCartAction(s string) (CartAction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "add", "increment":
		return CartActionIncrement, true
	case "remove", "decrement":
		return CartActionDecrement, true
	default:
		return "", false
	}
}

// === Requests ===

type UpdateCartLineRequest struct {
	Slug   string `json:"slug" validate:"required,max=150"`
	Action string `json:"action" validate:"required,oneof=add remove increment decrement"`
}

// === Responses ===

type CartLineResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"productId"`
	Slug      string          `json:"slug"`
	Title     string          `json:"title"`
	ImageURL  string          `json:"imageUrl"`
	Price     decimal.Decimal `json:"price"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Discount  *int            `json:"discount"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
	AddedAt   time.Time       `json:"addedAt"`
}

type CartResponse struct {
	OrderID       uuid.UUID          `json:"orderId"`
	Status        string             `json:"status"`
	Lines         []CartLineResponse `json:"lines"`
	TotalPrice    decimal.Decimal    `json:"totalPrice"`
	TotalLabel    string             `json:"totalLabel"`
	TotalQuantity int                `json:"totalQuantity"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

type CartViewResponse struct {
	Cart   *CartResponse      `json:"cart"`
	Recent []*ProductResponse `json:"recent"`
}

// === Mappers ===

// OrderToCartResponse ต้อง preload Lines.Product แล้ว
func OrderToCartResponse(order *models.Order) *CartResponse {
	if order == nil {
		return nil
	}
	total, qty := order.Totals()
	resp := &CartResponse{
		OrderID:       order.ID,
		Status:        string(order.Status),
		Lines:         make([]CartLineResponse, 0, len(order.Lines)),
		TotalPrice:    total,
		TotalLabel:    utils.FormatPrice(total),
		TotalQuantity: qty,
		UpdatedAt:     order.UpdatedAt,
	}
	for i := range order.Lines {
		line := &order.Lines[i]
		item := CartLineResponse{
			ID:        line.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			LineTotal: line.LineTotal(),
			AddedAt:   line.AddedAt,
		}
		if p := line.Product; p != nil {
			item.Slug = p.Slug
			item.Title = p.Title
			item.ImageURL = p.FirstImageURL()
			item.Price = p.Price
			item.UnitPrice = p.EffectivePrice()
			item.Discount = p.Discount
		}
		resp.Lines = append(resp.Lines, item)
	}
	return resp
}
