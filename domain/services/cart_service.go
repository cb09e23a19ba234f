package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"loft-shop/domain/dto"
	"loft-shop/domain/models"
)

// CartView cart พร้อม lines และสินค้าล่าสุดสำหรับแนะนำ
type CartView struct {
	Order  *models.Order
	Recent []*models.Product
}

type CartService interface {
	// GetOrCreateCart order ล่าสุดที่ open/awaiting_payment ของลูกค้า ไม่มีจะสร้างใหม่
	GetOrCreateCart(ctx context.Context, identity Identity) (*models.Order, error)
	// AddOrUpdateLine increment / decrement สินค้าหนึ่งชิ้น return cart ที่มี lines
	AddOrUpdateLine(ctx context.Context, identity Identity, productSlug string, action dto.CartAction) (*models.Order, error)
	RemoveLine(ctx context.Context, identity Identity, lineID, orderID uuid.UUID) (*models.Order, error)
	ClearCart(ctx context.Context, identity Identity) (*models.Order, error)
	GetCartView(ctx context.Context, identity Identity) (*CartView, error)
	ComputeTotals(order *models.Order) (decimal.Decimal, int)
}
