package serviceimpl

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loft-shop/domain/dto"
	"loft-shop/domain/models"
	"loft-shop/domain/services"
)

func TestSubmitShippingUpserts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.user(t, "anya")
	cat := f.category(t, "Sofas", nil)
	f.product(t, cat, "sofa", "1000", nil)
	cart, err := f.carts.AddOrUpdateLine(ctx, id, "sofa", dto.CartActionIncrement)
	require.NoError(t, err)

	region, cities := f.region(t, "Moscow Oblast", "Khimki", "Mytishchi")
	req := &dto.ShippingRequest{
		Address:  "Lenina 1",
		Phone:    "+79991112233",
		RegionID: region.ID,
		CityID:   cities[0].ID,
	}
	first, err := f.checkout.SubmitShipping(ctx, id, req)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, first.OrderID)

	req.Address = "Mira 5"
	req.CityID = cities[1].ID
	_, err = f.checkout.SubmitShipping(ctx, id, req)
	require.NoError(t, err)

	var count int64
	require.NoError(t, f.db.Model(&models.ShippingAddress{}).Where("order_id = ?", cart.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	stored, err := f.shippingRepo.GetByOrderID(ctx, cart.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mira 5", stored.Address)
	assert.Equal(t, cities[1].ID, stored.CityID)
}

func TestSubmitShippingValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.user(t, "bella")
	cat := f.category(t, "Sofas", nil)
	f.product(t, cat, "sofa", "1000", nil)

	north, northCities := f.region(t, "North", "Arkhangelsk")
	_, southCities := f.region(t, "South", "Sochi")

	tests := []struct {
		name  string
		req   *dto.ShippingRequest
		field string
	}{
		{
			name:  "missing address",
			req:   &dto.ShippingRequest{Phone: "1", RegionID: north.ID, CityID: northCities[0].ID},
			field: "address",
		},
		{
			name:  "blank phone",
			req:   &dto.ShippingRequest{Address: "Lenina 1", Phone: "   ", RegionID: north.ID, CityID: northCities[0].ID},
			field: "phone",
		},
		{
			name:  "unknown region",
			req:   &dto.ShippingRequest{Address: "a", Phone: "1", RegionID: uuid.New(), CityID: northCities[0].ID},
			field: "regionId",
		},
		{
			name:  "city of another region",
			req:   &dto.ShippingRequest{Address: "a", Phone: "1", RegionID: north.ID, CityID: southCities[0].ID},
			field: "cityId",
		},
		{
			name:  "unknown city",
			req:   &dto.ShippingRequest{Address: "a", Phone: "1", RegionID: north.ID, CityID: uuid.New()},
			field: "cityId",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.checkout.SubmitShipping(ctx, id, tt.req)
			var verr *services.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
}

func TestSubmitShippingEmptyCart(t *testing.T) {
	f := newFixture(t)
	id := f.user(t, "vika")
	region, cities := f.region(t, "East", "Vladivostok")

	_, err := f.checkout.SubmitShipping(context.Background(), id, &dto.ShippingRequest{
		Address:  "Svetlanskaya 1",
		Phone:    "1",
		RegionID: region.ID,
		CityID:   cities[0].ID,
	})
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "cart")
}

func TestGetCheckout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.user(t, "gala")

	_, err := f.checkout.GetCheckout(ctx, id)
	assert.ErrorIs(t, err, services.ErrValidation)

	cat := f.category(t, "Sofas", nil)
	f.product(t, cat, "sofa", "1000", nil)
	_, err = f.carts.AddOrUpdateLine(ctx, id, "sofa", dto.CartActionIncrement)
	require.NoError(t, err)
	f.region(t, "Zeta", "Z1")
	f.region(t, "Alpha", "A2", "A1")

	view, err := f.checkout.GetCheckout(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, view.Shipping)
	require.Len(t, view.Regions, 2)
	assert.Equal(t, "Alpha", view.Regions[0].Title)
	require.Len(t, view.Regions[0].Cities, 2)
	assert.Equal(t, "A1", view.Regions[0].Cities[0].Title)
	assert.Len(t, view.Order.Lines, 1)
}

func TestRegionTreeCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	region, err := f.checkout.CreateRegion(ctx, &dto.CreateRegionRequest{Title: "Tver Oblast"})
	require.NoError(t, err)

	tree, err := f.checkout.ListRegionCityTree(ctx)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Empty(t, tree[0].Cities)
	assert.Equal(t, 1, f.cache.sets)

	// อ่านจาก cache ไม่ set ซ้ำ
	_, err = f.checkout.ListRegionCityTree(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.sets)

	_, err = f.checkout.CreateCity(ctx, &dto.CreateCityRequest{Title: "Tver", RegionID: region.ID})
	require.NoError(t, err)

	tree, err = f.checkout.ListRegionCityTree(ctx)
	require.NoError(t, err)
	require.Len(t, tree[0].Cities, 1)
	assert.Equal(t, "Tver", tree[0].Cities[0].Title)
	assert.Equal(t, 2, f.cache.sets)
}

func TestCreateRegionDuplicateAndCityUnknownRegion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.checkout.CreateRegion(ctx, &dto.CreateRegionRequest{Title: "Kaluga Oblast"})
	require.NoError(t, err)
	_, err = f.checkout.CreateRegion(ctx, &dto.CreateRegionRequest{Title: "Kaluga Oblast"})
	assert.ErrorIs(t, err, services.ErrConflict)

	_, err = f.checkout.CreateCity(ctx, &dto.CreateCityRequest{Title: "Nowhere", RegionID: uuid.New()})
	assert.ErrorIs(t, err, services.ErrNotFound)
}
