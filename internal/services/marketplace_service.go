package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"krishilink/internal/domain/models"
	"krishilink/internal/query"
	"krishilink/internal/utils"
)

// MarketplaceService serves the flat marketplace records. None of them
// have an owner.
type MarketplaceService struct {
	Store MarketplaceStore
	Now   func() time.Time
}

func (s MarketplaceService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowUTC()
}

func (s MarketplaceService) MandiPrices(ctx context.Context, params map[string]string) ([]models.MandiPrice, query.Pagination, error) {
	pred, err := MandiPriceFilters.Strict(params)
	if err != nil {
		return nil, query.Pagination{}, err
	}
	page := query.ParsePage(params, MarketplacePageSize)
	items, total, err := s.Store.ListMandiPrices(ctx, pred, page)
	if err != nil {
		return nil, query.Pagination{}, err
	}
	return items, query.NewPagination(page, total), nil
}

func (s MarketplaceService) AddMandiPrice(ctx context.Context, in models.MandiPriceInput) (*models.MandiPrice, error) {
	now := s.now()
	m := &models.MandiPrice{
		MandiName:  utils.NormalizeSpace(in.MandiName),
		Location:   utils.NormalizeSpace(in.Location),
		Crop:       utils.NormalizeSpace(in.Crop),
		Grade:      strings.TrimSpace(in.Grade),
		Unit:       defaultString(in.Unit, "kg"),
		MinPrice:   deref(in.MinPrice),
		MaxPrice:   deref(in.MaxPrice),
		ModalPrice: deref(in.ModalPrice),
		Date:       now,
		CreatedAt:  now,
	}
	id, err := s.Store.CreateMandiPrice(ctx, m)
	if err != nil {
		return nil, err
	}
	m.ID = id
	utils.LogEventCtx(ctx, "marketplace", "create_mandi_price", fmt.Sprintf("id=%d", id))
	return m, nil
}

func (s MarketplaceService) FarmerListings(ctx context.Context, params map[string]string) ([]models.FarmerListing, query.Pagination, error) {
	pred, err := FarmerListingFilters.Strict(params)
	if err != nil {
		return nil, query.Pagination{}, err
	}
	page := query.ParsePage(params, MarketplacePageSize)
	items, total, err := s.Store.ListFarmerListings(ctx, pred, page)
	if err != nil {
		return nil, query.Pagination{}, err
	}
	return items, query.NewPagination(page, total), nil
}

func (s MarketplaceService) AddFarmerListing(ctx context.Context, in models.FarmerListingInput) (*models.FarmerListing, error) {
	f := &models.FarmerListing{
		SellerName:   utils.NormalizeSpace(in.SellerName),
		Crop:         utils.NormalizeSpace(in.Crop),
		Grade:        strings.TrimSpace(in.Grade),
		Quantity:     deref(in.Quantity),
		Unit:         defaultString(in.Unit, "kg"),
		PricePerUnit: deref(in.PricePerUnit),
		Description:  strings.TrimSpace(in.Description),
		Status:       models.FarmerListingActive,
		CreatedAt:    s.now(),
	}
	id, err := s.Store.CreateFarmerListing(ctx, f)
	if err != nil {
		return nil, err
	}
	f.ID = id
	utils.LogEventCtx(ctx, "marketplace", "create_farmer_listing", fmt.Sprintf("id=%d", id))
	return f, nil
}

func (s MarketplaceService) BuyerRequirements(ctx context.Context, params map[string]string) ([]models.BuyerRequirement, query.Pagination, error) {
	pred, err := BuyerRequirementFilters.Strict(params)
	if err != nil {
		return nil, query.Pagination{}, err
	}
	page := query.ParsePage(params, MarketplacePageSize)
	items, total, err := s.Store.ListBuyerRequirements(ctx, pred, page)
	if err != nil {
		return nil, query.Pagination{}, err
	}
	return items, query.NewPagination(page, total), nil
}

func (s MarketplaceService) AddBuyerRequirement(ctx context.Context, in models.BuyerRequirementInput) (*models.BuyerRequirement, error) {
	b := &models.BuyerRequirement{
		BuyerName:       utils.NormalizeSpace(in.BuyerName),
		Crop:            utils.NormalizeSpace(in.Crop),
		Grade:           strings.TrimSpace(in.Grade),
		MinQty:          deref(in.MinQty),
		Unit:            defaultString(in.Unit, "kg"),
		MaxPricePerUnit: deref(in.MaxPricePerUnit),
		Notes:           strings.TrimSpace(in.Notes),
		Status:          models.RequirementOpen,
		CreatedAt:       s.now(),
	}
	id, err := s.Store.CreateBuyerRequirement(ctx, b)
	if err != nil {
		return nil, err
	}
	b.ID = id
	utils.LogEventCtx(ctx, "marketplace", "create_buyer_requirement", fmt.Sprintf("id=%d", id))
	return b, nil
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func defaultString(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}
