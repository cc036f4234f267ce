package storetest

import (
	"context"
	"sort"
	"sync"

	"krishilink/internal/domain/models"
	"krishilink/internal/query"
	"krishilink/internal/query/querytest"
)

type MarketPrices struct {
	mu    sync.Mutex
	items []models.MarketPrice
}

func NewMarketPrices() *MarketPrices { return &MarketPrices{} }

func priceRow(p models.MarketPrice) map[string]any {
	return map[string]any{
		"mp.crop":       p.Crop,
		"mp.state":      p.State,
		"mp.district":   p.District,
		"mp.market":     p.Market,
		"mp.price_date": p.Date,
	}
}

func (s *MarketPrices) matching(p query.Predicate) []models.MarketPrice {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.MarketPrice
	for _, mp := range s.items {
		if querytest.Match(p, priceRow(mp)) {
			out = append(out, mp)
		}
	}
	return out
}

func (s *MarketPrices) List(_ context.Context, p query.Predicate, page query.Page) ([]models.MarketPrice, int, error) {
	all := s.matching(p)
	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].Date.Equal(all[j].Date) {
			return all[i].Date.After(all[j].Date)
		}
		return all[i].Crop < all[j].Crop
	})
	return window(all, page), len(all), nil
}

func (s *MarketPrices) Trend(_ context.Context, p query.Predicate) ([]models.MarketPrice, error) {
	all := s.matching(p)
	sort.SliceStable(all, func(i, j int) bool { return all[i].Date.Before(all[j].Date) })
	return all, nil
}

func (s *MarketPrices) Filters(_ context.Context) (models.PriceFilters, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	crops, states := map[string]bool{}, map[string]bool{}
	out := models.PriceFilters{Crops: []string{}, States: []string{}}
	for _, mp := range s.items {
		if !crops[mp.Crop] {
			crops[mp.Crop] = true
			out.Crops = append(out.Crops, mp.Crop)
		}
		if !states[mp.State] {
			states[mp.State] = true
			out.States = append(out.States, mp.State)
		}
	}
	sort.Strings(out.Crops)
	sort.Strings(out.States)
	return out, nil
}

func (s *MarketPrices) Create(_ context.Context, p *models.MarketPrice) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	cp.ID = int64(len(s.items) + 1)
	s.items = append(s.items, cp)
	return cp.ID, nil
}

type Marketplace struct {
	mu           sync.Mutex
	mandi        []models.MandiPrice
	listings     []models.FarmerListing
	requirements []models.BuyerRequirement
}

func NewMarketplace() *Marketplace { return &Marketplace{} }

func (s *Marketplace) ListMandiPrices(_ context.Context, p query.Predicate, page query.Page) ([]models.MandiPrice, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []models.MandiPrice
	for i := len(s.mandi) - 1; i >= 0; i-- {
		m := s.mandi[i]
		if querytest.Match(p, map[string]any{"m.crop": m.Crop, "m.mandi_name": m.MandiName}) {
			all = append(all, m)
		}
	}
	return window(all, page), len(all), nil
}

func (s *Marketplace) CreateMandiPrice(_ context.Context, m *models.MandiPrice) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *m
	cp.ID = int64(len(s.mandi) + 1)
	s.mandi = append(s.mandi, cp)
	return cp.ID, nil
}

func (s *Marketplace) ListFarmerListings(_ context.Context, p query.Predicate, page query.Page) ([]models.FarmerListing, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []models.FarmerListing
	for i := len(s.listings) - 1; i >= 0; i-- {
		f := s.listings[i]
		row := map[string]any{"f.crop": f.Crop, "f.grade": f.Grade, "f.status": f.Status, "f.price_per_unit": f.PricePerUnit}
		if querytest.Match(p, row) {
			all = append(all, f)
		}
	}
	return window(all, page), len(all), nil
}

func (s *Marketplace) CreateFarmerListing(_ context.Context, f *models.FarmerListing) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *f
	cp.ID = int64(len(s.listings) + 1)
	s.listings = append(s.listings, cp)
	return cp.ID, nil
}

func (s *Marketplace) ListBuyerRequirements(_ context.Context, p query.Predicate, page query.Page) ([]models.BuyerRequirement, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []models.BuyerRequirement
	for i := len(s.requirements) - 1; i >= 0; i-- {
		b := s.requirements[i]
		if querytest.Match(p, map[string]any{"b.crop": b.Crop, "b.grade": b.Grade, "b.status": b.Status}) {
			all = append(all, b)
		}
	}
	return window(all, page), len(all), nil
}

func (s *Marketplace) CreateBuyerRequirement(_ context.Context, b *models.BuyerRequirement) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *b
	cp.ID = int64(len(s.requirements) + 1)
	s.requirements = append(s.requirements, cp)
	return cp.ID, nil
}
