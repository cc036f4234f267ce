package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"krishilink/internal/domain"
	"krishilink/internal/domain/models"
	"krishilink/internal/query"
	"krishilink/internal/utils"
)

const (
	defaultTrendDays = 30
	maxTrendDays     = 365
	// ReportRowLimit bounds the rows printed in one price report.
	ReportRowLimit = 500
)

type MarketService struct {
	Prices MarketPriceStore
	Now    func() time.Time
}

func (s MarketService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowUTC()
}

// PriceList is the response of the price lookup.
type PriceList struct {
	Prices     []models.MarketPrice `json:"prices"`
	Filters    models.PriceFilters  `json:"filters"`
	Pagination query.Pagination     `json:"pagination"`
}

func (s MarketService) List(ctx context.Context, params map[string]string) (PriceList, error) {
	pred, err := MarketPriceFilters.Strict(params)
	if err != nil {
		return PriceList{}, err
	}
	page := query.ParsePage(params, MarketPricePageSize)
	items, total, err := s.Prices.List(ctx, pred, page)
	if err != nil {
		return PriceList{}, err
	}
	filters, err := s.Prices.Filters(ctx)
	if err != nil {
		return PriceList{}, err
	}
	return PriceList{Prices: items, Filters: filters, Pagination: query.NewPagination(page, total)}, nil
}

// Trend returns a crop's prices over the last `days` days (default 30),
// oldest first.
func (s MarketService) Trend(ctx context.Context, crop string, params map[string]string) ([]models.PricePoint, error) {
	crop = strings.TrimSpace(crop)
	if crop == "" {
		return nil, domain.ValidationError{Field: "crop", Msg: "crop is required"}
	}
	days := defaultTrendDays
	if raw := strings.TrimSpace(params["days"]); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return nil, domain.ValidationError{Field: "days", Msg: "must be a positive integer"}
		}
		days = min(n, maxTrendDays)
	}

	regional := query.Schema{
		query.TextField("state", "mp.state"),
		query.TextField("district", "mp.district"),
	}
	pred := regional.Lenient(params).
		With(query.OpContains, "mp.crop", crop).
		With(query.OpGte, "mp.price_date", s.now().Add(-time.Duration(days)*24*time.Hour))

	rows, err := s.Prices.Trend(ctx, pred)
	if err != nil {
		return nil, err
	}
	out := make([]models.PricePoint, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.PricePoint{Date: r.Date, Price: r.Price, Market: r.Market, State: r.State, District: r.District})
	}
	return out, nil
}

func (s MarketService) Create(ctx context.Context, in models.MarketPriceInput) (*models.MarketPrice, error) {
	if in.Price.Min > in.Price.Max {
		return nil, domain.ValidationError{Field: "price", Msg: "min price cannot exceed max price"}
	}
	if in.Price.Modal < in.Price.Min || in.Price.Modal > in.Price.Max {
		return nil, domain.ValidationError{Field: "price", Msg: "modal price must lie between min and max"}
	}
	p := &models.MarketPrice{
		Crop:      strings.ToLower(utils.NormalizeSpace(in.Crop)),
		Variety:   strings.TrimSpace(in.Variety),
		Market:    utils.NormalizeSpace(in.Market),
		State:     utils.NormalizeSpace(in.State),
		District:  utils.NormalizeSpace(in.District),
		Price:     in.Price,
		Date:      in.Date.UTC(),
		Source:    strings.TrimSpace(in.Source),
		CreatedAt: s.now(),
	}
	if p.Price.Unit == "" {
		p.Price.Unit = "per quintal"
	}
	if p.Source == "" {
		p.Source = "manual"
	}
	id, err := s.Prices.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	p.ID = id
	utils.LogEventCtx(ctx, "market", "create_price", fmt.Sprintf("price_id=%d crop=%s", id, p.Crop))
	return p, nil
}

// Report renders the prices matching params as a PDF price sheet.
func (s MarketService) Report(ctx context.Context, params map[string]string) ([]byte, string, error) {
	pred, err := MarketPriceFilters.Strict(params)
	if err != nil {
		return nil, "", err
	}
	items, total, err := s.Prices.List(ctx, pred, query.Page{Number: 1, Limit: ReportRowLimit})
	if err != nil {
		return nil, "", err
	}
	utils.LogEventCtx(ctx, "market", "report", fmt.Sprintf("rows=%d total=%d", len(items), total))
	return buildPriceReportPDF(items, total, params, s.now())
}
