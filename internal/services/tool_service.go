package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"krishilink/internal/domain"
	"krishilink/internal/domain/models"
	"krishilink/internal/query"
	"krishilink/internal/utils"
)

type ToolService struct {
	Tools ToolStore
	Now   func() time.Time
}

func (s ToolService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowUTC()
}

// List returns available tools matching the query-string filters.
func (s ToolService) List(ctx context.Context, params map[string]string) ([]models.Tool, query.Pagination, error) {
	pred, err := ToolFilters.Strict(params)
	if err != nil {
		return nil, query.Pagination{}, err
	}
	pred = pred.With(query.OpEq, "t.availability", true)
	page := query.ParsePage(params, ToolPageSize)

	items, total, err := s.Tools.List(ctx, pred, page)
	if err != nil {
		return nil, query.Pagination{}, err
	}
	return items, query.NewPagination(page, total), nil
}

func (s ToolService) Mine(ctx context.Context, p domain.Principal, params map[string]string) ([]models.Tool, query.Pagination, error) {
	page := query.ParsePage(params, ToolPageSize)
	items, total, err := s.Tools.List(ctx, query.Predicate{}.With(query.OpEq, "t.owner_id", p.UserID), page)
	if err != nil {
		return nil, query.Pagination{}, err
	}
	return items, query.NewPagination(page, total), nil
}

func (s ToolService) Get(ctx context.Context, id int64) (*models.Tool, error) {
	return s.Tools.Get(ctx, id)
}

func (s ToolService) Create(ctx context.Context, p domain.Principal, in models.ToolInput) (*models.Tool, error) {
	now := s.now()
	t := &models.Tool{OwnerID: p.UserID, CreatedAt: now, UpdatedAt: now}
	applyToolInput(t, in)

	id, err := s.Tools.Create(ctx, t)
	if err != nil {
		return nil, err
	}
	utils.LogEventCtx(ctx, "tools", "create", fmt.Sprintf("tool_id=%d owner_id=%d", id, p.UserID))
	return s.Tools.Get(ctx, id)
}

func (s ToolService) Update(ctx context.Context, p domain.Principal, id int64, in models.ToolInput) (*models.Tool, error) {
	t, err := s.Tools.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(t.OwnerID, p, "update", "tool"); err != nil {
		return nil, err
	}
	applyToolInput(t, in)
	if err := s.Tools.Update(ctx, t); err != nil {
		return nil, err
	}
	utils.LogEventCtx(ctx, "tools", "update", fmt.Sprintf("tool_id=%d", id))
	return s.Tools.Get(ctx, id)
}

func (s ToolService) Delete(ctx context.Context, p domain.Principal, id int64) error {
	t, err := s.Tools.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := Authorize(t.OwnerID, p, "delete", "tool"); err != nil {
		return err
	}
	if err := s.Tools.Delete(ctx, id); err != nil {
		return err
	}
	utils.LogEventCtx(ctx, "tools", "delete", fmt.Sprintf("tool_id=%d", id))
	return nil
}

func applyToolInput(t *models.Tool, in models.ToolInput) {
	t.ToolName = strings.TrimSpace(in.ToolName)
	t.Category = in.Category
	t.ToolType = in.ToolType
	if in.Price != nil {
		t.Price = *in.Price
	}
	t.PriceUnit = in.PriceUnit
	if t.PriceUnit == "" {
		t.PriceUnit = "per_day"
	}
	t.Description = strings.TrimSpace(in.Description)
	t.Images = utils.CleanList(in.Images)
	t.Condition = in.Condition
	t.Availability = true
	if in.Availability != nil {
		t.Availability = *in.Availability
	}
	t.Location = trimLocation(in.Location)
	t.Specifications = models.ToolSpecs{
		Brand: strings.TrimSpace(in.Specifications.Brand),
		Model: strings.TrimSpace(in.Specifications.Model),
		Year:  in.Specifications.Year,
		Power: strings.TrimSpace(in.Specifications.Power),
	}
}
