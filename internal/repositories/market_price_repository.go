package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"krishilink/internal/domain/models"
	"krishilink/internal/query"
)

// MarketPriceRepository wraps DB access for market_prices (alias mp).
type MarketPriceRepository struct {
	DB *sql.DB
}

func (r MarketPriceRepository) db() *sql.DB { return pick(r.DB) }

const marketPriceSelect = `
	SELECT mp.id, mp.crop, mp.variety, mp.market, mp.state, mp.district,
		mp.min_price, mp.max_price, mp.modal_price, mp.unit, mp.price_date, mp.source, mp.created_at
	FROM market_prices mp`

func scanMarketPrice(row interface{ Scan(...any) error }) (*models.MarketPrice, error) {
	var p models.MarketPrice
	err := row.Scan(&p.ID, &p.Crop, &p.Variety, &p.Market, &p.State, &p.District,
		&p.Price.Min, &p.Price.Max, &p.Price.Modal, &p.Price.Unit, &p.Date, &p.Source, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns prices matching p, most recent date first.
func (r MarketPriceRepository) List(ctx context.Context, p query.Predicate, page query.Page) ([]models.MarketPrice, int, error) {
	conn := r.db()
	if conn == nil {
		return nil, 0, errNoDB()
	}
	total, err := count(ctx, conn, "market_prices mp", p)
	if err != nil {
		return nil, 0, err
	}
	where, args := p.Where()
	out, err := r.query(ctx, conn, marketPriceSelect+`
		WHERE `+where+`
		ORDER BY mp.price_date DESC, mp.crop ASC, mp.id DESC
		LIMIT ? OFFSET ?`, pageArgs(args, page)...)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Trend returns prices matching p in ascending date order.
func (r MarketPriceRepository) Trend(ctx context.Context, p query.Predicate) ([]models.MarketPrice, error) {
	conn := r.db()
	if conn == nil {
		return nil, errNoDB()
	}
	where, args := p.Where()
	return r.query(ctx, conn, marketPriceSelect+`
		WHERE `+where+`
		ORDER BY mp.price_date ASC, mp.id ASC`, args...)
}

func (r MarketPriceRepository) query(ctx context.Context, conn *sql.DB, q string, args ...any) ([]models.MarketPrice, error) {
	rows, err := conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query market prices: %w", err)
	}
	defer rows.Close()

	out := []models.MarketPrice{}
	for rows.Next() {
		p, err := scanMarketPrice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Filters returns the distinct crops and states present in the table.
func (r MarketPriceRepository) Filters(ctx context.Context) (models.PriceFilters, error) {
	conn := r.db()
	if conn == nil {
		return models.PriceFilters{}, errNoDB()
	}
	crops, err := distinct(ctx, conn, "crop")
	if err != nil {
		return models.PriceFilters{}, err
	}
	states, err := distinct(ctx, conn, "state")
	if err != nil {
		return models.PriceFilters{}, err
	}
	return models.PriceFilters{Crops: crops, States: states}, nil
}

func distinct(ctx context.Context, conn *sql.DB, column string) ([]string, error) {
	rows, err := conn.QueryContext(ctx, `SELECT DISTINCT `+column+` FROM market_prices ORDER BY `+column)
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", column, err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r MarketPriceRepository) Create(ctx context.Context, p *models.MarketPrice) (int64, error) {
	conn := r.db()
	if conn == nil {
		return 0, errNoDB()
	}
	res, err := conn.ExecContext(ctx, `
		INSERT INTO market_prices (crop, variety, market, state, district,
			min_price, max_price, modal_price, unit, price_date, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Crop, p.Variety, p.Market, p.State, p.District,
		p.Price.Min, p.Price.Max, p.Price.Modal, p.Price.Unit, p.Date, p.Source, p.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert market price: %w", err)
	}
	return res.LastInsertId()
}
