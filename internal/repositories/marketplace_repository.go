package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"krishilink/internal/db"
	"krishilink/internal/domain/models"
	"krishilink/internal/query"
)

// MarketplaceRepository stores the flat marketplace records: mandi prices
// (alias m), farmer listings (alias f) and buyer requirements (alias b).
type MarketplaceRepository struct {
	DB *sql.DB
}

func (r MarketplaceRepository) db() *sql.DB { return pick(r.DB) }

func (r MarketplaceRepository) ListMandiPrices(ctx context.Context, p query.Predicate, page query.Page) ([]models.MandiPrice, int, error) {
	conn := r.db()
	if conn == nil {
		return nil, 0, errNoDB()
	}
	total, err := count(ctx, conn, "mandi_prices m", p)
	if err != nil {
		return nil, 0, err
	}
	where, args := p.Where()
	rows, err := conn.QueryContext(ctx, `
		SELECT m.id, m.mandi_name, m.location, m.crop, m.grade, m.unit,
			m.min_price, m.max_price, m.modal_price, m.price_date, m.created_at
		FROM mandi_prices m
		WHERE `+where+`
		ORDER BY m.price_date DESC, m.id DESC
		LIMIT ? OFFSET ?`, pageArgs(args, page)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list mandi prices: %w", err)
	}
	defer rows.Close()

	out := []models.MandiPrice{}
	for rows.Next() {
		var m models.MandiPrice
		if err := rows.Scan(&m.ID, &m.MandiName, &m.Location, &m.Crop, &m.Grade, &m.Unit,
			&m.MinPrice, &m.MaxPrice, &m.ModalPrice, &m.Date, &m.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, m)
	}
	return out, total, rows.Err()
}

func (r MarketplaceRepository) CreateMandiPrice(ctx context.Context, m *models.MandiPrice) (int64, error) {
	conn := r.db()
	if conn == nil {
		return 0, errNoDB()
	}
	res, err := conn.ExecContext(ctx, `
		INSERT INTO mandi_prices (mandi_name, location, crop, grade, unit,
			min_price, max_price, modal_price, price_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.MandiName, m.Location, m.Crop, m.Grade, m.Unit,
		m.MinPrice, m.MaxPrice, m.ModalPrice, m.Date, m.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert mandi price: %w", err)
	}
	return res.LastInsertId()
}

func (r MarketplaceRepository) ListFarmerListings(ctx context.Context, p query.Predicate, page query.Page) ([]models.FarmerListing, int, error) {
	conn := r.db()
	if conn == nil {
		return nil, 0, errNoDB()
	}
	total, err := count(ctx, conn, "farmer_listings f", p)
	if err != nil {
		return nil, 0, err
	}
	where, args := p.Where()
	rows, err := conn.QueryContext(ctx, `
		SELECT f.id, f.seller_name, f.crop, f.grade, f.quantity, f.unit, f.price_per_unit,
			COALESCE(f.description,''), f.status, f.created_at
		FROM farmer_listings f
		WHERE `+where+`
		ORDER BY f.created_at DESC, f.id DESC
		LIMIT ? OFFSET ?`, pageArgs(args, page)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list farmer listings: %w", err)
	}
	defer rows.Close()

	out := []models.FarmerListing{}
	for rows.Next() {
		var f models.FarmerListing
		if err := rows.Scan(&f.ID, &f.SellerName, &f.Crop, &f.Grade, &f.Quantity, &f.Unit, &f.PricePerUnit,
			&f.Description, &f.Status, &f.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, f)
	}
	return out, total, rows.Err()
}

func (r MarketplaceRepository) CreateFarmerListing(ctx context.Context, f *models.FarmerListing) (int64, error) {
	conn := r.db()
	if conn == nil {
		return 0, errNoDB()
	}
	res, err := conn.ExecContext(ctx, `
		INSERT INTO farmer_listings (seller_name, crop, grade, quantity, unit, price_per_unit,
			description, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.SellerName, f.Crop, f.Grade, f.Quantity, f.Unit, f.PricePerUnit,
		db.NullIfEmpty(f.Description), f.Status, f.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert farmer listing: %w", err)
	}
	return res.LastInsertId()
}

func (r MarketplaceRepository) ListBuyerRequirements(ctx context.Context, p query.Predicate, page query.Page) ([]models.BuyerRequirement, int, error) {
	conn := r.db()
	if conn == nil {
		return nil, 0, errNoDB()
	}
	total, err := count(ctx, conn, "buyer_requirements b", p)
	if err != nil {
		return nil, 0, err
	}
	where, args := p.Where()
	rows, err := conn.QueryContext(ctx, `
		SELECT b.id, b.buyer_name, b.crop, b.grade, b.min_qty, b.unit, b.max_price_per_unit,
			COALESCE(b.notes,''), b.status, b.created_at
		FROM buyer_requirements b
		WHERE `+where+`
		ORDER BY b.created_at DESC, b.id DESC
		LIMIT ? OFFSET ?`, pageArgs(args, page)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list buyer requirements: %w", err)
	}
	defer rows.Close()

	out := []models.BuyerRequirement{}
	for rows.Next() {
		var b models.BuyerRequirement
		if err := rows.Scan(&b.ID, &b.BuyerName, &b.Crop, &b.Grade, &b.MinQty, &b.Unit, &b.MaxPricePerUnit,
			&b.Notes, &b.Status, &b.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

func (r MarketplaceRepository) CreateBuyerRequirement(ctx context.Context, b *models.BuyerRequirement) (int64, error) {
	conn := r.db()
	if conn == nil {
		return 0, errNoDB()
	}
	res, err := conn.ExecContext(ctx, `
		INSERT INTO buyer_requirements (buyer_name, crop, grade, min_qty, unit, max_price_per_unit,
			notes, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.BuyerName, b.Crop, b.Grade, b.MinQty, b.Unit, b.MaxPricePerUnit,
		db.NullIfEmpty(b.Notes), b.Status, b.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert buyer requirement: %w", err)
	}
	return res.LastInsertId()
}
