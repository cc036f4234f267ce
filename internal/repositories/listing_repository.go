package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"krishilink/internal/db"
	"krishilink/internal/domain/models"
	"krishilink/internal/query"
)

// ListingRepository wraps DB access for listings. Filter columns use the
// alias l for listings.
type ListingRepository struct {
	DB *sql.DB
}

func (r ListingRepository) db() *sql.DB { return pick(r.DB) }

const listingSelect = `
	SELECT
		l.id, l.seller_id, l.crop_type, l.variety, l.category, l.quantity, l.unit, l.quality,
		l.expected_price, l.negotiable, COALESCE(l.description,''), l.harvest_date,
		l.state, l.district, l.village, COALESCE(l.images,'[]'), l.status,
		l.views, l.contact_count, l.expiry_date, l.created_at, l.updated_at,
		u.id, COALESCE(u.name,''), COALESCE(u.phone,''), COALESCE(u.state,''), COALESCE(u.district,'')
	FROM listings l
	LEFT JOIN users u ON u.id = l.seller_id`

func scanListing(row interface{ Scan(...any) error }) (*models.Listing, error) {
	var (
		l                        models.Listing
		images                   string
		harvest, expiry          sql.NullTime
		uid                      sql.NullInt64
		uname, uphone, ust, udis string
	)
	err := row.Scan(
		&l.ID, &l.SellerID, &l.CropType, &l.Variety, &l.Category, &l.Quantity, &l.Unit, &l.Quality,
		&l.ExpectedPrice, &l.Negotiable, &l.Description, &harvest,
		&l.Location.State, &l.Location.District, &l.Location.Village, &images, &l.Status,
		&l.Views, &l.ContactCount, &expiry, &l.CreatedAt, &l.UpdatedAt,
		&uid, &uname, &uphone, &ust, &udis,
	)
	if err != nil {
		return nil, err
	}
	l.Images = db.DecodeList(images)
	l.HarvestDate = db.TimePtr(harvest)
	l.ExpiryDate = db.TimePtr(expiry)
	l.Seller = owner(uid, uname, uphone, ust, udis)
	return &l, nil
}

// List returns one page of listings matching p, newest first, and the total
// number of matches.
func (r ListingRepository) List(ctx context.Context, p query.Predicate, page query.Page) ([]models.Listing, int, error) {
	conn := r.db()
	if conn == nil {
		return nil, 0, errNoDB()
	}
	total, err := count(ctx, conn, "listings l", p)
	if err != nil {
		return nil, 0, err
	}

	where, args := p.Where()
	rows, err := conn.QueryContext(ctx, listingSelect+`
		WHERE `+where+`
		ORDER BY l.created_at DESC, l.id DESC
		LIMIT ? OFFSET ?`, pageArgs(args, page)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()

	out := []models.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *l)
	}
	return out, total, rows.Err()
}

func (r ListingRepository) Get(ctx context.Context, id int64) (*models.Listing, error) {
	conn := r.db()
	if conn == nil {
		return nil, errNoDB()
	}
	l, err := scanListing(conn.QueryRowContext(ctx, listingSelect+` WHERE l.id = ? LIMIT 1`, id))
	if err != nil {
		return nil, notFound("listing", err)
	}
	return l, nil
}

func (r ListingRepository) Create(ctx context.Context, l *models.Listing) (int64, error) {
	conn := r.db()
	if conn == nil {
		return 0, errNoDB()
	}
	res, err := conn.ExecContext(ctx, `
		INSERT INTO listings (seller_id, crop_type, variety, category, quantity, unit, quality,
			expected_price, negotiable, description, harvest_date, state, district, village,
			images, status, views, contact_count, expiry_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 0, ?, ?, ?)`,
		l.SellerID, l.CropType, l.Variety, l.Category, l.Quantity, l.Unit, l.Quality,
		l.ExpectedPrice, l.Negotiable, db.NullIfEmpty(l.Description), db.NullTime(l.HarvestDate),
		l.Location.State, l.Location.District, l.Location.Village,
		db.EncodeList(l.Images), l.Status, db.NullTime(l.ExpiryDate), l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert listing: %w", err)
	}
	return res.LastInsertId()
}

// Update replaces the mutable fields. Counters are never written here.
func (r ListingRepository) Update(ctx context.Context, l *models.Listing) error {
	conn := r.db()
	if conn == nil {
		return errNoDB()
	}
	_, err := conn.ExecContext(ctx, `
		UPDATE listings
		SET crop_type = ?, variety = ?, category = ?, quantity = ?, unit = ?, quality = ?,
			expected_price = ?, negotiable = ?, description = ?, harvest_date = ?,
			state = ?, district = ?, village = ?, images = ?, status = ?, updated_at = ?
		WHERE id = ?`,
		l.CropType, l.Variety, l.Category, l.Quantity, l.Unit, l.Quality,
		l.ExpectedPrice, l.Negotiable, db.NullIfEmpty(l.Description), db.NullTime(l.HarvestDate),
		l.Location.State, l.Location.District, l.Location.Village, db.EncodeList(l.Images), l.Status,
		time.Now().UTC(), l.ID,
	)
	if err != nil {
		return fmt.Errorf("update listing: %w", err)
	}
	return nil
}

func (r ListingRepository) Delete(ctx context.Context, id int64) error {
	conn := r.db()
	if conn == nil {
		return errNoDB()
	}
	res, err := conn.ExecContext(ctx, `DELETE FROM listings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	return mustAffect(res, "listing")
}

// IncrementViews bumps the counter in a single statement so concurrent
// readers never lose an increment.
func (r ListingRepository) IncrementViews(ctx context.Context, id int64) error {
	conn := r.db()
	if conn == nil {
		return errNoDB()
	}
	res, err := conn.ExecContext(ctx, `UPDATE listings SET views = views + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return mustAffect(res, "listing")
}

func (r ListingRepository) IncrementContacts(ctx context.Context, id int64) error {
	conn := r.db()
	if conn == nil {
		return errNoDB()
	}
	res, err := conn.ExecContext(ctx, `UPDATE listings SET contact_count = contact_count + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("increment contacts: %w", err)
	}
	return mustAffect(res, "listing")
}
