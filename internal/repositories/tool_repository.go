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

// ToolRepository wraps DB access for tools (alias t).
type ToolRepository struct {
	DB *sql.DB
}

func (r ToolRepository) db() *sql.DB { return pick(r.DB) }

const toolSelect = `
	SELECT
		t.id, t.owner_id, t.tool_name, t.category, t.tool_type, t.price, t.price_unit,
		COALESCE(t.description,''), COALESCE(t.images,'[]'), t.tool_condition, t.availability,
		t.state, t.district, t.village, t.brand, t.model, t.year, t.power,
		t.created_at, t.updated_at,
		u.id, COALESCE(u.name,''), COALESCE(u.phone,''), COALESCE(u.state,''), COALESCE(u.district,'')
	FROM tools t
	LEFT JOIN users u ON u.id = t.owner_id`

func scanTool(row interface{ Scan(...any) error }) (*models.Tool, error) {
	var (
		t                        models.Tool
		images                   string
		uid                      sql.NullInt64
		uname, uphone, ust, udis string
	)
	err := row.Scan(
		&t.ID, &t.OwnerID, &t.ToolName, &t.Category, &t.ToolType, &t.Price, &t.PriceUnit,
		&t.Description, &images, &t.Condition, &t.Availability,
		&t.Location.State, &t.Location.District, &t.Location.Village,
		&t.Specifications.Brand, &t.Specifications.Model, &t.Specifications.Year, &t.Specifications.Power,
		&t.CreatedAt, &t.UpdatedAt,
		&uid, &uname, &uphone, &ust, &udis,
	)
	if err != nil {
		return nil, err
	}
	t.Images = db.DecodeList(images)
	t.Owner = owner(uid, uname, uphone, ust, udis)
	return &t, nil
}

func (r ToolRepository) List(ctx context.Context, p query.Predicate, page query.Page) ([]models.Tool, int, error) {
	conn := r.db()
	if conn == nil {
		return nil, 0, errNoDB()
	}
	total, err := count(ctx, conn, "tools t", p)
	if err != nil {
		return nil, 0, err
	}

	where, args := p.Where()
	rows, err := conn.QueryContext(ctx, toolSelect+`
		WHERE `+where+`
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT ? OFFSET ?`, pageArgs(args, page)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list tools: %w", err)
	}
	defer rows.Close()

	out := []models.Tool{}
	for rows.Next() {
		t, err := scanTool(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *t)
	}
	return out, total, rows.Err()
}

func (r ToolRepository) Get(ctx context.Context, id int64) (*models.Tool, error) {
	conn := r.db()
	if conn == nil {
		return nil, errNoDB()
	}
	t, err := scanTool(conn.QueryRowContext(ctx, toolSelect+` WHERE t.id = ? LIMIT 1`, id))
	if err != nil {
		return nil, notFound("tool", err)
	}
	return t, nil
}

func (r ToolRepository) Create(ctx context.Context, t *models.Tool) (int64, error) {
	conn := r.db()
	if conn == nil {
		return 0, errNoDB()
	}
	res, err := conn.ExecContext(ctx, `
		INSERT INTO tools (owner_id, tool_name, category, tool_type, price, price_unit, description,
			images, tool_condition, availability, state, district, village, brand, model, year, power,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.OwnerID, t.ToolName, t.Category, t.ToolType, t.Price, t.PriceUnit, db.NullIfEmpty(t.Description),
		db.EncodeList(t.Images), t.Condition, t.Availability,
		t.Location.State, t.Location.District, t.Location.Village,
		t.Specifications.Brand, t.Specifications.Model, t.Specifications.Year, t.Specifications.Power,
		t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert tool: %w", err)
	}
	return res.LastInsertId()
}

func (r ToolRepository) Update(ctx context.Context, t *models.Tool) error {
	conn := r.db()
	if conn == nil {
		return errNoDB()
	}
	_, err := conn.ExecContext(ctx, `
		UPDATE tools
		SET tool_name = ?, category = ?, tool_type = ?, price = ?, price_unit = ?, description = ?,
			images = ?, tool_condition = ?, availability = ?, state = ?, district = ?, village = ?,
			brand = ?, model = ?, year = ?, power = ?, updated_at = ?
		WHERE id = ?`,
		t.ToolName, t.Category, t.ToolType, t.Price, t.PriceUnit, db.NullIfEmpty(t.Description),
		db.EncodeList(t.Images), t.Condition, t.Availability,
		t.Location.State, t.Location.District, t.Location.Village,
		t.Specifications.Brand, t.Specifications.Model, t.Specifications.Year, t.Specifications.Power,
		time.Now().UTC(), t.ID,
	)
	if err != nil {
		return fmt.Errorf("update tool: %w", err)
	}
	return nil
}

func (r ToolRepository) Delete(ctx context.Context, id int64) error {
	conn := r.db()
	if conn == nil {
		return errNoDB()
	}
	res, err := conn.ExecContext(ctx, `DELETE FROM tools WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete tool: %w", err)
	}
	return mustAffect(res, "tool")
}
