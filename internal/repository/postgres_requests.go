package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"surething-api/internal/domain"
)

type PostgresRequestsRepository struct {
	db *sql.DB
}

func NewPostgresRequestsRepository(db *sql.DB) *PostgresRequestsRepository {
	return &PostgresRequestsRepository{db: db}
}

const requestColumns = `
	id,
	requester_id,
	responder_id,
	category_id,
	district_id,
	title,
	description,
	status,
	start_at,
	end_at,
	created_at,
	volunteers`

// requestUpdateColumns is the whitelist and deterministic write order for
// partial updates. created_at is deliberately absent: creation time is
// assigned once and never rewritten.
var requestUpdateColumns = []string{
	"requester_id",
	"responder_id",
	"category_id",
	"district_id",
	"title",
	"description",
	"status",
	"start_at",
	"end_at",
	"volunteers",
}

func scanRequest(scan func(dest ...any) error) (*domain.Request, error) {
	var r domain.Request
	var responderID sql.NullInt64
	var description sql.NullString
	var startAt, endAt sql.NullTime
	var status string
	var volunteers string

	if err := scan(
		&r.ID,
		&r.RequesterID,
		&responderID,
		&r.CategoryID,
		&r.DistrictID,
		&r.Title,
		&description,
		&status,
		&startAt,
		&endAt,
		&r.CreatedAt,
		&volunteers,
	); err != nil {
		return nil, err
	}

	if responderID.Valid {
		v := responderID.Int64
		r.ResponderID = &v
	}
	if description.Valid {
		v := description.String
		r.Description = &v
	}
	if startAt.Valid {
		v := startAt.Time
		r.StartAt = &v
	}
	if endAt.Valid {
		v := endAt.Time
		r.EndAt = &v
	}
	r.Status = domain.RequestStatus(status)
	r.Volunteers = decodeVolunteers(volunteers)
	return &r, nil
}

// Create inserts a fully validated request and returns the assigned id.
// Volunteers are serialized to JSON-array text; empty is '[]', never NULL.
func (p *PostgresRequestsRepository) Create(ctx context.Context, req *domain.Request) (int64, error) {
	q := `
		INSERT INTO requests
			(requester_id, responder_id, category_id, district_id, title,
			 description, status, start_at, end_at, created_at, volunteers)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	var id int64
	err := p.db.QueryRowContext(ctx, q,
		req.RequesterID,
		nullableInt64(req.ResponderID),
		req.CategoryID,
		req.DistrictID,
		req.Title,
		nullableString(req.Description),
		string(req.Status),
		nullableTime(req.StartAt),
		nullableTime(req.EndAt),
		req.CreatedAt,
		encodeVolunteers(req.Volunteers),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	return id, nil
}

func (p *PostgresRequestsRepository) GetByID(ctx context.Context, id int64) (*domain.Request, error) {
	q := `SELECT` + requestColumns + ` FROM requests WHERE id = $1`
	req, err := scanRequest(func(dest ...any) error {
		return p.db.QueryRowContext(ctx, q, id).Scan(dest...)
	})
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (p *PostgresRequestsRepository) List(ctx context.Context, filters RequestFilters) ([]*domain.Request, error) {
	where := []string{"1=1"}
	args := []any{}
	argN := 1

	addEq := func(col string, val any) {
		where = append(where, fmt.Sprintf("%s = $%d", col, argN))
		args = append(args, val)
		argN++
	}

	if filters.Status != nil {
		addEq("status", string(*filters.Status))
	}
	if filters.RequesterID != nil {
		addEq("requester_id", *filters.RequesterID)
	}
	if filters.ResponderID != nil {
		addEq("responder_id", *filters.ResponderID)
	}
	if filters.CategoryID != nil {
		addEq("category_id", *filters.CategoryID)
	}
	if filters.DistrictID != nil {
		addEq("district_id", *filters.DistrictID)
	}

	q := `SELECT` + requestColumns + `
		FROM requests
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_at DESC`

	rows, err := p.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Request{}
	for rows.Next() {
		req, err := scanRequest(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

// Search resolves category/district/region names through joins. The region
// filter applies to the district's region, not a request column.
func (p *PostgresRequestsRepository) Search(ctx context.Context, filters SearchFilters) ([]*RequestSearchRow, error) {
	where := []string{"1=1"}
	args := []any{}
	argN := 1

	add := func(cond string, val any) {
		where = append(where, fmt.Sprintf(cond, argN))
		args = append(args, val)
		argN++
	}

	if filters.CategoryID != nil {
		add("r.category_id = $%d", *filters.CategoryID)
	}
	if filters.RegionID != nil {
		add("d.region_id = $%d", *filters.RegionID)
	}
	if filters.DistrictID != nil {
		add("r.district_id = $%d", *filters.DistrictID)
	}
	if filters.CreatedAt != nil {
		add("r.created_at >= $%d", *filters.CreatedAt)
	}

	q := `
		SELECT
			r.id,
			r.requester_id,
			r.responder_id,
			r.category_id,
			r.district_id,
			r.title,
			r.description,
			r.status,
			r.start_at,
			r.end_at,
			r.created_at,
			r.volunteers,
			c.name AS category_name,
			d.name AS district_name,
			rg.name AS region_name
		FROM requests r
		JOIN categories c ON r.category_id = c.id
		JOIN districts d ON r.district_id = d.id
		JOIN regions rg ON d.region_id = rg.id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY r.created_at DESC, r.id ASC`

	rows, err := p.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*RequestSearchRow{}
	for rows.Next() {
		var row RequestSearchRow
		req, err := scanRequest(func(dest ...any) error {
			dest = append(dest, &row.CategoryName, &row.DistrictName, &row.RegionName)
			return rows.Scan(dest...)
		})
		if err != nil {
			return nil, err
		}
		row.Request = *req
		out = append(out, &row)
	}
	return out, rows.Err()
}

// Update writes only the supplied columns. Unknown keys are ignored; an empty
// field set is a no-op. A missing row is ErrNotFound.
func (p *PostgresRequestsRepository) Update(ctx context.Context, id int64, fields map[string]any) error {
	set := []string{}
	args := []any{}
	argN := 1

	for _, col := range requestUpdateColumns {
		val, ok := fields[col]
		if !ok {
			continue
		}
		if col == "volunteers" {
			if vols, ok := val.([]int64); ok {
				val = encodeVolunteers(vols)
			} else {
				val = "[]"
			}
		}
		set = append(set, fmt.Sprintf("%s = $%d", col, argN))
		args = append(args, val)
		argN++
	}

	if len(set) == 0 {
		return nil
	}

	args = append(args, id)
	q := fmt.Sprintf("UPDATE requests SET %s WHERE id = $%d", strings.Join(set, ", "), argN)

	res, err := p.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PostgresRequestsRepository) Delete(ctx context.Context, id int64) error {
	res, err := p.db.ExecContext(ctx, "DELETE FROM requests WHERE id = $1", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return *v
}
