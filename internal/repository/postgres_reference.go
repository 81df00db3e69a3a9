package repository

import (
	"context"
	"database/sql"

	"surething-api/internal/domain"
)

// ReferenceRepository read-only access to districts and regions. The request
// path never writes these tables.
type ReferenceRepository interface {
	ListDistricts(ctx context.Context) ([]*domain.District, error)
	ListRegions(ctx context.Context) ([]*domain.Region, error)
	GetDistrict(ctx context.Context, id int64) (*domain.District, error)
	GetRegion(ctx context.Context, id int64) (*domain.Region, error)
}

type PostgresReferenceRepository struct {
	db *sql.DB
}

func NewPostgresReferenceRepository(db *sql.DB) *PostgresReferenceRepository {
	return &PostgresReferenceRepository{db: db}
}

func (p *PostgresReferenceRepository) ListDistricts(ctx context.Context) ([]*domain.District, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, region_id, name FROM districts ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.District{}
	for rows.Next() {
		var d domain.District
		if err := rows.Scan(&d.ID, &d.RegionID, &d.Name); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

func (p *PostgresReferenceRepository) ListRegions(ctx context.Context) ([]*domain.Region, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, name FROM regions ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Region{}
	for rows.Next() {
		var r domain.Region
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, err
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

func (p *PostgresReferenceRepository) GetDistrict(ctx context.Context, id int64) (*domain.District, error) {
	var d domain.District
	err := p.db.QueryRowContext(ctx,
		`SELECT id, region_id, name FROM districts WHERE id = $1`, id).
		Scan(&d.ID, &d.RegionID, &d.Name)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (p *PostgresReferenceRepository) GetRegion(ctx context.Context, id int64) (*domain.Region, error) {
	var r domain.Region
	err := p.db.QueryRowContext(ctx,
		`SELECT id, name FROM regions WHERE id = $1`, id).
		Scan(&r.ID, &r.Name)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}
