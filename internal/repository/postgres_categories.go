package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"surething-api/internal/domain"
)

type PostgresCategoriesRepository struct {
	db *sql.DB
}

func NewPostgresCategoriesRepository(db *sql.DB) *PostgresCategoriesRepository {
	return &PostgresCategoriesRepository{db: db}
}

var categoryUpdateColumns = []string{"name", "description"}

func scanCategory(scan func(dest ...any) error) (*domain.Category, error) {
	var c domain.Category
	var description sql.NullString
	if err := scan(&c.ID, &c.Name, &description); err != nil {
		return nil, err
	}
	if description.Valid {
		v := description.String
		c.Description = &v
	}
	return &c, nil
}

func (p *PostgresCategoriesRepository) Create(ctx context.Context, category *domain.Category) (int64, error) {
	var id int64
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO categories (name, description) VALUES ($1, $2) RETURNING id`,
		category.Name,
		nullableString(category.Description),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("failed to create category: %w", err)
	}
	return id, nil
}

func (p *PostgresCategoriesRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	category, err := scanCategory(func(dest ...any) error {
		return p.db.QueryRowContext(ctx,
			`SELECT id, name, description FROM categories WHERE id = $1`, id).Scan(dest...)
	})
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (p *PostgresCategoriesRepository) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	category, err := scanCategory(func(dest ...any) error {
		return p.db.QueryRowContext(ctx,
			`SELECT id, name, description FROM categories WHERE name = $1`, name).Scan(dest...)
	})
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (p *PostgresCategoriesRepository) List(ctx context.Context) ([]*domain.Category, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, name, description FROM categories ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Category{}
	for rows.Next() {
		category, err := scanCategory(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, category)
	}
	return out, rows.Err()
}

func (p *PostgresCategoriesRepository) Update(ctx context.Context, id int64, fields map[string]any) error {
	set := []string{}
	args := []any{}
	argN := 1

	for _, col := range categoryUpdateColumns {
		val, ok := fields[col]
		if !ok {
			continue
		}
		set = append(set, fmt.Sprintf("%s = $%d", col, argN))
		args = append(args, val)
		argN++
	}

	if len(set) == 0 {
		return nil
	}

	args = append(args, id)
	q := fmt.Sprintf("UPDATE categories SET %s WHERE id = $%d", strings.Join(set, ", "), argN)

	res, err := p.db.ExecContext(ctx, q, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
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

func (p *PostgresCategoriesRepository) Delete(ctx context.Context, id int64) error {
	res, err := p.db.ExecContext(ctx, "DELETE FROM categories WHERE id = $1", id)
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
