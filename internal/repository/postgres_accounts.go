package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"surething-api/internal/domain"
)

type PostgresAccountsRepository struct {
	db *sql.DB
}

func NewPostgresAccountsRepository(db *sql.DB) *PostgresAccountsRepository {
	return &PostgresAccountsRepository{db: db}
}

const accountColumns = `id, email, name, phone, role, status, affiliation_id`

var accountUpdateColumns = []string{
	"email",
	"name",
	"phone",
	"role",
	"status",
	"affiliation_id",
}

func scanAccount(scan func(dest ...any) error) (*domain.Account, error) {
	var a domain.Account
	var name, phone sql.NullString
	var role, status string
	var affiliationID sql.NullInt64

	if err := scan(&a.ID, &a.Email, &name, &phone, &role, &status, &affiliationID); err != nil {
		return nil, err
	}

	if name.Valid {
		v := name.String
		a.Name = &v
	}
	if phone.Valid {
		v := phone.String
		a.Phone = &v
	}
	if affiliationID.Valid {
		v := affiliationID.Int64
		a.AffiliationID = &v
	}
	a.Role = domain.AccountRole(role)
	a.Status = domain.AccountStatus(status)
	return &a, nil
}

func (p *PostgresAccountsRepository) Create(ctx context.Context, account *domain.Account) (int64, error) {
	q := `
		INSERT INTO accounts (email, name, phone, role, status, affiliation_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	var id int64
	err := p.db.QueryRowContext(ctx, q,
		account.Email,
		nullableString(account.Name),
		nullableString(account.Phone),
		string(account.Role),
		string(account.Status),
		nullableInt64(account.AffiliationID),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("failed to create account: %w", err)
	}
	return id, nil
}

func (p *PostgresAccountsRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	q := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	account, err := scanAccount(func(dest ...any) error {
		return p.db.QueryRowContext(ctx, q, id).Scan(dest...)
	})
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (p *PostgresAccountsRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	q := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	account, err := scanAccount(func(dest ...any) error {
		return p.db.QueryRowContext(ctx, q, email).Scan(dest...)
	})
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (p *PostgresAccountsRepository) List(ctx context.Context) ([]*domain.Account, error) {
	q := `SELECT ` + accountColumns + ` FROM accounts ORDER BY id ASC`
	return p.queryAccounts(ctx, q)
}

func (p *PostgresAccountsRepository) SearchByName(ctx context.Context, name string, partial bool) ([]*domain.Account, error) {
	if partial {
		q := `SELECT ` + accountColumns + ` FROM accounts WHERE name ILIKE $1 ORDER BY id ASC`
		return p.queryAccounts(ctx, q, "%"+name+"%")
	}
	q := `SELECT ` + accountColumns + ` FROM accounts WHERE LOWER(name) = LOWER($1) ORDER BY id ASC`
	return p.queryAccounts(ctx, q, name)
}

func (p *PostgresAccountsRepository) queryAccounts(ctx context.Context, q string, args ...any) ([]*domain.Account, error) {
	rows, err := p.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Account{}
	for rows.Next() {
		account, err := scanAccount(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, account)
	}
	return out, rows.Err()
}

func (p *PostgresAccountsRepository) Update(ctx context.Context, id int64, fields map[string]any) error {
	set := []string{}
	args := []any{}
	argN := 1

	for _, col := range accountUpdateColumns {
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
	q := fmt.Sprintf("UPDATE accounts SET %s WHERE id = $%d", strings.Join(set, ", "), argN)

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

func (p *PostgresAccountsRepository) Delete(ctx context.Context, id int64) error {
	res, err := p.db.ExecContext(ctx, "DELETE FROM accounts WHERE id = $1", id)
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
