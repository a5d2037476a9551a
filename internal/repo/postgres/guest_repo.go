package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ioramishvili/GuestService/internal/domain"
)

type GuestRepo struct {
	pool *pgxpool.Pool
}

func NewGuestRepo(pool *pgxpool.Pool) *GuestRepo {
	return &GuestRepo{pool: pool}
}

const guestCols = `id, first_name, last_name, email, phone, country, created_at, updated_at`

func (r *GuestRepo) Create(ctx context.Context, g *domain.Guest) (*domain.Guest, error) {
	const q = `INSERT INTO guest (first_name, last_name, email, phone, country)
	VALUES ($1,$2,$3,$4,$5)
	RETURNING ` + guestCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var out domain.Guest
	err := r.pool.QueryRow(ctx, q,
		g.FirstName, g.LastName, g.Email, g.Phone, g.Country,
	).Scan(
		&out.ID, &out.FirstName, &out.LastName, &out.Email,
		&out.Phone, &out.Country, &out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		return nil, mapUniqueViolation(err)
	}
	return &out, nil
}

func (r *GuestRepo) GetByID(ctx context.Context, id int64) (*domain.Guest, error) {
	const q = `SELECT ` + guestCols + ` FROM guest WHERE id=$1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var g domain.Guest
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&g.ID, &g.FirstName, &g.LastName, &g.Email,
		&g.Phone, &g.Country, &g.CreatedAt, &g.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GuestRepo) Update(ctx context.Context, g *domain.Guest) (*domain.Guest, error) {
	const q = `UPDATE guest
	SET first_name=$1, last_name=$2, email=$3, phone=$4, country=$5, updated_at=now()
	WHERE id=$6
	RETURNING ` + guestCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var out domain.Guest
	err := r.pool.QueryRow(ctx, q,
		g.FirstName, g.LastName, g.Email, g.Phone, g.Country, g.ID,
	).Scan(
		&out.ID, &out.FirstName, &out.LastName, &out.Email,
		&out.Phone, &out.Country, &out.CreatedAt, &out.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapUniqueViolation(err)
	}
	return &out, nil
}

func (r *GuestRepo) Delete(ctx context.Context, id int64) (bool, error) {
	const q = `DELETE FROM guest WHERE id=$1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tag, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *GuestRepo) List(ctx context.Context, f domain.ListFilter, limit, offset int) ([]domain.Guest, error) {
	where, args := filterClauses(f)
	q := `SELECT ` + guestCols + ` FROM guest` + where +
		fmt.Sprintf(` ORDER BY id LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var guests []domain.Guest
	for rows.Next() {
		var g domain.Guest
		if err := rows.Scan(
			&g.ID, &g.FirstName, &g.LastName, &g.Email,
			&g.Phone, &g.Country, &g.CreatedAt, &g.UpdatedAt,
		); err != nil {
			return nil, err
		}
		guests = append(guests, g)
	}
	return guests, rows.Err()
}

func (r *GuestRepo) Count(ctx context.Context, f domain.ListFilter) (int, error) {
	where, args := filterClauses(f)
	q := `SELECT count(*) FROM guest` + where

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var count int
	if err := r.pool.QueryRow(ctx, q, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GuestRepo) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM guest WHERE email=$1 AND id<>$2)`
	return r.exists(ctx, q, email, excludeID)
}

func (r *GuestRepo) PhoneExists(ctx context.Context, phone string, excludeID int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM guest WHERE phone=$1 AND id<>$2)`
	return r.exists(ctx, q, phone, excludeID)
}

func (r *GuestRepo) exists(ctx context.Context, q string, args ...any) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var exists bool
	if err := r.pool.QueryRow(ctx, q, args...).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// filterClauses builds the WHERE clause shared by List and Count. Email and
// phone filter as case-insensitive substrings, country as an exact match.
func filterClauses(f domain.ListFilter) (string, []any) {
	var conds []string
	var args []any

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Email != "" {
		add(`email ILIKE '%%' || $%d || '%%'`, f.Email)
	}
	if f.Phone != "" {
		add(`phone ILIKE '%%' || $%d || '%%'`, f.Phone)
	}
	if f.Country != "" {
		add(`country = $%d`, f.Country)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// mapUniqueViolation translates Postgres unique-violation errors (23505) on
// the guest table's constraints into domain errors.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return err
	}
	switch {
	case strings.Contains(pgErr.ConstraintName, "email"):
		return fmt.Errorf("%w: %s", domain.ErrDuplicateEmail, pgErr.ConstraintName)
	case strings.Contains(pgErr.ConstraintName, "phone"):
		return fmt.Errorf("%w: %s", domain.ErrDuplicatePhone, pgErr.ConstraintName)
	default:
		return err
	}
}
