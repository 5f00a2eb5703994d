package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskfolio/taskfolio/internal/shared"
)

// Repository defines persistence operations for the users module.
type Repository interface {
	GetAddress(ctx context.Context, userID int64) (*Address, error)
	SaveAddress(ctx context.Context, userID int64, addr *Address) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// GetAddress fetches the address linked to a user.
func (r *PGRepository) GetAddress(ctx context.Context, userID int64) (*Address, error) {
	var addr Address
	err := r.pool.QueryRow(ctx,
		`SELECT a.id, a.address1, a.address2, a.city, a.state, a.country, a.postalcode, a.apt_num
		 FROM address a JOIN users u ON u.address_id = a.id
		 WHERE u.id = $1`, userID).
		Scan(&addr.ID, &addr.Address1, &addr.Address2, &addr.City, &addr.State, &addr.Country, &addr.Postalcode, &addr.AptNum)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &addr, nil
}

// SaveAddress creates or rewrites the user's address and links it from the
// user row, inside one transaction.
func (r *PGRepository) SaveAddress(ctx context.Context, userID int64, addr *Address) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var addressID *int64
	if err := tx.QueryRow(ctx, `SELECT address_id FROM users WHERE id = $1`, userID).Scan(&addressID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shared.ErrNotFound
		}
		return err
	}

	if addressID != nil {
		_, err = tx.Exec(ctx,
			`UPDATE address SET address1 = $1, address2 = $2, city = $3, state = $4, country = $5, postalcode = $6, apt_num = $7
			 WHERE id = $8`,
			addr.Address1, addr.Address2, addr.City, addr.State, addr.Country, addr.Postalcode, addr.AptNum, *addressID)
		if err != nil {
			return err
		}
		addr.ID = *addressID
	} else {
		err = tx.QueryRow(ctx,
			`INSERT INTO address (address1, address2, city, state, country, postalcode, apt_num)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 RETURNING id`,
			addr.Address1, addr.Address2, addr.City, addr.State, addr.Country, addr.Postalcode, addr.AptNum).
			Scan(&addr.ID)
		if err != nil {
			return err
		}
		if _, err = tx.Exec(ctx, `UPDATE users SET address_id = $1, updated_at = now() WHERE id = $2`, addr.ID, userID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

var _ Repository = (*PGRepository)(nil)
