package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tenderops/procurement-backend/internal/masters/domain"
)

// Store is the access surface for the reference masters. Satisfied by both
// the plain repository and the redis-cached wrapper.
type Store interface {
	GetOrganisation(ctx context.Context, id int64) (*domain.Organisation, error)
	GetItem(ctx context.Context, id int64) (*domain.Item, error)
	GetLocation(ctx context.Context, id int64) (*domain.Location, error)

	ListOrganisations(ctx context.Context) ([]domain.Organisation, error)
	ListItems(ctx context.Context) ([]domain.Item, error)
	ListLocations(ctx context.Context) ([]domain.Location, error)

	CreateOrganisation(ctx context.Context, name, acronym string) (*domain.Organisation, error)
	CreateItem(ctx context.Context, name string) (*domain.Item, error)
	CreateLocation(ctx context.Context, name, acronym string) (*domain.Location, error)

	DeleteOrganisation(ctx context.Context, id int64) error
	DeleteItem(ctx context.Context, id int64) error
	DeleteLocation(ctx context.Context, id int64) error
}

// Repository provides persistence operations for the reference masters
type Repository struct {
	db *sql.DB
}

// New creates a new masters repository
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// GetOrganisation fetches an organisation by id. A missing row is a soft
// miss: (nil, nil), never an error. Code generation falls back instead of
// failing on administrative-data gaps.
func (r *Repository) GetOrganisation(ctx context.Context, id int64) (*domain.Organisation, error) {
	const q = `
SELECT id, name, COALESCE(acronym, ''), created_at, updated_at
FROM organizations
WHERE id = $1;
`
	var o domain.Organisation
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&o.ID, &o.Name, &o.Acronym, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// GetItem fetches an item by id, (nil, nil) when absent.
func (r *Repository) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	const q = `
SELECT id, name, created_at, updated_at
FROM items
WHERE id = $1;
`
	var it domain.Item
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&it.ID, &it.Name, &it.CreatedAt, &it.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// GetLocation fetches a location by id, (nil, nil) when absent.
func (r *Repository) GetLocation(ctx context.Context, id int64) (*domain.Location, error) {
	const q = `
SELECT id, name, COALESCE(acronym, ''), created_at, updated_at
FROM locations
WHERE id = $1;
`
	var l domain.Location
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&l.ID, &l.Name, &l.Acronym, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *Repository) ListOrganisations(ctx context.Context) ([]domain.Organisation, error) {
	const q = `
SELECT id, name, COALESCE(acronym, ''), created_at, updated_at
FROM organizations
ORDER BY name;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Organisation, 0, 16)
	for rows.Next() {
		var o domain.Organisation
		if err := rows.Scan(&o.ID, &o.Name, &o.Acronym, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *Repository) ListItems(ctx context.Context) ([]domain.Item, error) {
	const q = `
SELECT id, name, created_at, updated_at
FROM items
ORDER BY name;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Item, 0, 16)
	for rows.Next() {
		var it domain.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *Repository) ListLocations(ctx context.Context) ([]domain.Location, error) {
	const q = `
SELECT id, name, COALESCE(acronym, ''), created_at, updated_at
FROM locations
ORDER BY name;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Location, 0, 16)
	for rows.Next() {
		var l domain.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Acronym, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *Repository) CreateOrganisation(ctx context.Context, name, acronym string) (*domain.Organisation, error) {
	const q = `
INSERT INTO organizations (name, acronym, created_at, updated_at)
VALUES ($1, NULLIF($2, ''), now(), now())
RETURNING id, name, COALESCE(acronym, ''), created_at, updated_at;
`
	var o domain.Organisation
	err := r.db.QueryRowContext(ctx, q, name, acronym).
		Scan(&o.ID, &o.Name, &o.Acronym, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *Repository) CreateItem(ctx context.Context, name string) (*domain.Item, error) {
	const q = `
INSERT INTO items (name, created_at, updated_at)
VALUES ($1, now(), now())
RETURNING id, name, created_at, updated_at;
`
	var it domain.Item
	err := r.db.QueryRowContext(ctx, q, name).
		Scan(&it.ID, &it.Name, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *Repository) CreateLocation(ctx context.Context, name, acronym string) (*domain.Location, error) {
	const q = `
INSERT INTO locations (name, acronym, created_at, updated_at)
VALUES ($1, NULLIF($2, ''), now(), now())
RETURNING id, name, COALESCE(acronym, ''), created_at, updated_at;
`
	var l domain.Location
	err := r.db.QueryRowContext(ctx, q, name, acronym).
		Scan(&l.ID, &l.Name, &l.Acronym, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *Repository) DeleteOrganisation(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "organizations", id)
}

func (r *Repository) DeleteItem(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "items", id)
}

func (r *Repository) DeleteLocation(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "locations", id)
}

func (r *Repository) deleteByID(ctx context.Context, table string, id int64) error {
	// table is one of the three fixed master tables, never user input
	result, err := r.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
