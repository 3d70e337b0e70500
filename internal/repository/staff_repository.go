package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smartcity/staff-service/internal/domain"
)

// StaffRepository handles persistence for staff records. It carries no
// business logic; the email uniqueness constraint and the etag version
// column are enforced by the database.
type StaffRepository interface {
	Create(ctx context.Context, staff *domain.Staff) error
	Update(ctx context.Context, staff *domain.Staff) error
	GetByID(ctx context.Context, id string) (*domain.Staff, error)
	GetByEmail(ctx context.Context, email string) (*domain.Staff, error)
	List(ctx context.Context) ([]domain.Staff, error)
	Delete(ctx context.Context, id string) error
}

type staffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository instantiates the repository.
func NewStaffRepository(pool *pgxpool.Pool) StaffRepository {
	return &staffRepository{pool: pool}
}

const staffColumns = `id, name, email, password, role, department, is_active, city_id, village_id, created_at, updated_at, etag`

func (r *staffRepository) Create(ctx context.Context, staff *domain.Staff) error {
	const query = `
        INSERT INTO staff (id, name, email, password, role, department, is_active, city_id, village_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING created_at, updated_at, etag`

	return r.pool.QueryRow(ctx, query,
		staff.ID,
		staff.Name,
		staff.Email,
		staff.PasswordHash,
		staff.Role,
		staff.Department,
		staff.IsActive,
		staff.CityID,
		staff.VillageID,
	).Scan(&staff.CreatedAt, &staff.UpdatedAt, &staff.Etag)
}

// Update persists mutable fields and bumps the etag. The WHERE clause on the
// current etag is the optimistic concurrency guard: a stale writer matches no
// rows and gets pgx.ErrNoRows.
func (r *staffRepository) Update(ctx context.Context, staff *domain.Staff) error {
	const query = `
        UPDATE staff
        SET name=$1, email=$2, password=$3, role=$4, department=$5, is_active=$6,
            updated_at=NOW(), etag=etag+1
        WHERE id=$7 AND etag=$8
        RETURNING updated_at, etag`

	return r.pool.QueryRow(ctx, query,
		staff.Name,
		staff.Email,
		staff.PasswordHash,
		staff.Role,
		staff.Department,
		staff.IsActive,
		staff.ID,
		staff.Etag,
	).Scan(&staff.UpdatedAt, &staff.Etag)
}

func (r *staffRepository) GetByID(ctx context.Context, id string) (*domain.Staff, error) {
	const query = `SELECT ` + staffColumns + ` FROM staff WHERE id=$1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *staffRepository) GetByEmail(ctx context.Context, email string) (*domain.Staff, error) {
	const query = `SELECT ` + staffColumns + ` FROM staff WHERE email=$1`
	return r.scanOne(r.pool.QueryRow(ctx, query, email))
}

// List returns every staff record in creation order. Callers depend on this
// ordering staying stable across enrichment.
func (r *staffRepository) List(ctx context.Context) ([]domain.Staff, error) {
	const query = `SELECT ` + staffColumns + ` FROM staff ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Staff
	for rows.Next() {
		var staff domain.Staff
		if err := rows.Scan(
			&staff.ID,
			&staff.Name,
			&staff.Email,
			&staff.PasswordHash,
			&staff.Role,
			&staff.Department,
			&staff.IsActive,
			&staff.CityID,
			&staff.VillageID,
			&staff.CreatedAt,
			&staff.UpdatedAt,
			&staff.Etag,
		); err != nil {
			return nil, err
		}
		result = append(result, staff)
	}
	return result, rows.Err()
}

func (r *staffRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM staff WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *staffRepository) scanOne(row pgx.Row) (*domain.Staff, error) {
	var staff domain.Staff
	if err := row.Scan(
		&staff.ID,
		&staff.Name,
		&staff.Email,
		&staff.PasswordHash,
		&staff.Role,
		&staff.Department,
		&staff.IsActive,
		&staff.CityID,
		&staff.VillageID,
		&staff.CreatedAt,
		&staff.UpdatedAt,
		&staff.Etag,
	); err != nil {
		return nil, err
	}
	return &staff, nil
}
