package registrations

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sra-webinar/backend/internal/models"
)

const registrantColumns = `id, webinar_id, first_name, last_name, email, topic, join_url, start_time, registrant_id, created_at`

// Repository persists completed registrations.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a registrations repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Find returns the registrant matching all four identity fields exactly,
// or (nil, nil) when none exists. One atomic lookup, no separate exists
// check.
func (r *Repository) Find(ctx context.Context, webinarID, email, firstName, lastName string) (*models.Registrant, error) {
	const q = `SELECT ` + registrantColumns + ` FROM registrants
		WHERE webinar_id = $1 AND email = $2 AND first_name = $3 AND last_name = $4`
	return r.queryOne(ctx, q, webinarID, email, firstName, lastName)
}

// Save inserts the registrant. The unique index on (webinar_id, email)
// resolves duplicate-create races: when another registration for the same
// key already exists the insert is a no-op and Save returns the stored
// winner, never overwriting its fields.
func (r *Repository) Save(ctx context.Context, reg *models.Registrant) (*models.Registrant, error) {
	const q = `INSERT INTO registrants (id, webinar_id, first_name, last_name, email, topic, join_url, start_time, registrant_id)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (webinar_id, email) DO NOTHING
		RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, q,
		reg.WebinarID, reg.FirstName, reg.LastName, reg.Email,
		reg.Topic, reg.JoinURL, reg.StartTime, reg.RegistrantID,
	).Scan(&reg.ID, &reg.CreatedAt)
	if err == nil {
		return reg, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	return r.findByKey(ctx, reg.WebinarID, reg.Email)
}

func (r *Repository) findByKey(ctx context.Context, webinarID, email string) (*models.Registrant, error) {
	const q = `SELECT ` + registrantColumns + ` FROM registrants
		WHERE webinar_id = $1 AND email = $2`
	return r.queryOne(ctx, q, webinarID, email)
}

func (r *Repository) queryOne(ctx context.Context, q string, args ...any) (*models.Registrant, error) {
	var reg models.Registrant
	err := r.pool.QueryRow(ctx, q, args...).Scan(
		&reg.ID, &reg.WebinarID, &reg.FirstName, &reg.LastName, &reg.Email,
		&reg.Topic, &reg.JoinURL, &reg.StartTime, &reg.RegistrantID, &reg.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reg, nil
}
