// Package emaillogs persists the audit trail of confirmation emails.
package emaillogs

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sra-webinar/backend/internal/models"
)

// Repository handles email_logs persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an email logs repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert records one email attempt.
func (r *Repository) Insert(ctx context.Context, el *models.EmailLog) error {
	const q = `INSERT INTO email_logs (id, webinar_id, registration_id, email_type, recipient_email, subject, status, sent_at, error_message)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`
	return r.pool.QueryRow(ctx, q,
		el.WebinarID, el.RegistrationID, el.EmailType, el.RecipientEmail,
		el.Subject, el.Status, el.SentAt, el.ErrorMessage,
	).Scan(&el.ID, &el.CreatedAt)
}
