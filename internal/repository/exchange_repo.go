package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"axom-backend/internal/models"
)

type ExchangeRepo struct {
	pool *pgxpool.Pool
}

func NewExchangeRepo(pool *pgxpool.Pool) *ExchangeRepo {
	return &ExchangeRepo{pool: pool}
}

// Insert archives one exchange. Re-delivered jobs with the same id are ignored.
func (r *ExchangeRepo) Insert(ctx context.Context, ex *models.Exchange) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO chat_exchanges (id, user_message, reply, status, error_message, history_length, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`, ex.ID, ex.UserMessage, ex.Reply, ex.Status, ex.ErrorMessage, ex.HistoryLength, ex.CreatedAt)
	return err
}

// CountByStatus returns how many archived exchanges have each status.
func (r *ExchangeRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM chat_exchanges GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
