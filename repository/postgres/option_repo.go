package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/degreeprogram/domain"
	"github.com/fastygo/degreeprogram/repository"
)

type sharedOptionRepository struct {
	pool *pgxpool.Pool
}

// NewSharedOptionRepository returns a Postgres-backed SharedOptionRepository.
func NewSharedOptionRepository(pool *pgxpool.Pool) repository.SharedOptionRepository {
	return &sharedOptionRepository{pool: pool}
}

func (r *sharedOptionRepository) SharedLinks(ctx context.Context) (map[string]domain.BilingualLink, error) {
	rows, err := r.pool.Query(ctx, `SELECT key, value FROM shared_options WHERE key = ANY($1)`, repository.SharedLinkKeys)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := make(map[string]domain.BilingualLink, len(repository.SharedLinkKeys))
	for rows.Next() {
		var (
			key   string
			value []byte
		)
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		var link domain.BilingualLink
		if err := json.Unmarshal(value, &link); err != nil {
			return nil, fmt.Errorf("decode shared option %s: %w", key, err)
		}
		link.ID = repository.SharedLinkID(key)
		links[key] = link
	}
	return links, rows.Err()
}

func (r *sharedOptionRepository) SaveSharedLink(ctx context.Context, key string, link domain.BilingualLink) error {
	if !slices.Contains(repository.SharedLinkKeys, key) {
		return domain.NewInvalidInputError(fmt.Sprintf("unsupported shared option %q", key))
	}
	link.ID = repository.SharedLinkID(key)
	payload, err := json.Marshal(link)
	if err != nil {
		return err
	}

	const query = `
	INSERT INTO shared_options (key, value, updated_at)
	VALUES ($1, $2, NOW())
	ON CONFLICT (key) DO UPDATE
	SET value = EXCLUDED.value,
		updated_at = NOW()
	`
	_, err = r.pool.Exec(ctx, query, key, payload)
	return err
}
