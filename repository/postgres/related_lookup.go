package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/degreeprogram/domain"
	"github.com/fastygo/degreeprogram/view"
)

// RelatedLookup resolves combinable programs from the stored records.
type RelatedLookup struct {
	pool    *pgxpool.Pool
	baseURL string
}

func NewRelatedLookup(pool *pgxpool.Pool, baseURL string) *RelatedLookup {
	return &RelatedLookup{pool: pool, baseURL: baseURL}
}

// FindRelated returns the programs in the order of ids. Unknown ids are skipped.
func (l *RelatedLookup) FindRelated(ctx context.Context, ids []int, languageCode string) ([]view.RelatedDegreeProgram, error) {
	const query = `
	SELECT id, data->'title', data->'slug'
	FROM degree_programs
	WHERE id = ANY($1)
	`
	rows, err := l.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found := make(map[int]view.RelatedDegreeProgram, len(ids))
	for rows.Next() {
		var (
			id          int
			title, slug []byte
		)
		if err := rows.Scan(&id, &title, &slug); err != nil {
			return nil, err
		}
		var titleValue, slugValue domain.BilingualString
		if len(title) > 0 {
			if err := json.Unmarshal(title, &titleValue); err != nil {
				return nil, err
			}
		}
		if len(slug) > 0 {
			if err := json.Unmarshal(slug, &slugValue); err != nil {
				return nil, err
			}
		}
		found[id] = view.RelatedDegreeProgram{
			ID:    id,
			Title: titleValue.AsString(languageCode),
			URL:   view.ProgramURL(l.baseURL, slugValue.AsString(languageCode)),
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	related := make([]view.RelatedDegreeProgram, 0, len(found))
	for _, id := range ids {
		if program, ok := found[id]; ok {
			related = append(related, program)
		}
	}
	return related, nil
}

var _ view.RelatedLookup = (*RelatedLookup)(nil)
