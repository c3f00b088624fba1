package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fastygo/degreeprogram/domain"
)

const (
	relationCombinations        = "combinations"
	relationLimitedCombinations = "limited_combinations"
)

// querier is satisfied by *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type relationLists struct {
	combinations        domain.DegreeProgramIDs
	limitedCombinations domain.DegreeProgramIDs
}

func decodeData(id int, payload []byte) (domain.DegreeProgramData, error) {
	var data domain.DegreeProgramData
	if err := json.Unmarshal(payload, &data); err != nil {
		return domain.DegreeProgramData{}, fmt.Errorf("decode degree program %d: %w", id, err)
	}
	data.ID = id
	return data, nil
}

// loadRelations reads both relationship lists of the given programs.
func loadRelations(ctx context.Context, q querier, ids []int) (map[int]*relationLists, error) {
	const query = `
	SELECT kind, degree_program_id, related_id
	FROM degree_program_relations
	WHERE degree_program_id = ANY($1)
	ORDER BY degree_program_id, related_id
	`
	result := make(map[int]*relationLists, len(ids))
	for _, id := range ids {
		result[id] = &relationLists{
			combinations:        domain.DegreeProgramIDs{},
			limitedCombinations: domain.DegreeProgramIDs{},
		}
	}
	if len(ids) == 0 {
		return result, nil
	}

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			kind      string
			programID int
			relatedID int
		)
		if err := rows.Scan(&kind, &programID, &relatedID); err != nil {
			return nil, err
		}
		lists, ok := result[programID]
		if !ok {
			continue
		}
		switch kind {
		case relationCombinations:
			lists.combinations = append(lists.combinations, relatedID)
		case relationLimitedCombinations:
			lists.limitedCombinations = append(lists.limitedCombinations, relatedID)
		}
	}
	return result, rows.Err()
}

func (l *relationLists) applyTo(data *domain.DegreeProgramData) {
	if l == nil {
		return
	}
	data.Combinations = l.combinations
	data.LimitedCombinations = l.limitedCombinations
}

// rebase diffs the changeset's target list against the stored relations, so
// a save whose baseline went stale still leaves the table equal to its list.
func rebase(stored domain.DegreeProgramIDs, changeset domain.IntegersListChangeset) domain.IntegersListChangeset {
	return domain.NewIntegersListChangeset(stored).ApplyChanges(changeset.Current())
}
