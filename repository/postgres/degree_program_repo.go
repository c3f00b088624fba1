package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/degreeprogram/domain"
	"github.com/fastygo/degreeprogram/repository"
)

type degreeProgramRepository struct {
	pool *pgxpool.Pool
}

// NewDegreeProgramRepository returns a Postgres-backed DegreeProgramRepository.
func NewDegreeProgramRepository(pool *pgxpool.Pool) repository.DegreeProgramRepository {
	return &degreeProgramRepository{pool: pool}
}

func (r *degreeProgramRepository) GetByID(ctx context.Context, id domain.DegreeProgramID) (*domain.DegreeProgram, error) {
	data, err := findData(ctx, r.pool, id.Int())
	if err != nil {
		return nil, err
	}
	return domain.NewDegreeProgram(data)
}

func (r *degreeProgramRepository) Save(ctx context.Context, program *domain.DegreeProgram) error {
	if program == nil {
		return domain.ErrInvalidPayload
	}

	events := program.ReleaseEvents()
	records := make([]domain.EventRecord, 0, len(events))
	for _, event := range events {
		record, err := domain.NewEventRecord(program.ID().Int(), event)
		if err != nil {
			return err
		}
		records = append(records, record)
	}
	return r.SaveSnapshot(ctx, program.Snapshot(), records)
}

func (r *degreeProgramRepository) SaveSnapshot(ctx context.Context, snapshot domain.Snapshot, events []domain.EventRecord) error {
	payload, err := json.Marshal(snapshot.DegreeProgramData)
	if err != nil {
		return err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// row lock serializes concurrent writers of the same program
	var locked int
	err = tx.QueryRow(ctx, `SELECT id FROM degree_programs WHERE id = $1 FOR UPDATE`, snapshot.ID).Scan(&locked)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	const upsert = `
	INSERT INTO degree_programs (id, data, created_at, modified_at)
	VALUES ($1, $2, NOW(), NOW())
	ON CONFLICT (id) DO UPDATE
	SET data = EXCLUDED.data,
		modified_at = NOW()
	`
	if _, err := tx.Exec(ctx, upsert, snapshot.ID, payload); err != nil {
		return err
	}

	relations, err := loadRelations(ctx, tx, []int{snapshot.ID})
	if err != nil {
		return fmt.Errorf("load relations of %d: %w", snapshot.ID, err)
	}
	stored := relations[snapshot.ID]

	batch := &pgx.Batch{}
	queueRelationChanges(batch, relationCombinations, snapshot.ID, rebase(stored.combinations, snapshot.CombinationsChangeset))
	queueRelationChanges(batch, relationLimitedCombinations, snapshot.ID, rebase(stored.limitedCombinations, snapshot.LimitedCombinationsChangeset))
	for _, event := range events {
		batch.Queue(`
		INSERT INTO degree_program_events (id, degree_program_id, name, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
		`, event.ID, event.DegreeProgramID, event.Name, []byte(event.Payload), event.CreatedAt)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("apply relations of %d: %w", snapshot.ID, err)
		}
	}

	return tx.Commit(ctx)
}

func (r *degreeProgramRepository) IDs(ctx context.Context) ([]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM degree_programs ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[int])
}

// queueRelationChanges removes both directions of every removed relation,
// then adds both directions of every added one.
func queueRelationChanges(batch *pgx.Batch, kind string, id int, changeset domain.IntegersListChangeset) {
	for _, related := range changeset.Removed() {
		batch.Queue(`
		DELETE FROM degree_program_relations
		WHERE kind = $1
		  AND ((degree_program_id = $2 AND related_id = $3) OR (degree_program_id = $3 AND related_id = $2))
		`, kind, id, related)
	}
	for _, related := range changeset.Added() {
		batch.Queue(`
		INSERT INTO degree_program_relations (kind, degree_program_id, related_id)
		VALUES ($1, $2, $3), ($1, $3, $2)
		ON CONFLICT DO NOTHING
		`, kind, id, related)
	}
}

func findData(ctx context.Context, q querier, id int) (domain.DegreeProgramData, error) {
	var payload []byte
	err := q.QueryRow(ctx, `SELECT data FROM degree_programs WHERE id = $1`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DegreeProgramData{}, domain.ErrDegreeProgramNotFound
		}
		return domain.DegreeProgramData{}, err
	}

	data, err := decodeData(id, payload)
	if err != nil {
		return domain.DegreeProgramData{}, err
	}
	relations, err := loadRelations(ctx, q, []int{id})
	if err != nil {
		return domain.DegreeProgramData{}, err
	}
	relations[id].applyTo(&data)
	return data, nil
}
