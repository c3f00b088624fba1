package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/fastygo/degreeprogram/domain"
	"github.com/fastygo/degreeprogram/repository"
	"github.com/fastygo/degreeprogram/view"
)

// ViewRepository builds raw and translated views from the stored records.
type ViewRepository struct {
	pool      *pgxpool.Pool
	options   repository.SharedOptionRepository
	filter    view.ConditionalFieldsFilter
	projector *view.Projector
	languages []string
	logger    *zap.Logger
}

// NewViewRepository creates a view repository. languages are the codes
// attached as translations of every translated view.
func NewViewRepository(
	pool *pgxpool.Pool,
	options repository.SharedOptionRepository,
	projector *view.Projector,
	languages []string,
	logger *zap.Logger,
) *ViewRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(languages) == 0 {
		languages = domain.Languages
	}
	return &ViewRepository{
		pool:      pool,
		options:   options,
		filter:    view.NewConditionalFieldsFilter(),
		projector: projector,
		languages: languages,
		logger:    logger,
	}
}

func (r *ViewRepository) FindRaw(ctx context.Context, id domain.DegreeProgramID) (view.Raw, error) {
	data, err := findData(ctx, r.pool, id.Int())
	if err != nil {
		return view.Raw{}, err
	}
	if err := r.applySharedLinks(ctx, []*domain.DegreeProgramData{&data}); err != nil {
		return view.Raw{}, err
	}
	return view.RawFromData(data), nil
}

func (r *ViewRepository) FindTranslated(ctx context.Context, id domain.DegreeProgramID, languageCode string, facultySlugs []string) (*view.Translated, error) {
	raw, err := r.FindRaw(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.translate(ctx, raw, languageCode, facultySlugs)
}

func (r *ViewRepository) FindRawCollection(ctx context.Context, criteria repository.CollectionCriteria) (repository.PaginatedCollection[view.Raw], error) {
	include := criteria.Include()
	if include == nil {
		include = []int{}
	}

	var total int
	const countQuery = `
	SELECT COUNT(*)
	FROM degree_programs
	WHERE cardinality($1::int[]) = 0 OR id = ANY($1)
	`
	if err := r.pool.QueryRow(ctx, countQuery, include).Scan(&total); err != nil {
		return repository.PaginatedCollection[view.Raw]{}, err
	}

	var limit any
	if !criteria.PaginationDisabled() {
		limit = criteria.PerPage()
	}
	const listQuery = `
	SELECT id, data
	FROM degree_programs
	WHERE cardinality($1::int[]) = 0 OR id = ANY($1)
	ORDER BY id
	LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, listQuery, include, limit, criteria.Offset())
	if err != nil {
		return repository.PaginatedCollection[view.Raw]{}, err
	}
	defer rows.Close()

	var (
		ids     []int
		records []*domain.DegreeProgramData
	)
	for rows.Next() {
		var (
			id      int
			payload []byte
		)
		if err := rows.Scan(&id, &payload); err != nil {
			return repository.PaginatedCollection[view.Raw]{}, err
		}
		data, err := decodeData(id, payload)
		if err != nil {
			return repository.PaginatedCollection[view.Raw]{}, err
		}
		ids = append(ids, id)
		records = append(records, &data)
	}
	if err := rows.Err(); err != nil {
		return repository.PaginatedCollection[view.Raw]{}, err
	}

	relations, err := loadRelations(ctx, r.pool, ids)
	if err != nil {
		return repository.PaginatedCollection[view.Raw]{}, err
	}
	if err := r.applySharedLinks(ctx, records); err != nil {
		return repository.PaginatedCollection[view.Raw]{}, err
	}

	items := make([]view.Raw, 0, len(records))
	for _, data := range records {
		relations[data.ID].applyTo(data)
		items = append(items, view.RawFromData(*data))
	}
	return repository.NewPaginatedCollection(items, criteria, total), nil
}

func (r *ViewRepository) FindTranslatedCollection(ctx context.Context, criteria repository.CollectionCriteria, languageCode string) (repository.PaginatedCollection[*view.Translated], error) {
	raws, err := r.FindRawCollection(ctx, criteria)
	if err != nil {
		return repository.PaginatedCollection[*view.Translated]{}, err
	}

	items := make([]*view.Translated, 0, len(raws.Items))
	for _, raw := range raws.Items {
		translated, err := r.translate(ctx, raw, languageCode, criteria.FacultySlugs())
		if err != nil {
			return repository.PaginatedCollection[*view.Translated]{}, err
		}
		items = append(items, translated)
	}
	r.logger.Debug("translated collection built",
		zap.String("lang", languageCode),
		zap.Int("page", raws.Page),
		zap.Int("items", len(items)))
	return repository.PaginatedCollection[*view.Translated]{
		Items:      items,
		TotalItems: raws.TotalItems,
		TotalPages: raws.TotalPages,
		Page:       raws.Page,
	}, nil
}

// translate filters raw, projects it to languageCode and attaches the other languages.
func (r *ViewRepository) translate(ctx context.Context, raw view.Raw, languageCode string, facultySlugs []string) (*view.Translated, error) {
	filtered := r.filter.Filter(raw, facultySlugs)

	main, err := r.projector.Project(ctx, filtered, languageCode)
	if err != nil {
		return nil, err
	}
	for _, lang := range r.languages {
		if lang == languageCode {
			continue
		}
		translation, err := r.projector.Project(ctx, filtered, lang)
		if err != nil {
			return nil, fmt.Errorf("project %d to %s: %w", raw.ID, lang, err)
		}
		main = main.WithTranslation(translation, lang)
	}
	return main, nil
}

func (r *ViewRepository) applySharedLinks(ctx context.Context, records []*domain.DegreeProgramData) error {
	if r.options == nil || len(records) == 0 {
		return nil
	}
	links, err := r.options.SharedLinks(ctx)
	if err != nil {
		return err
	}
	for _, data := range records {
		repository.ApplySharedLinks(data, links)
	}
	return nil
}

var (
	_ repository.DegreeProgramViewRepository       = (*ViewRepository)(nil)
	_ repository.DegreeProgramCollectionRepository = (*ViewRepository)(nil)
)
