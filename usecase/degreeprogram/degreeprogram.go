package degreeprogram

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"github.com/fastygo/degreeprogram/domain"
	"github.com/fastygo/degreeprogram/repository"
	"github.com/fastygo/degreeprogram/usecase"
	"github.com/fastygo/degreeprogram/view"
)

// Dependencies groups the collaborators of the use case.
type Dependencies struct {
	Programs    repository.DegreeProgramRepository
	Views       repository.DegreeProgramViewRepository
	Collections repository.DegreeProgramCollectionRepository
	SharedLinks repository.SharedOptionRepository
	Validator   domain.Validator
	Sanitizer   domain.Sanitizer
	Events      usecase.EventPublisher
	Buffer      usecase.OperationBuffer
}

type UseCase struct {
	programs    repository.DegreeProgramRepository
	views       repository.DegreeProgramViewRepository
	collections repository.DegreeProgramCollectionRepository
	sharedLinks repository.SharedOptionRepository
	validator   domain.Validator
	sanitizer   domain.Sanitizer
	events      usecase.EventPublisher
	buffer      usecase.OperationBuffer
	logger      *zap.Logger
}

func New(deps Dependencies, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		programs:    deps.Programs,
		views:       deps.Views,
		collections: deps.Collections,
		sharedLinks: deps.SharedLinks,
		validator:   deps.Validator,
		sanitizer:   deps.Sanitizer,
		events:      deps.Events,
		buffer:      deps.Buffer,
		logger:      logger,
	}
}

// UpdateDraft stores data after checking it against the draft rules.
func (uc *UseCase) UpdateDraft(ctx context.Context, data domain.DegreeProgramData) (domain.DegreeProgramData, error) {
	return uc.update(ctx, data, (*domain.DegreeProgram).UpdateDraft)
}

// Publish stores data after checking it against the publish rules.
func (uc *UseCase) Publish(ctx context.Context, data domain.DegreeProgramData) (domain.DegreeProgramData, error) {
	return uc.update(ctx, data, (*domain.DegreeProgram).Publish)
}

type applyFunc func(*domain.DegreeProgram, domain.DegreeProgramData, domain.Validator, domain.Sanitizer) error

func (uc *UseCase) update(ctx context.Context, data domain.DegreeProgramData, apply applyFunc) (domain.DegreeProgramData, error) {
	id, err := domain.NewDegreeProgramID(data.ID)
	if err != nil {
		return domain.DegreeProgramData{}, err
	}
	program, err := uc.programs.GetByID(ctx, id)
	if err != nil {
		return domain.DegreeProgramData{}, err
	}
	if err := apply(program, data, uc.validator, uc.sanitizer); err != nil {
		return domain.DegreeProgramData{}, err
	}

	buffered, err := uc.persist(ctx, program)
	if err != nil {
		return domain.DegreeProgramData{}, err
	}
	if buffered {
		// refresh events travel with the buffered save and go out on replay
		program.ClearEvents()
		return program.AsData(), nil
	}

	events := append(program.ReleaseEvents(), domain.RelationsChangedFromSnapshot(program.Snapshot()))
	program.ClearEvents()
	if uc.events != nil {
		if err := uc.events.Dispatch(ctx, events...); err != nil {
			uc.logger.Warn("degree program event handling failed", zap.Int("id", id.Int()), zap.Error(err))
		}
	}

	uc.logger.Info("degree program updated", zap.Int("id", id.Int()))
	return program.AsData(), nil
}

func (uc *UseCase) GetRaw(ctx context.Context, id domain.DegreeProgramID) (view.Raw, error) {
	return uc.views.FindRaw(ctx, id)
}

func (uc *UseCase) GetTranslated(ctx context.Context, id domain.DegreeProgramID, languageCode string, facultySlugs []string) (*view.Translated, error) {
	return uc.views.FindTranslated(ctx, id, languageCode, facultySlugs)
}

func (uc *UseCase) ListRaw(ctx context.Context, criteria repository.CollectionCriteria) (repository.PaginatedCollection[view.Raw], error) {
	return uc.collections.FindRawCollection(ctx, criteria)
}

func (uc *UseCase) ListTranslated(ctx context.Context, criteria repository.CollectionCriteria, languageCode string) (repository.PaginatedCollection[*view.Translated], error) {
	return uc.collections.FindTranslatedCollection(ctx, criteria, languageCode)
}

// UpdateSharedLink replaces one of the organizational links shown on every program.
func (uc *UseCase) UpdateSharedLink(ctx context.Context, key string, link domain.BilingualLink) (domain.BilingualLink, error) {
	if !slices.Contains(repository.SharedLinkKeys, key) {
		return domain.BilingualLink{}, domain.NewInvalidInputError("Unknown shared link.", "key: "+key)
	}
	link.ID = repository.SharedLinkID(key)
	if err := uc.sharedLinks.SaveSharedLink(ctx, key, link); err != nil {
		return domain.BilingualLink{}, err
	}
	if uc.events != nil {
		if err := uc.events.Dispatch(ctx, domain.SharedLinkUpdated{Key: key}); err != nil {
			uc.logger.Warn("shared link event handling failed", zap.String("key", key), zap.Error(err))
		}
	}
	uc.logger.Info("shared link updated", zap.String("key", key))
	return link, nil
}

// persist writes program to storage. It reports buffered when the save was
// parked for later replay instead, which happens while earlier saves of the
// same program wait in the buffer or when storage rejects the write.
func (uc *UseCase) persist(ctx context.Context, program *domain.DegreeProgram) (bool, error) {
	if uc.buffer != nil {
		pending, err := uc.buffer.HasPendingDegreeProgram(ctx, program.ID())
		if err != nil {
			return false, err
		}
		if pending {
			if err := uc.bufferSave(ctx, program); err != nil {
				return false, err
			}
			return true, nil
		}
	}

	saveErr := uc.programs.Save(ctx, program)
	if saveErr == nil {
		return false, nil
	}
	if uc.buffer == nil {
		return false, saveErr
	}
	if err := uc.bufferSave(ctx, program); err != nil {
		return false, saveErr
	}
	return true, nil
}

func (uc *UseCase) bufferSave(ctx context.Context, program *domain.DegreeProgram) error {
	events := program.ReleaseEvents()
	records := make([]domain.EventRecord, 0, len(events))
	for _, event := range events {
		record, err := domain.NewEventRecord(program.ID().Int(), event)
		if err != nil {
			uc.logger.Error("failed to encode degree program event", zap.Error(err))
			return err
		}
		records = append(records, record)
	}

	if err := uc.buffer.BufferDegreeProgram(ctx, program.Snapshot(), records); err != nil {
		uc.logger.Error("failed to buffer degree program save", zap.Int("id", program.ID().Int()), zap.Error(err))
		return err
	}
	uc.logger.Warn("degree program save buffered", zap.Int("id", program.ID().Int()))
	return nil
}
