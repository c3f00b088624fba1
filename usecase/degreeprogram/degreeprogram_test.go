package degreeprogram

import (
	"context"
	"errors"
	"testing"

	"github.com/fastygo/degreeprogram/domain"
	"github.com/fastygo/degreeprogram/usecase"
)

type memoryPrograms struct {
	data    map[int]domain.DegreeProgramData
	saved   []domain.Snapshot
	saveErr error
}

func (m *memoryPrograms) GetByID(_ context.Context, id domain.DegreeProgramID) (*domain.DegreeProgram, error) {
	data, ok := m.data[id.Int()]
	if !ok {
		return nil, domain.ErrDegreeProgramNotFound
	}
	return domain.NewDegreeProgram(data)
}

func (m *memoryPrograms) Save(ctx context.Context, program *domain.DegreeProgram) error {
	return m.SaveSnapshot(ctx, program.Snapshot(), nil)
}

func (m *memoryPrograms) SaveSnapshot(_ context.Context, snapshot domain.Snapshot, _ []domain.EventRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, snapshot)
	m.data[snapshot.ID] = snapshot.DegreeProgramData
	return nil
}

func (m *memoryPrograms) IDs(context.Context) ([]int, error) {
	ids := make([]int, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	return ids, nil
}

type fakeBuffer struct {
	snapshots []domain.Snapshot
	records   []domain.EventRecord
	pending   map[int]bool
}

func (f *fakeBuffer) HasPendingDegreeProgram(_ context.Context, id domain.DegreeProgramID) (bool, error) {
	return f.pending[id.Int()], nil
}

func (f *fakeBuffer) BufferDegreeProgram(_ context.Context, snapshot domain.Snapshot, records []domain.EventRecord) error {
	f.snapshots = append(f.snapshots, snapshot)
	f.records = append(f.records, records...)
	return nil
}

type validatorFunc func(domain.DegreeProgramData) []string

func (f validatorFunc) ValidateDraft(data domain.DegreeProgramData) []string   { return f(data) }
func (f validatorFunc) ValidatePublish(data domain.DegreeProgramData) []string { return f(data) }

type identitySanitizer struct{}

func (identitySanitizer) SanitizeContentField(content string) string { return content }

func newUseCase(programs *memoryPrograms, buffer usecase.OperationBuffer, events *[]domain.Event) *UseCase {
	dispatcher := usecase.NewEventDispatcher(nil)
	dispatcher.SubscribeAll(func(_ context.Context, event domain.Event) error {
		*events = append(*events, event)
		return nil
	})
	return New(Dependencies{
		Programs:  programs,
		Validator: validatorFunc(func(domain.DegreeProgramData) []string { return nil }),
		Sanitizer: identitySanitizer{},
		Events:    dispatcher,
		Buffer:    buffer,
	}, nil)
}

func TestUpdateDraftSavesAndDispatches(t *testing.T) {
	programs := &memoryPrograms{data: map[int]domain.DegreeProgramData{
		7: {ID: 7, Combinations: domain.DegreeProgramIDs{8}},
	}}
	var events []domain.Event
	uc := newUseCase(programs, nil, &events)

	updated, err := uc.UpdateDraft(context.Background(), domain.DegreeProgramData{
		ID:           7,
		Title:        domain.NewBilingualString("post_meta:title:7", "Informatik", "Computer Science"),
		Combinations: domain.DegreeProgramIDs{9},
	})
	if err != nil {
		t.Fatalf("UpdateDraft: %v", err)
	}
	if updated.Title.EN != "Computer Science" {
		t.Fatalf("unexpected result %+v", updated.Title)
	}
	if len(programs.saved) != 1 {
		t.Fatalf("expected one save, got %d", len(programs.saved))
	}
	cs := programs.saved[0].CombinationsChangeset
	if len(cs.Added()) != 1 || cs.Added()[0] != 9 || len(cs.Removed()) != 1 || cs.Removed()[0] != 8 {
		t.Fatalf("unexpected changeset added=%v removed=%v", cs.Added(), cs.Removed())
	}

	if len(events) != 2 {
		t.Fatalf("expected update and relations events, got %#v", events)
	}
	if events[0] != (domain.DegreeProgramUpdated{ID: 7}) {
		t.Fatalf("unexpected first event %#v", events[0])
	}
	relations, ok := events[1].(domain.RelationsChanged)
	if !ok || len(relations.IDs) != 2 {
		t.Fatalf("unexpected relations event %#v", events[1])
	}
}

func TestUpdateDraftErrors(t *testing.T) {
	programs := &memoryPrograms{data: map[int]domain.DegreeProgramData{7: {ID: 7}}}
	var events []domain.Event
	uc := newUseCase(programs, nil, &events)

	if _, err := uc.UpdateDraft(context.Background(), domain.DegreeProgramData{ID: 8}); !errors.Is(err, domain.ErrDegreeProgramNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := uc.Publish(context.Background(), domain.DegreeProgramData{ID: -1}); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Fatalf("expected invalid id, got %v", err)
	}

	uc.validator = validatorFunc(func(domain.DegreeProgramData) []string { return []string{"title: required"} })
	_, err := uc.Publish(context.Background(), domain.DegreeProgramData{ID: 7})
	if !errors.Is(err, domain.ErrInvalidInput) || len(domain.Violations(err)) != 1 {
		t.Fatalf("expected violations, got %v", err)
	}
	if len(programs.saved) != 0 || len(events) != 0 {
		t.Fatal("failed updates must neither save nor dispatch")
	}
}

func TestUpdateDraftBuffersWhenSaveFails(t *testing.T) {
	programs := &memoryPrograms{
		data:    map[int]domain.DegreeProgramData{7: {ID: 7}},
		saveErr: errors.New("connection refused"),
	}
	buffer := &fakeBuffer{}
	var events []domain.Event
	uc := newUseCase(programs, buffer, &events)

	if _, err := uc.UpdateDraft(context.Background(), domain.DegreeProgramData{ID: 7}); err != nil {
		t.Fatalf("buffered save must succeed, got %v", err)
	}
	if len(buffer.snapshots) != 1 || len(buffer.records) != 1 || buffer.records[0].Name != domain.EventDegreeProgramUpdated {
		t.Fatalf("unexpected buffer content %+v", buffer)
	}
	if len(events) != 0 {
		t.Fatalf("buffered save must not dispatch refresh events, got %#v", events)
	}

	programs.saveErr = errors.New("still down")
	uc.buffer = nil
	if _, err := uc.UpdateDraft(context.Background(), domain.DegreeProgramData{ID: 7}); err == nil {
		t.Fatal("expected save error without buffer")
	}
}

func TestUpdateDraftQueuesBehindPendingSaves(t *testing.T) {
	programs := &memoryPrograms{data: map[int]domain.DegreeProgramData{
		7: {ID: 7, Combinations: domain.DegreeProgramIDs{}},
		8: {ID: 8},
	}}
	buffer := &fakeBuffer{pending: map[int]bool{7: true}}
	var events []domain.Event
	uc := newUseCase(programs, buffer, &events)

	if _, err := uc.UpdateDraft(context.Background(), domain.DegreeProgramData{ID: 7, Combinations: domain.DegreeProgramIDs{11}}); err != nil {
		t.Fatalf("UpdateDraft: %v", err)
	}
	if len(programs.saved) != 0 {
		t.Fatalf("save must not overtake buffered saves, stored %+v", programs.saved)
	}
	if len(buffer.snapshots) != 1 || buffer.snapshots[0].ID != 7 {
		t.Fatalf("expected save to be buffered, got %+v", buffer.snapshots)
	}
	if len(events) != 0 {
		t.Fatalf("unexpected events %#v", events)
	}

	if _, err := uc.UpdateDraft(context.Background(), domain.DegreeProgramData{ID: 8}); err != nil {
		t.Fatalf("UpdateDraft: %v", err)
	}
	if len(programs.saved) != 1 || programs.saved[0].ID != 8 {
		t.Fatalf("programs without pending saves are written directly, got %+v", programs.saved)
	}
}

type memorySharedLinks struct {
	links map[string]domain.BilingualLink
}

func (m *memorySharedLinks) SharedLinks(context.Context) (map[string]domain.BilingualLink, error) {
	return m.links, nil
}

func (m *memorySharedLinks) SaveSharedLink(_ context.Context, key string, link domain.BilingualLink) error {
	m.links[key] = link
	return nil
}

func TestUpdateSharedLink(t *testing.T) {
	var events []domain.Event
	uc := newUseCase(&memoryPrograms{data: map[int]domain.DegreeProgramData{}}, nil, &events)
	links := &memorySharedLinks{links: map[string]domain.BilingualLink{}}
	uc.sharedLinks = links

	link := domain.NewBilingualLink("", domain.NewBilingualString("", "Studienberatung", "Student advice"),
		domain.EmptyBilingualString(), domain.NewBilingualString("", "https://www.fau.de/beratung", "https://www.fau.eu/advice"))

	saved, err := uc.UpdateSharedLink(context.Background(), "student_advice", link)
	if err != nil {
		t.Fatalf("UpdateSharedLink: %v", err)
	}
	if saved.ID != "option:fau_student_advice" || links.links["student_advice"].ID != saved.ID {
		t.Fatalf("unexpected stored link %+v", links.links)
	}
	if len(events) != 1 || events[0] != (domain.SharedLinkUpdated{Key: "student_advice"}) {
		t.Fatalf("unexpected events %#v", events)
	}

	if _, err := uc.UpdateSharedLink(context.Background(), "apply_now_link", link); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for unknown key, got %v", err)
	}
}
