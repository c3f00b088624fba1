package domain

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Event names.
const (
	EventDegreeProgramUpdated = "degree_program_updated"
	EventCacheInvalidated     = "degree_program_cache_invalidated"
	EventCacheWarmed          = "degree_program_cache_warmed"
	EventRelationsChanged     = "degree_program_relations_changed"
	EventSharedLinkUpdated    = "shared_link_updated"
)

// Event is implemented by everything published on the event dispatcher.
type Event interface {
	EventName() string
}

// DegreeProgramUpdated is recorded by the aggregate on every successful update.
type DegreeProgramUpdated struct {
	ID int `json:"id"`
}

func (DegreeProgramUpdated) EventName() string { return EventDegreeProgramUpdated }

// RelationsChanged names the programs whose views embed, or embedded, the
// program that was saved.
type RelationsChanged struct {
	ID  int   `json:"id"`
	IDs []int `json:"ids"`
}

// RelationsChangedFromSnapshot collects the original and current partners of both relationships.
func RelationsChangedFromSnapshot(snapshot Snapshot) RelationsChanged {
	var ids []int
	for _, cs := range []IntegersListChangeset{snapshot.CombinationsChangeset, snapshot.LimitedCombinationsChangeset} {
		ids = append(ids, cs.Original()...)
		ids = append(ids, cs.Current()...)
	}
	ids = slices.DeleteFunc(uniqueSorted(ids), func(id int) bool { return id == snapshot.ID })
	return RelationsChanged{ID: snapshot.ID, IDs: ids}
}

func (RelationsChanged) EventName() string { return EventRelationsChanged }

// SharedLinkUpdated is emitted when an organizational link used by every program changed.
type SharedLinkUpdated struct {
	Key string `json:"key"`
}

func (SharedLinkUpdated) EventName() string { return EventSharedLinkUpdated }

// CacheInvalidated is emitted when cached views were dropped.
type CacheInvalidated struct {
	Full bool  `json:"full"`
	IDs  []int `json:"ids"`
}

func CacheInvalidatedFull() CacheInvalidated { return CacheInvalidated{Full: true, IDs: []int{}} }
func CacheInvalidatedPartial(ids []int) CacheInvalidated { return CacheInvalidated{IDs: ids} }

func (CacheInvalidated) EventName() string { return EventCacheInvalidated }

// CacheWarmed is emitted after views were rebuilt into the cache.
type CacheWarmed struct {
	Fully bool  `json:"fully"`
	IDs   []int `json:"ids"`
}

func CacheWarmedFully() CacheWarmed { return CacheWarmed{Fully: true, IDs: []int{}} }
func CacheWarmedPartially(ids []int) CacheWarmed { return CacheWarmed{IDs: ids} }

func (CacheWarmed) EventName() string { return EventCacheWarmed }

// EventRecord is the persisted form of an event appended to the event log.
type EventRecord struct {
	ID              string          `json:"id"`
	DegreeProgramID int             `json:"degree_program_id"`
	Name            string          `json:"name"`
	Payload         json.RawMessage `json:"payload"`
	CreatedAt       time.Time       `json:"created_at"`
}

// NewEventRecord serializes an event for the event log.
func NewEventRecord(degreeProgramID int, event Event) (EventRecord, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return EventRecord{}, err
	}
	return EventRecord{
		ID:              uuid.NewString(),
		DegreeProgramID: degreeProgramID,
		Name:            event.EventName(),
		Payload:         payload,
		CreatedAt:       time.Now(),
	}, nil
}
