package domain

import (
	"encoding/json"
	"slices"
)

// IntegersListChangeset diffs two snapshots of an integer set.
// It is recomputed from full snapshots, never accumulated.
type IntegersListChangeset struct {
	original []int
	current  []int
}

// NewIntegersListChangeset starts a changeset whose current state equals original.
func NewIntegersListChangeset(original []int) IntegersListChangeset {
	set := uniqueSorted(original)
	return IntegersListChangeset{original: set, current: set}
}

// ApplyChanges returns a new changeset with the same original and the given current state.
func (c IntegersListChangeset) ApplyChanges(current []int) IntegersListChangeset {
	return IntegersListChangeset{original: c.original, current: uniqueSorted(current)}
}

// Added returns ids present in current but not in original, ascending.
func (c IntegersListChangeset) Added() []int {
	return difference(c.current, c.original)
}

// Removed returns ids present in original but not in current, ascending.
func (c IntegersListChangeset) Removed() []int {
	return difference(c.original, c.current)
}

func (c IntegersListChangeset) Original() []int { return slices.Clone(c.original) }
func (c IntegersListChangeset) Current() []int { return slices.Clone(c.current) }

func (c IntegersListChangeset) IsEmpty() bool {
	return len(c.Added()) == 0 && len(c.Removed()) == 0
}

type changesetJSON struct {
	Original []int `json:"original"`
	Current  []int `json:"current"`
}

func (c IntegersListChangeset) MarshalJSON() ([]byte, error) {
	return json.Marshal(changesetJSON{Original: c.Original(), Current: c.Current()})
}

func (c *IntegersListChangeset) UnmarshalJSON(data []byte) error {
	var raw changesetJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = NewIntegersListChangeset(raw.Original).ApplyChanges(raw.Current)
	return nil
}

func difference(a, b []int) []int {
	exclude := make(map[int]struct{}, len(b))
	for _, v := range b {
		exclude[v] = struct{}{}
	}
	out := []int{}
	for _, v := range a {
		if _, ok := exclude[v]; !ok {
			out = append(out, v)
		}
	}
	return out
}

func uniqueSorted(values []int) []int {
	out := slices.Clone(values)
	slices.Sort(out)
	return slices.Compact(out)
}
