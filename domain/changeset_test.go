package domain

import (
	"encoding/json"
	"reflect"
	"slices"
	"testing"
)

func TestIntegersListChangeset(t *testing.T) {
	tests := []struct {
		name        string
		original    []int
		current     []int
		wantAdded   []int
		wantRemoved []int
	}{
		{name: "both empty", original: nil, current: nil, wantAdded: []int{}, wantRemoved: []int{}},
		{name: "identical", original: []int{3, 1, 2}, current: []int{1, 2, 3}, wantAdded: []int{}, wantRemoved: []int{}},
		{name: "disjoint", original: []int{1, 2}, current: []int{3, 4}, wantAdded: []int{3, 4}, wantRemoved: []int{1, 2}},
		{name: "overlap", original: []int{1, 2, 3}, current: []int{2, 3, 5}, wantAdded: []int{5}, wantRemoved: []int{1}},
		{name: "from empty", original: []int{}, current: []int{9, 7}, wantAdded: []int{7, 9}, wantRemoved: []int{}},
		{name: "to empty", original: []int{4}, current: nil, wantAdded: []int{}, wantRemoved: []int{4}},
		{name: "duplicates collapse", original: []int{1, 1}, current: []int{2, 2, 1}, wantAdded: []int{2}, wantRemoved: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := NewIntegersListChangeset(tt.original).ApplyChanges(tt.current)
			added, removed := cs.Added(), cs.Removed()
			if !reflect.DeepEqual(added, tt.wantAdded) {
				t.Fatalf("Added() = %v, want %v", added, tt.wantAdded)
			}
			if !reflect.DeepEqual(removed, tt.wantRemoved) {
				t.Fatalf("Removed() = %v, want %v", removed, tt.wantRemoved)
			}
			for _, id := range added {
				if slices.Contains(removed, id) {
					t.Fatalf("id %d both added and removed", id)
				}
			}

			// original - removed + added == current
			rebuilt := slices.DeleteFunc(cs.Original(), func(id int) bool { return slices.Contains(removed, id) })
			rebuilt = append(rebuilt, added...)
			slices.Sort(rebuilt)
			if !slices.Equal(rebuilt, cs.Current()) {
				t.Fatalf("rebuilt %v, current %v", rebuilt, cs.Current())
			}
		})
	}
}

func TestIntegersListChangesetIsImmutable(t *testing.T) {
	base := NewIntegersListChangeset([]int{1, 2})
	next := base.ApplyChanges([]int{2, 3})

	if !base.IsEmpty() {
		t.Fatalf("base changeset changed: added=%v removed=%v", base.Added(), base.Removed())
	}
	if next.IsEmpty() {
		t.Fatal("expected changes on the new changeset")
	}
	if !reflect.DeepEqual(next.Original(), []int{1, 2}) {
		t.Fatalf("original must be kept, got %v", next.Original())
	}
}

func TestIntegersListChangesetJSON(t *testing.T) {
	cs := NewIntegersListChangeset([]int{1, 2}).ApplyChanges([]int{2, 5})
	data, err := json.Marshal(cs)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var restored IntegersListChangeset
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(restored.Added(), []int{5}) || !reflect.DeepEqual(restored.Removed(), []int{1}) {
		t.Fatalf("unexpected changeset %s", data)
	}
}
