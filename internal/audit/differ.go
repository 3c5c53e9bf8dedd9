package audit

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// excludedKeys are never part of a diff.
var excludedKeys = map[string]struct{}{ //nolint:gochecknoglobals
	"id":        {},
	"createdAt": {},
	"updatedAt": {},
}

// Changes holds the changed keys of an entity, before and after.
type Changes struct {
	Old map[string]any `json:"old"`
	New map[string]any `json:"new"`
}

// Snapshot flattens v into the map form its JSON encoding produces.
// Both sides of a diff must be taken with Snapshot so values compare in the
// same canonical representation.
func Snapshot(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}

	var out map[string]any
	if err = json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}

	return out, nil
}

// GetChanges returns the keys whose values differ between old and cur.
// It returns nil when old is empty or absent (create) or when nothing
// changed. A key present on one side only is reported with the side that has it.
func GetChanges(old, cur map[string]any) *Changes {
	if len(old) == 0 {
		return nil
	}

	changes := &Changes{
		Old: map[string]any{},
		New: map[string]any{},
	}

	for key, before := range old {
		if _, skip := excludedKeys[key]; skip {
			continue
		}

		after, ok := cur[key]
		if ok && reflect.DeepEqual(before, after) {
			continue
		}

		changes.Old[key] = before
		if ok {
			changes.New[key] = after
		}
	}

	for key, after := range cur {
		if _, skip := excludedKeys[key]; skip {
			continue
		}

		if _, ok := old[key]; !ok {
			changes.New[key] = after
		}
	}

	if len(changes.Old) == 0 && len(changes.New) == 0 {
		return nil
	}

	return changes
}

// Diff compares before, a Snapshot taken ahead of a mutation, with the
// current state of v. A snapshot error yields no diff.
func Diff(before map[string]any, v any) *Changes {
	cur, err := Snapshot(v)
	if err != nil {
		return nil
	}

	return GetChanges(before, cur)
}
