package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetChanges(t *testing.T) {
	tests := []struct {
		name string
		old  map[string]any
		cur  map[string]any
		want *Changes
	}{
		{
			name: "title changed, order unchanged",
			old:  map[string]any{"title": "A", "order": 1},
			cur:  map[string]any{"title": "B", "order": 1},
			want: &Changes{
				Old: map[string]any{"title": "A"},
				New: map[string]any{"title": "B"},
			},
		},
		{
			name: "nil old is a create",
			old:  nil,
			cur:  map[string]any{"title": "B"},
			want: nil,
		},
		{
			name: "empty old is a create",
			old:  map[string]any{},
			cur:  map[string]any{"title": "B"},
			want: nil,
		},
		{
			name: "housekeeping keys ignored",
			old:  map[string]any{"id": 1, "createdAt": "2024-01-01", "updatedAt": "2024-01-01", "title": "A"},
			cur:  map[string]any{"id": 2, "createdAt": "2024-02-02", "updatedAt": "2024-02-02", "title": "A"},
			want: nil,
		},
		{
			name: "type strict",
			old:  map[string]any{"value": 0},
			cur:  map[string]any{"value": "0"},
			want: &Changes{
				Old: map[string]any{"value": 0},
				New: map[string]any{"value": "0"},
			},
		},
		{
			name: "nested maps compare by value",
			old:  map[string]any{"meta": map[string]any{"a": 1, "b": []any{"x", "y"}}},
			cur:  map[string]any{"meta": map[string]any{"b": []any{"x", "y"}, "a": 1}},
			want: nil,
		},
		{
			name: "nested slice order matters",
			old:  map[string]any{"options": []any{"x", "y"}},
			cur:  map[string]any{"options": []any{"y", "x"}},
			want: &Changes{
				Old: map[string]any{"options": []any{"x", "y"}},
				New: map[string]any{"options": []any{"y", "x"}},
			},
		},
		{
			name: "key added",
			old:  map[string]any{"title": "A"},
			cur:  map[string]any{"title": "A", "summary": "S"},
			want: &Changes{
				Old: map[string]any{},
				New: map[string]any{"summary": "S"},
			},
		},
		{
			name: "key removed",
			old:  map[string]any{"title": "A", "summary": "S"},
			cur:  map[string]any{"title": "A"},
			want: &Changes{
				Old: map[string]any{"summary": "S"},
				New: map[string]any{},
			},
		},
		{
			name: "nil value to value",
			old:  map[string]any{"endsAt": nil},
			cur:  map[string]any{"endsAt": "2024-05-01T10:00:00Z"},
			want: &Changes{
				Old: map[string]any{"endsAt": nil},
				New: map[string]any{"endsAt": "2024-05-01T10:00:00Z"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetChanges(tt.old, tt.cur))
		})
	}
}

func TestGetChanges_Identical(t *testing.T) {
	records := []map[string]any{
		{},
		{"title": "A"},
		{"id": 3, "nested": map[string]any{"list": []any{1.0, "two", nil}}},
	}

	for _, r := range records {
		assert.Nil(t, GetChanges(r, r))
	}
}

func TestGetChanges_DoesNotMutateInput(t *testing.T) {
	old := map[string]any{"title": "A", "id": 1}
	cur := map[string]any{"title": "B", "id": 2}

	_ = GetChanges(old, cur)

	assert.Equal(t, map[string]any{"title": "A", "id": 1}, old)
	assert.Equal(t, map[string]any{"title": "B", "id": 2}, cur)
}

type sample struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	Order     int       `json:"order"`
	Tags      []string  `json:"tags"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func TestSnapshotAndDiff(t *testing.T) {
	before := sample{ID: 1, Title: "A", Order: 1, Tags: []string{"x"}, UpdatedAt: time.Unix(1, 0)}
	after := before
	after.Title = "B"
	after.UpdatedAt = time.Unix(2, 0)

	snap, err := Snapshot(before)
	require.NoError(t, err)
	assert.Equal(t, "A", snap["title"])
	assert.InDelta(t, 1.0, snap["order"], 0)

	assert.Equal(t, &Changes{
		Old: map[string]any{"title": "A"},
		New: map[string]any{"title": "B"},
	}, Diff(snap, after))

	assert.Nil(t, Diff(snap, before))

	_, err = Snapshot(make(chan int))
	assert.Error(t, err)
	assert.Nil(t, Diff(snap, make(chan int)))
	assert.Nil(t, Diff(nil, after))
}
