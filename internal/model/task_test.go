package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryMatches(t *testing.T) {
	task := Task{ID: 7, Title: "Buy milk", Completed: true}

	tests := []struct {
		name  string
		query Query
		want  bool
	}{
		{name: "zero query matches everything", query: Query{}, want: true},
		{name: "id equal", query: ByID(7), want: true},
		{name: "id differs", query: ByID(8), want: false},
		{name: "completed equal", query: ByCompleted(true), want: true},
		{name: "completed differs", query: ByCompleted(false), want: false},
		{name: "title equal", query: ByTitle("Buy milk"), want: true},
		{
			name:  "all fields must match",
			query: Query{ID: ByID(7).ID, Completed: ByCompleted(false).Completed},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.query.Matches(task))
		})
	}
}

func TestQueryFilterPreservesOrder(t *testing.T) {
	tasks := []Task{
		{ID: 1, Title: "a"},
		{ID: 2, Title: "b", Completed: true},
		{ID: 3, Title: "c"},
	}

	got := ByCompleted(false).Filter(tasks)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)
}

func TestFieldsApply(t *testing.T) {
	task := Task{ID: 1, Title: "old"}

	Fields{}.WithCompleted(true).Apply(&task)
	assert.Equal(t, "old", task.Title, "unset title must not change")
	assert.True(t, task.Completed)

	Fields{}.WithTitle("new").Apply(&task)
	assert.Equal(t, "new", task.Title)
	assert.True(t, task.Completed)
}

func TestCount(t *testing.T) {
	tasks := []Task{{ID: 1}, {ID: 2, Completed: true}, {ID: 3}}

	c := Count(tasks)
	assert.Equal(t, Counts{Active: 2, Completed: 1, Total: 3}, c)
	assert.Equal(t, c.Total, c.Active+c.Completed)
	assert.Equal(t, Counts{}, Count(nil))
}

func TestParseID(t *testing.T) {
	id, err := ParseID(" 1700000000000 ")
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000000), id)

	_, err = ParseID("abc")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestCloneDoesNotAlias(t *testing.T) {
	src := []Task{{ID: 1, Title: "a"}}
	cp := Clone(src)
	cp[0].Title = "changed"
	assert.Equal(t, "a", src[0].Title)
	assert.NotNil(t, Clone(nil))
}
