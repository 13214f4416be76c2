package view

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/researchqueue/researchqueue-server/internal/domain"
)

var base = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func item(id, title string, minutes int, boards ...string) domain.ResearchItem {
	return domain.ResearchItem{
		ID:        id,
		Type:      domain.ItemTypeWebsite,
		Title:     title,
		URL:       "https://example.com/" + id,
		CreatedAt: base.Add(time.Duration(minutes) * time.Minute),
		BoardIDs:  boards,
	}
}

func fixture() []domain.Board {
	shared := item("shared", "Attention Is All You Need", 5, "ml", "reading")
	return []domain.Board{
		{ID: "ml", Name: "ML", Items: []domain.ResearchItem{
			item("a", "Backprop notes", 1, "ml"),
			shared,
		}},
		{ID: "reading", Name: "Reading", Items: []domain.ResearchItem{
			shared.Clone(),
			item("b", "Straße der Bäume", 3, "reading"),
		}},
	}
}

func ids(items []domain.ResearchItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestAllItems_Deduplicates(t *testing.T) {
	got := slices.Collect(AllItems(fixture()))

	assert.Equal(t, []string{"a", "shared", "b"}, ids(got))
	assert.Equal(t, []string{"ml", "reading"}, got[1].BoardIDs)
}

func TestAllItems_Restartable(t *testing.T) {
	seq := AllItems(fixture())
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	assert.Equal(t, first, second)
}

func TestAllItems_StopsEarly(t *testing.T) {
	n := 0
	for range AllItems(fixture()) {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestAllItems_DoesNotAlias(t *testing.T) {
	boards := fixture()
	for it := range AllItems(boards) {
		it.BoardIDs[0] = "mutated"
	}
	assert.Equal(t, "ml", boards[0].Items[0].BoardIDs[0])
}

func TestFilteredItems(t *testing.T) {
	boards := fixture()

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"no filter newest first", Filter{}, []string{"shared", "b", "a"}},
		{"board filter", Filter{BoardID: "ml"}, []string{"shared", "a"}},
		{"other board", Filter{BoardID: "reading"}, []string{"shared", "b"}},
		{"unknown board", Filter{BoardID: "nope"}, []string{}},
		{"case insensitive title", Filter{Query: "ATTENTION"}, []string{"shared"}},
		{"unicode folding", Filter{Query: "STRASSE"}, []string{"b"}},
		{"matches url", Filter{Query: "example.com/a"}, []string{"a"}},
		{"board and query", Filter{BoardID: "ml", Query: "notes"}, []string{"a"}},
		{"empty query ignored", Filter{Query: ""}, []string{"shared", "b", "a"}},
		{"whitespace is part of the query", Filter{Query: "   "}, []string{}},
		{"no match", Filter{Query: "quantum"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilteredItems(boards, tt.filter)))
		})
	}
}

func TestFilteredItems_QueryIsNotTrimmed(t *testing.T) {
	boards := []domain.Board{{ID: "lang", Items: []domain.ResearchItem{
		item("own", "Rust Ownership", 2, "lang"),
		item("crab", "Rustacean", 1, "lang"),
	}}}

	assert.Equal(t, []string{"own"}, ids(FilteredItems(boards, Filter{Query: "rust "})))
	assert.Equal(t, []string{"own", "crab"}, ids(FilteredItems(boards, Filter{Query: "rust"})))
}

func TestFilteredItems_BoardFilterExact(t *testing.T) {
	boards := fixture()
	for _, it := range FilteredItems(boards, Filter{BoardID: "reading"}) {
		assert.Contains(t, it.BoardIDs, "reading")
	}
	for it := range AllItems(boards) {
		if slices.Contains(it.BoardIDs, "reading") {
			assert.Contains(t, ids(FilteredItems(boards, Filter{BoardID: "reading"})), it.ID)
		}
	}
}

func TestFilteredItems_StableForEqualTimes(t *testing.T) {
	boards := []domain.Board{{ID: "x", Items: []domain.ResearchItem{
		item("first", "t", 0, "x"),
		item("second", "t", 0, "x"),
		item("third", "t", 0, "x"),
	}}}
	assert.Equal(t, []string{"first", "second", "third"}, ids(FilteredItems(boards, Filter{})))
}

func TestFilteredItems_Empty(t *testing.T) {
	got := FilteredItems(nil, Filter{})
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCountLabel(t *testing.T) {
	assert.Equal(t, "0 items", CountLabel(0))
	assert.Equal(t, "1 item", CountLabel(1))
	assert.Equal(t, "3 items", CountLabel(3))
}

func TestBoardNames(t *testing.T) {
	assert.Equal(t,
		[]string{"Reading", "Unknown Board", "ML"},
		BoardNames(fixture(), []string{"reading", "gone", "ml"}))
}
