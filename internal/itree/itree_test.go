package itree

import (
	"sort"
	"testing"

	"github.com/bio-sv/svquery/internal/coord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryEmpty(t *testing.T) {
	var tr Tree
	tr.Index()
	assert.Empty(t, tr.Query(coord.Range{0, 100}))
}

func TestQueryFindsOverlaps(t *testing.T) {
	var tr Tree
	tr.Insert(coord.Range{100, 200}, 0)
	tr.Insert(coord.Range{150, 250}, 1)
	tr.Insert(coord.Range{500, 600}, 2)
	tr.Insert(coord.Range{0, 50}, 3)
	tr.Index()
	require.Equal(t, 4, tr.Len())

	got := tr.Query(coord.Range{160, 170})
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	assert.Equal(t, []uint32{0, 1}, got)

	assert.Empty(t, tr.Query(coord.Range{300, 400}))
	assert.ElementsMatch(t, []uint32{3}, tr.Query(coord.Range{0, 1}))
}

func TestQueryManyIntervals(t *testing.T) {
	var tr Tree
	for i := 0; i < 500; i++ {
		start := coord.Pos(i * 10)
		tr.Insert(coord.Range{start, start + 5}, uint32(i))
	}
	tr.Index()
	got := tr.Query(coord.Range{4993, 4998})
	assert.ElementsMatch(t, []uint32{499}, got)
}

func TestInsertAfterIndexPanics(t *testing.T) {
	var tr Tree
	tr.Index()
	assert.Panics(t, func() { tr.Insert(coord.Range{0, 1}, 0) })
}
