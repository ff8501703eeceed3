package tadset

import (
	"testing"

	"github.com/bio-sv/svquery/internal/chrom"
	"github.com/bio-sv/svquery/internal/coord"
	"github.com/bio-sv/svquery/internal/itree"
	"github.com/bio-sv/svquery/internal/svrecord"
	"github.com/bio-sv/svquery/internal/svtype"
	"github.com/biogo/store/llrb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(chromNo int, tads []coord.Range) *DB {
	db := &DB{
		tads:              make([][]coord.Range, chrom.N),
		tadTrees:          make([]itree.Tree, chrom.N),
		boundaryPositions: make([][]coord.Pos, chrom.N),
		boundTrees:        make([]itree.Tree, chrom.N),
	}
	ordered := &llrb.Tree{}
	for i, r := range tads {
		db.tads[chromNo] = append(db.tads[chromNo], r)
		db.tadTrees[chromNo].Insert(r, uint32(i))
		ordered.Insert(boundaryKey(r.Start))
		ordered.Insert(boundaryKey(r.End))
	}
	var idx uint32
	ordered.Do(func(c llrb.Comparable) bool {
		pos := coord.Pos(c.(boundaryKey))
		db.boundaryPositions[chromNo] = append(db.boundaryPositions[chromNo], pos)
		db.boundTrees[chromNo].Insert(coord.Range{Start: pos, End: pos + 1}, idx)
		idx++
		return false
	})
	db.tadTrees[chromNo].Index()
	db.boundTrees[chromNo].Index()
	return db
}

func TestOverlappingTADsFindsContaining(t *testing.T) {
	db := newTestDB(0, []coord.Range{{Start: 1000, End: 2000}, {Start: 2000, End: 3000}})
	sv := &svrecord.Record{Chrom: "1", Pos: 1500, End: 1600, SVType: svtype.DEL}
	tads, err := db.OverlappingTADs(sv, 50, 50)
	require.NoError(t, err)
	assert.Len(t, tads, 1)
	assert.Equal(t, coord.Range{Start: 1000, End: 2000}, tads[0])
}

func TestBoundaryDistExactHitIsZero(t *testing.T) {
	db := newTestDB(0, []coord.Range{{Start: 1000, End: 2000}})
	sv := &svrecord.Record{Chrom: "1", Pos: 1000, End: 1000, SVType: svtype.INS, SubType: "INS"}
	d, ok := db.BoundaryDist(sv, 1000)
	require.True(t, ok)
	assert.Equal(t, coord.Pos(0), d)
}

func TestBoundaryDistNearestWins(t *testing.T) {
	db := newTestDB(0, []coord.Range{{Start: 1000, End: 2000}, {Start: 2000, End: 5000}})
	sv := &svrecord.Record{Chrom: "1", Pos: 1980, End: 1990, SVType: svtype.DEL}
	d, ok := db.BoundaryDist(sv, 1000)
	require.True(t, ok)
	assert.Equal(t, coord.Pos(10), d)
}

func TestBoundaryDistOutOfRange(t *testing.T) {
	db := newTestDB(0, []coord.Range{{Start: 1000, End: 2000}})
	sv := &svrecord.Record{Chrom: "1", Pos: 500, End: 600, SVType: svtype.DEL}
	_, ok := db.BoundaryDist(sv, 50)
	assert.False(t, ok)
}

func TestBoundaryDistBNDUsesBothChroms(t *testing.T) {
	db := newTestDB(0, []coord.Range{{Start: 1000, End: 2000}})
	db1 := newTestDB(1, []coord.Range{{Start: 5000, End: 6000}})
	db.tads[1] = db1.tads[1]
	db.tadTrees[1] = db1.tadTrees[1]
	db.boundaryPositions[1] = db1.boundaryPositions[1]
	db.boundTrees[1] = db1.boundTrees[1]

	sv := &svrecord.Record{Chrom: "1", Pos: 1000, Chrom2: "2", End: 6000, SVType: svtype.BND}
	d, ok := db.BoundaryDist(sv, 20)
	require.True(t, ok)
	assert.Equal(t, coord.Pos(0), d)
}
