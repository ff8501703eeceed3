package clinvarsv

import (
	"encoding/json"
	"testing"

	"github.com/bio-sv/svquery/internal/chrom"
	"github.com/bio-sv/svquery/internal/coord"
	"github.com/bio-sv/svquery/internal/itree"
	"github.com/bio-sv/svquery/internal/svrecord"
	"github.com/bio-sv/svquery/internal/svtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(records []Record) *DB {
	db := &DB{
		records: make([][]Record, chrom.N),
		trees:   make([]itree.Tree, chrom.N),
	}
	for _, r := range records {
		idx := len(db.records[r.ChromNo])
		db.records[r.ChromNo] = append(db.records[r.ChromNo], r)
		db.trees[r.ChromNo].Insert(r.Range, uint32(idx))
	}
	for i := range db.trees {
		db.trees[i].Index()
	}
	return db
}

func TestOverlappingRCVsFiltersPathogenicity(t *testing.T) {
	db := newTestDB([]Record{
		{ChromNo: 0, Range: coord.FromOneBased(1000, 2000), VariationType: Del, Pathogenicity: Pathogenic, RCV: 42},
		{ChromNo: 0, Range: coord.FromOneBased(1000, 2000), VariationType: Del, Pathogenicity: Benign, RCV: 43},
	})
	sv := &svrecord.Record{Chrom: "1", Pos: 1000, End: 2000, SVType: svtype.DEL}
	got, err := db.OverlappingRCVs(sv, LikelyPathogenic, 0.8)
	require.NoError(t, err)
	assert.Equal(t, []string{"RCV000000042"}, got)
}

func TestOverlappingRCVsFiltersOverlap(t *testing.T) {
	db := newTestDB([]Record{
		{ChromNo: 0, Range: coord.FromOneBased(1000, 2000), VariationType: Del, Pathogenicity: Pathogenic, RCV: 1},
	})
	sv := &svrecord.Record{Chrom: "1", Pos: 1000, End: 1050, SVType: svtype.DEL}
	got, err := db.OverlappingRCVs(sv, Benign, 0.8)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPathogenicityOrderingByRank(t *testing.T) {
	assert.True(t, Pathogenic > LikelyPathogenic)
	assert.True(t, LikelyPathogenic > Uncertain)
	assert.True(t, Uncertain > LikelyBenign)
	assert.True(t, LikelyBenign > Benign)
}

func TestPathogenicityJSONRoundTrip(t *testing.T) {
	for _, p := range []Pathogenicity{Benign, LikelyBenign, Uncertain, LikelyPathogenic, Pathogenic} {
		b, err := json.Marshal(p)
		require.NoError(t, err)
		var got Pathogenicity
		require.NoError(t, json.Unmarshal(b, &got))
		assert.Equal(t, p, got)
	}
}
