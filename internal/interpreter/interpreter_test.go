package interpreter

import (
	"testing"

	"github.com/bio-sv/svquery/internal/callinfo"
	"github.com/bio-sv/svquery/internal/config"
	"github.com/bio-sv/svquery/internal/genotype"
	"github.com/bio-sv/svquery/internal/query"
	"github.com/bio-sv/svquery/internal/svrecord"
	"github.com/bio-sv/svquery/internal/svtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gtPtr(s string) *string { return &s }

func baseSV() *svrecord.Record {
	return &svrecord.Record{
		Chrom: "1", Pos: 1000, End: 2000, SVType: svtype.DEL,
		Calls: map[string]*callinfo.CallInfo{
			"index": {GenotypeStr: gtPtr("0/1")},
		},
	}
}

func TestEvaluatePassesWithDefaultsAndNoDatabases(t *testing.T) {
	q := query.Default()
	ip := New(&q, &config.Databases{})
	d, err := ip.Evaluate(baseSV())
	require.NoError(t, err)
	assert.True(t, d.Pass)
}

func TestEvaluateFailsSVTypeSelection(t *testing.T) {
	q := query.Default()
	q.SVTypeAllow = []svtype.Type{svtype.DUP}
	ip := New(&q, &config.Databases{})
	d, err := ip.Evaluate(baseSV())
	require.NoError(t, err)
	assert.False(t, d.Pass)
}

func TestEvaluateFailsSizeAboveMax(t *testing.T) {
	q := query.Default()
	max := int64(500)
	q.SizeMax = &max
	ip := New(&q, &config.Databases{})
	d, err := ip.Evaluate(baseSV())
	require.NoError(t, err)
	assert.False(t, d.Pass)
}

func TestEvaluateSizelessTypeIgnoresSizeBounds(t *testing.T) {
	q := query.Default()
	max := int64(1)
	q.SizeMax = &max
	sv := &svrecord.Record{
		Chrom: "1", Pos: 1000, End: 1000, SVType: svtype.INS,
		Calls: map[string]*callinfo.CallInfo{"index": {GenotypeStr: gtPtr("0/1")}},
	}
	ip := New(&q, &config.Databases{})
	d, err := ip.Evaluate(sv)
	require.NoError(t, err)
	assert.True(t, d.Pass)
}

func TestEvaluateRegionAllowlistRejectsOutsideRegion(t *testing.T) {
	q := query.Default()
	q.RegionAllow = []query.RegionEntry{{Chrom: "2", HasRange: true, Start: 1, End: 100}}
	ip := New(&q, &config.Databases{})
	d, err := ip.Evaluate(baseSV())
	require.NoError(t, err)
	assert.False(t, d.Pass)
}

func TestEvaluateRegionAllowlistAcceptsOverlappingRegion(t *testing.T) {
	q := query.Default()
	q.RegionAllow = []query.RegionEntry{{Chrom: "1", HasRange: true, Start: 900, End: 1500}}
	ip := New(&q, &config.Databases{})
	d, err := ip.Evaluate(baseSV())
	require.NoError(t, err)
	assert.True(t, d.Pass)
}

func TestEvaluateRejectsSampleNotInCallMap(t *testing.T) {
	q := query.Default()
	q.GenotypeChoice = map[string]query.GenotypeChoice{"missing-sample": query.Any}
	ip := New(&q, &config.Databases{})
	_, err := ip.Evaluate(baseSV())
	assert.Error(t, err)
}

func TestEvaluateQualityDropVariantFailsWholeVariant(t *testing.T) {
	q := query.Default()
	dp := uint32(2)
	q.Quality = map[string]query.QualitySettings{
		"index": {Thresholds: genotype.QualitySettings{MinDPHet: 50}, FailMode: query.DropVariant},
	}
	sv := baseSV()
	sv.Calls["index"].PairedEndCoverage = &dp
	ip := New(&q, &config.Databases{})
	d, err := ip.Evaluate(sv)
	require.NoError(t, err)
	assert.False(t, d.Pass)
}

func TestEvaluateQualityNoCallRecordsSampleButPasses(t *testing.T) {
	q := query.Default()
	dp := uint32(2)
	q.Quality = map[string]query.QualitySettings{
		"index": {Thresholds: genotype.QualitySettings{MinDPHet: 50}, FailMode: query.NoCall},
	}
	sv := baseSV()
	sv.Calls["index"].PairedEndCoverage = &dp
	ip := New(&q, &config.Databases{})
	d, err := ip.Evaluate(sv)
	require.NoError(t, err)
	assert.True(t, d.Pass)
	assert.Equal(t, []string{"index"}, d.NoCallSamples)
}

func TestEvaluateGeneAllowlistRejectsWithoutTranscriptDB(t *testing.T) {
	q := query.Default()
	q.GeneAllowlist = []string{"HGNC:1"}
	ip := New(&q, &config.Databases{})
	d, err := ip.Evaluate(baseSV())
	require.NoError(t, err)
	assert.False(t, d.Pass)
}
