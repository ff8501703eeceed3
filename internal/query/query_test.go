package query

import (
	"testing"

	"github.com/bio-sv/svquery/internal/clinvarsv"
	"github.com/bio-sv/svquery/internal/svtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSONAppliesDefaultsToOmittedFields(t *testing.T) {
	q, err := ParseJSON([]byte(`{}`))
	require.NoError(t, err)

	assert.Empty(t, q.SVTypeAllow)
	assert.True(t, q.TranscriptsCoding)
	assert.True(t, q.TranscriptsNoncoding)
	assert.True(t, q.VarTypeSNV)
	assert.True(t, q.VarTypeIndel)
	assert.True(t, q.VarTypeMNV)
	assert.Equal(t, RecessiveOff, q.RecessiveMode)
	assert.Empty(t, q.Databases)
}

func TestParseJSONDecodesSVTypeAllowAsStrings(t *testing.T) {
	q, err := ParseJSON([]byte(`{"sv_type_allow": ["DEL", "DUP"]}`))
	require.NoError(t, err)
	assert.Equal(t, []svtype.Type{svtype.DEL, svtype.DUP}, q.SVTypeAllow)
}

func TestParseJSONDecodesRegionAllowRangePresence(t *testing.T) {
	q, err := ParseJSON([]byte(`{"region_allow": [{"chrom": "1"}, {"chrom": "2", "start": 1000, "end": 2000}]}`))
	require.NoError(t, err)
	require.Len(t, q.RegionAllow, 2)
	assert.False(t, q.RegionAllow[0].HasRange)
	assert.True(t, q.RegionAllow[1].HasRange)
	assert.Equal(t, int32(1000), q.RegionAllow[1].Start)
	assert.Equal(t, int32(2000), q.RegionAllow[1].End)
}

func TestParseJSONDecodesDatabaseTogglesAndClinvarPathogenicity(t *testing.T) {
	q, err := ParseJSON([]byte(`{
		"databases": {"gnomad_sv": {"enabled": true, "min_overlap": 0.8, "max_count": 5}},
		"clinvar": {"min_pathogenicity": "likely-pathogenic", "min_overlap": 0.5}
	}`))
	require.NoError(t, err)
	require.Contains(t, q.Databases, "gnomad_sv")
	assert.True(t, q.Databases["gnomad_sv"].Enabled)
	assert.Equal(t, float32(0.8), q.Databases["gnomad_sv"].MinOverlap)
	assert.Equal(t, uint32(5), q.Databases["gnomad_sv"].MaxCount)
	assert.Equal(t, clinvarsv.LikelyPathogenic, q.Clinvar.MinPathogenicity)
}

func TestParseJSONRejectsMalformedDocument(t *testing.T) {
	_, err := ParseJSON([]byte(`{not json`))
	assert.Error(t, err)
}

func TestValidateSampleNamesRejectsUnknownSample(t *testing.T) {
	q := Default()
	q.GenotypeChoice["proband"] = RecessiveIndex
	err := ValidateSampleNames(&q, map[string]bool{"mother": true})
	assert.Error(t, err)
}

func TestValidateSampleNamesAcceptsMatchingSamples(t *testing.T) {
	q := Default()
	q.GenotypeChoice["proband"] = Any
	q.Quality["proband"] = QualitySettings{FailMode: Ignore}
	err := ValidateSampleNames(&q, map[string]bool{"proband": true})
	assert.NoError(t, err)
}
