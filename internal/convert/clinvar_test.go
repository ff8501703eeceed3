package convert

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bio-sv/svquery/internal/clinvarsv"
	"github.com/bio-sv/svquery/internal/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSONL(t *testing.T, dir, name string, lines []string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	content := ""
	for i, l := range lines {
		if i > 0 {
			content += "\n"
		}
		content += l
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestClinvarUsesStartStopWhenPresent(t *testing.T) {
	dir := t.TempDir()
	in := writeJSONL(t, dir, "clinvar.jsonl", []string{
		`{"reference_clinvar_assertion":{"clinvar_accession":{"acc":"RCV000000123"},"clinical_significance":{"description":"pathogenic"},"measures":{"measures":[{"type":"deletion","sequence_locations":[{"assembly":"GRCh37","chr":"1","start":1000,"stop":2000}]}]}}}`,
	})
	out := filepath.Join(dir, "clinvar.bin")
	require.NoError(t, Clinvar(in, out, "GRCh37"))

	var msg wire.ClinvarSvMessage
	require.NoError(t, wire.ReadMessageFile(out, &msg))
	require.Len(t, msg.Records, 1)
	rec := msg.Records[0]
	assert.EqualValues(t, 1000, rec.Start)
	assert.EqualValues(t, 2000, rec.Stop)
	assert.EqualValues(t, clinvarsv.Del, rec.VariationType)
	assert.EqualValues(t, clinvarsv.Pathogenic, rec.Pathogenicity)
	assert.EqualValues(t, 123, rec.Rcv)
}

func TestClinvarFallsBackToInnerThenOuterThenVCF(t *testing.T) {
	dir := t.TempDir()
	in := writeJSONL(t, dir, "clinvar.jsonl", []string{
		`{"reference_clinvar_assertion":{"clinvar_accession":{"acc":"RCV000000001"},"clinical_significance":{"description":"benign"},"measures":{"measures":[{"type":"duplication","sequence_locations":[{"assembly":"GRCh37","chr":"2","inner_start":500,"inner_stop":600}]}]}}}`,
		`{"reference_clinvar_assertion":{"clinvar_accession":{"acc":"RCV000000002"},"clinical_significance":{"description":"benign"},"measures":{"measures":[{"type":"duplication","sequence_locations":[{"assembly":"GRCh37","chr":"2","outer_start":700,"outer_stop":800}]}]}}}`,
		`{"reference_clinvar_assertion":{"clinvar_accession":{"acc":"RCV000000003"},"clinical_significance":{"description":"benign"},"measures":{"measures":[{"type":"duplication","sequence_locations":[{"assembly":"GRCh37","chr":"2","position_vcf":900,"reference_allele_vcf":"ACGT"}]}]}}}`,
	})
	out := filepath.Join(dir, "clinvar.bin")
	require.NoError(t, Clinvar(in, out, "GRCh37"))

	var msg wire.ClinvarSvMessage
	require.NoError(t, wire.ReadMessageFile(out, &msg))
	require.Len(t, msg.Records, 3)
	assert.EqualValues(t, 500, msg.Records[0].Start)
	assert.EqualValues(t, 600, msg.Records[0].Stop)
	assert.EqualValues(t, 700, msg.Records[1].Start)
	assert.EqualValues(t, 800, msg.Records[1].Stop)
	assert.EqualValues(t, 900, msg.Records[2].Start)
	assert.EqualValues(t, 904, msg.Records[2].Stop)
}

func TestClinvarSkipsNonTargetAssembly(t *testing.T) {
	dir := t.TempDir()
	in := writeJSONL(t, dir, "clinvar.jsonl", []string{
		`{"reference_clinvar_assertion":{"clinvar_accession":{"acc":"RCV000000001"},"clinical_significance":{"description":"pathogenic"},"measures":{"measures":[{"type":"deletion","sequence_locations":[{"assembly":"GRCh38","chr":"1","start":1000,"stop":2000}]}]}}}`,
	})
	out := filepath.Join(dir, "clinvar.bin")
	require.NoError(t, Clinvar(in, out, "GRCh37"))

	var msg wire.ClinvarSvMessage
	require.NoError(t, wire.ReadMessageFile(out, &msg))
	assert.Empty(t, msg.Records)
}

func TestClinvarSkipsUnmappedMeasureType(t *testing.T) {
	dir := t.TempDir()
	in := writeJSONL(t, dir, "clinvar.jsonl", []string{
		`{"reference_clinvar_assertion":{"clinvar_accession":{"acc":"RCV000000001"},"clinical_significance":{"description":"pathogenic"},"measures":{"measures":[{"type":"single nucleotide variant","sequence_locations":[{"assembly":"GRCh37","chr":"1","start":1000,"stop":2000}]}]}}}`,
	})
	out := filepath.Join(dir, "clinvar.bin")
	require.NoError(t, Clinvar(in, out, "GRCh37"))

	var msg wire.ClinvarSvMessage
	require.NoError(t, wire.ReadMessageFile(out, &msg))
	assert.Empty(t, msg.Records)
}

func TestClinvarSkipsUnsupportedClinicalSignificance(t *testing.T) {
	dir := t.TempDir()
	in := writeJSONL(t, dir, "clinvar.jsonl", []string{
		`{"reference_clinvar_assertion":{"clinvar_accession":{"acc":"RCV000000001"},"clinical_significance":{"description":"drug response"},"measures":{"measures":[{"type":"deletion","sequence_locations":[{"assembly":"GRCh37","chr":"1","start":1000,"stop":2000}]}]}}}`,
	})
	out := filepath.Join(dir, "clinvar.bin")
	require.NoError(t, Clinvar(in, out, "GRCh37"))

	var msg wire.ClinvarSvMessage
	require.NoError(t, wire.ReadMessageFile(out, &msg))
	assert.Empty(t, msg.Records)
}
