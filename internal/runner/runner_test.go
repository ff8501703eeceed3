package runner

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/bio-sv/svquery/internal/callinfo"
	"github.com/bio-sv/svquery/internal/config"
	"github.com/bio-sv/svquery/internal/interpreter"
	"github.com/bio-sv/svquery/internal/query"
	"github.com/bio-sv/svquery/internal/svrecord"
	"github.com/bio-sv/svquery/internal/svtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceSource struct {
	records []*svrecord.Record
	i       int
}

func (s *sliceSource) Next() (*svrecord.Record, error) {
	if s.i >= len(s.records) {
		return nil, io.EOF
	}
	r := s.records[s.i]
	s.i++
	return r, nil
}

func gtPtr(s string) *string { return &s }

func TestRunEmitsPassingRowsInInputOrder(t *testing.T) {
	q := query.Default()
	ip := interpreter.New(&q, &config.Databases{})
	src := &sliceSource{records: []*svrecord.Record{
		{
			Chrom: "1", Pos: 1000, End: 2000, SVType: svtype.DEL, Callers: []string{"manta"},
			Calls: map[string]*callinfo.CallInfo{"index": {GenotypeStr: gtPtr("0/1")}},
		},
		{
			Chrom: "2", Pos: 5000, End: 6000, SVType: svtype.DUP,
			Calls: map[string]*callinfo.CallInfo{"index": {GenotypeStr: gtPtr("0/1")}},
		},
	}}
	var buf bytes.Buffer
	st, err := Run(src, ip, &config.Databases{}, "seed", &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Read)
	assert.Equal(t, 2, st.Passed)
	assert.Equal(t, 0, st.Skipped)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3) // header + 2 rows
	assert.Contains(t, lines[0], "sodar_uuid")
	assert.Contains(t, lines[1], "\t1\t")
	assert.Contains(t, lines[2], "\t2\t")
}

func TestRunSkipsFilteredVariants(t *testing.T) {
	q := query.Default()
	q.SVTypeAllow = []svtype.Type{svtype.DUP}
	ip := interpreter.New(&q, &config.Databases{})
	src := &sliceSource{records: []*svrecord.Record{
		{
			Chrom: "1", Pos: 1000, End: 2000, SVType: svtype.DEL,
			Calls: map[string]*callinfo.CallInfo{"index": {GenotypeStr: gtPtr("0/1")}},
		},
	}}
	var buf bytes.Buffer
	st, err := Run(src, ip, &config.Databases{}, "seed", &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Read)
	assert.Equal(t, 0, st.Passed)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 1) // header only
}

func TestRunContinuesPastPerVariantDomainError(t *testing.T) {
	q := query.Default()
	q.GenotypeChoice = map[string]query.GenotypeChoice{"missing-sample": query.Any}
	ip := interpreter.New(&q, &config.Databases{})
	src := &sliceSource{records: []*svrecord.Record{
		{
			Chrom: "1", Pos: 1000, End: 2000, SVType: svtype.DEL,
			Calls: map[string]*callinfo.CallInfo{"index": {GenotypeStr: gtPtr("0/1")}},
		},
		{
			Chrom: "1", Pos: 3000, End: 4000, SVType: svtype.DEL,
			Calls: map[string]*callinfo.CallInfo{"index": {GenotypeStr: gtPtr("0/1")}},
		},
	}}
	var buf bytes.Buffer
	st, err := Run(src, ip, &config.Databases{}, "seed", &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Read)
	assert.Equal(t, 2, st.Skipped)
	assert.Equal(t, 0, st.Passed)
}

func TestRunIsDeterministicAcrossRunsWithSameSeed(t *testing.T) {
	newSrc := func() *sliceSource {
		return &sliceSource{records: []*svrecord.Record{
			{
				Chrom: "1", Pos: 1000, End: 2000, SVType: svtype.DEL,
				Calls: map[string]*callinfo.CallInfo{"index": {GenotypeStr: gtPtr("0/1")}},
			},
		}}
	}
	q := query.Default()
	ip := interpreter.New(&q, &config.Databases{})

	var a, b bytes.Buffer
	_, err := Run(newSrc(), ip, &config.Databases{}, "fixed-seed", &a)
	require.NoError(t, err)
	_, err = Run(newSrc(), interpreter.New(&q, &config.Databases{}), &config.Databases{}, "fixed-seed", &b)
	require.NoError(t, err)
	assert.Equal(t, a.String(), b.String())
}
