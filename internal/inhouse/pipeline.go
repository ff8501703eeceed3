package inhouse

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bio-sv/svquery/internal/chrom"
	"github.com/bio-sv/svquery/internal/coord"
	"github.com/bio-sv/svquery/internal/errkind"
	"github.com/bio-sv/svquery/internal/pedigree"
	"github.com/bio-sv/svquery/internal/svrecord"
	"github.com/bio-sv/svquery/internal/svtype"
	"github.com/grailbio/base/log"
)

// Defaults for Step 2 clustering.
const (
	DefaultMinOverlap = 0.8
	DefaultSlack      = coord.Pos(50)
)

// Options tunes Step 2 clustering.
type Options struct {
	MinOverlap float32
	SlackBnd   coord.Pos
	SlackIns   coord.Pos
}

// DefaultOptions returns the pipeline's documented clustering defaults.
func DefaultOptions() Options {
	return Options{MinOverlap: DefaultMinOverlap, SlackBnd: DefaultSlack, SlackIns: DefaultSlack}
}

func bucketKey(chromLabel string, t svtype.Type) string {
	idx, err := chrom.Index(chromLabel)
	if err != nil {
		idx = -1
	}
	return fmt.Sprintf("%02d_%s", idx, t)
}

// RunPipeline runs the full split/cluster/merge pipeline over one run's
// per-case SV calls: Step 1 splits every call into a NormalizedRecord and
// appends it to a per-(chrom, sv_type) temp JSONL file; Step 2 reads each
// bucket back and clusters it; Step 3 emits one merged TSV, sorted first by
// bucket (chrom, sv_type) and then by (begin, end) within each bucket. The
// temp directory is owned by this call and removed on return, whether it
// succeeds or fails, so a failed run does not leak scratch space.
func RunPipeline(cases []CaseInput, opts Options, outPath string) (uint64, error) {
	tmpDir, err := os.MkdirTemp("", "svquery-inhouse-*")
	if err != nil {
		return 0, errkind.E(errkind.IO, err, "inhouse: create temp dir")
	}
	defer os.RemoveAll(tmpDir)

	buckets := make(map[string]bool)
	var inputTotal uint64
	for _, c := range cases {
		for _, sv := range c.Records {
			rec := Split(sv, c.Pedigree)
			inputTotal += uint64(rec.Carriers)
			key := bucketKey(rec.Chrom, rec.SVType)
			buckets[key] = true
			if err := appendBucket(tmpDir, key, rec); err != nil {
				return 0, err
			}
		}
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	f, err := os.Create(outPath)
	if err != nil {
		return 0, errkind.E(errkind.IO, err, "inhouse: create output", outPath)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	if _, err := fmt.Fprintln(w, tsvHeader()); err != nil {
		return 0, errkind.E(errkind.IO, err, "inhouse: write header")
	}

	var outputTotal uint64
	for _, key := range keys {
		records, err := readBucket(tmpDir, key)
		if err != nil {
			return 0, err
		}
		merged := Cluster(records, opts.MinOverlap, opts.SlackBnd, opts.SlackIns)
		for _, rec := range merged {
			outputTotal += uint64(rec.Carriers)
			if _, err := fmt.Fprintln(w, formatRow(rec)); err != nil {
				return 0, errkind.E(errkind.IO, err, "inhouse: write row")
			}
		}
		log.Info.Printf("inhouse: bucket %s: %d calls -> %d merged records", key, len(records), len(merged))
	}
	if err := w.Flush(); err != nil {
		return 0, errkind.E(errkind.IO, err, "inhouse: flush output")
	}
	if outputTotal != inputTotal {
		return outputTotal, errkind.E(errkind.Domain, "inhouse: carrier total mismatch after aggregation")
	}
	return outputTotal, nil
}

// CaseInput is one case's SV calls plus the pedigree needed to resolve
// sex-chromosome hemizygous carriers.
type CaseInput struct {
	Name     string
	Records  []*svrecord.Record
	Pedigree *pedigree.Pedigree
}

func bucketPath(tmpDir, key string) string {
	return filepath.Join(tmpDir, key+".jsonl")
}

func appendBucket(tmpDir, key string, rec NormalizedRecord) error {
	f, err := os.OpenFile(bucketPath(tmpDir, key), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return errkind.E(errkind.IO, err, "inhouse: open bucket", key)
	}
	defer f.Close()
	b, err := json.Marshal(rec)
	if err != nil {
		return errkind.E(errkind.Decode, err, "inhouse: encode record")
	}
	if _, err := f.Write(append(b, '\n')); err != nil {
		return errkind.E(errkind.IO, err, "inhouse: write bucket", key)
	}
	return nil
}

func readBucket(tmpDir, key string) ([]NormalizedRecord, error) {
	f, err := os.Open(bucketPath(tmpDir, key))
	if err != nil {
		return nil, errkind.E(errkind.IO, err, "inhouse: open bucket", key)
	}
	defer f.Close()
	var out []NormalizedRecord
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		var rec NormalizedRecord
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			return nil, errkind.E(errkind.Decode, err, "inhouse: decode bucket record", key)
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, errkind.E(errkind.IO, err, "inhouse: read bucket", key)
	}
	return out, nil
}

func tsvHeader() string {
	return "chromosome\tbegin\tchromosome2\tend\tpe_orientation\tsv_type\tcarriers\tcarriers_het\tcarriers_hom\tcarriers_hemi"
}

func formatRow(r NormalizedRecord) string {
	return fmt.Sprintf("%s\t%d\t%s\t%d\t%s\t%s\t%d\t%d\t%d\t%d",
		r.Chrom, r.Begin, r.Chrom2, r.End, r.PEOrientation, r.SVType,
		r.Carriers, r.CarriersHet, r.CarriersHom, r.CarriersHemi)
}
