// Package convert implements the binary conversion stage: per-source TSV
// readers for the population background databases and a JSONL reader for
// the ClinVar structural-variant set, each emitting the uniform on-disk
// wire message their respective query-time package loads.
package convert

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/bio-sv/svquery/internal/chrom"
	"github.com/bio-sv/svquery/internal/errkind"
	"github.com/bio-sv/svquery/internal/svtype"
	"github.com/bio-sv/svquery/internal/wire"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/klauspost/compress/gzip"
)

// Source names one of the external background-database formats.
type Source string

const (
	DbVar           Source = "dbvar"
	Dgv             Source = "dgv"
	DgvGs           Source = "dgv_gs"
	Exac            Source = "exac"
	ThousandGenomes Source = "g1k"
	GnomadSV2       Source = "gnomad_sv2"
	GnomadSV4       Source = "gnomad_sv4"
	GnomadCNV4      Source = "gnomad_cnv4"
)

// row is one header-indexed TSV record; missing columns read as "".
type row map[string]string

func (r row) str(col string) string { return r[col] }

func (r row) u32(col string) uint32 {
	v, _ := strconv.ParseUint(r[col], 10, 32)
	return uint32(v)
}

func (r row) i32(col string) int32 {
	v, _ := strconv.ParseInt(r[col], 10, 32)
	return int32(v)
}

// mapped is one successfully mapped background-database row, 0-based
// [begin, end).
type mapped struct {
	chrom   string
	begin   int32
	end     int32
	svType  svtype.Type
	count   uint32
}

// mapper converts one source row to a mapped record; ok=false means the
// row's type is unmapped and should be skipped with a warning.
type mapper func(r row) (m mapped, ok bool)

var mappers = map[Source]mapper{
	DbVar:           mapDbVar,
	Dgv:             mapDgv,
	DgvGs:           mapDgvGs,
	Exac:            mapExac,
	ThousandGenomes: mapG1k,
	GnomadSV2:       mapGnomadSV2,
	GnomadSV4:       mapGnomadSV4,
	GnomadCNV4:      mapGnomadCNV4,
}

func mapDbVar(r row) (mapped, bool) {
	family := strings.SplitN(r.str("sv_type"), ";", 2)[0]
	var t svtype.Type
	switch family {
	case "alu_insertion", "herv_insertion", "insertion", "line1_insertion",
		"mobile_element_insertion", "novel_sequence_insertion", "sva_insertion":
		t = svtype.INS
	case "copy_number_gain", "duplication", "tandem_duplication":
		t = svtype.DUP
	case "alu_deletion", "copy_number_loss", "deletion", "herv_deletion",
		"line1_deletion", "sva_deletion":
		t = svtype.DEL
	case "copy_number_variation":
		t = svtype.CNV
	default:
		return mapped{}, false
	}
	return mapped{chrom: r.str("chromosome"), begin: r.i32("begin"), end: r.i32("end"), svType: t, count: 1}, true
}

func mapDgv(r row) (mapped, bool) {
	var t svtype.Type
	switch r.str("sv_type") {
	case "alu deletion", "deletion", "herv deletion", "line1 deletion",
		"mobile element deletion", "loss", "sva deletion":
		t = svtype.DEL
	case "alu insertion", "herv insertion", "insertion", "line1 insertion",
		"mobile element insertion", "novel sequence insertion", "sva insertion":
		t = svtype.INS
	case "duplication", "gain", "tandem duplication":
		t = svtype.DUP
	case "gain+loss", "CNV":
		t = svtype.CNV
	case "inversion":
		t = svtype.INV
	case "sequence alteration", "complex", "OTHER":
		return mapped{}, false
	default:
		return mapped{}, false
	}
	count := r.u32("observed_gains") + r.u32("observed_losses")
	return mapped{chrom: r.str("chromosome"), begin: r.i32("begin"), end: r.i32("end"), svType: t, count: count}, true
}

func mapDgvGs(r row) (mapped, bool) {
	var t svtype.Type
	switch r.str("sv_sub_type") {
	case "Gain":
		t = svtype.DUP
	case "Loss":
		t = svtype.DEL
	default:
		return mapped{}, false
	}
	return mapped{chrom: r.str("chromosome"), begin: r.i32("begin_outer"), end: r.i32("end_outer"), svType: t, count: r.u32("num_carriers")}, true
}

func mapExac(r row) (mapped, bool) {
	var t svtype.Type
	switch r.str("sv_type") {
	case "DUP":
		t = svtype.DUP
	case "DEL":
		t = svtype.DEL
	default:
		return mapped{}, false
	}
	return mapped{chrom: r.str("chromosome"), begin: r.i32("begin"), end: r.i32("end"), svType: t, count: 1}, true
}

func mapG1k(r row) (mapped, bool) {
	var t svtype.Type
	switch r.str("sv_type") {
	case "CN0", "CNV":
		t = svtype.CNV
	case "DEL", "DEL_ALU", "DEL_HERV", "DEL_LINE1", "DEL_SVA":
		t = svtype.DEL
	case "DUP":
		t = svtype.DUP
	case "INV":
		t = svtype.INV
	case "INS", "INS:ME:ALU", "INS:ME:LINE1", "INS:ME:SVA":
		t = svtype.INS
	default:
		return mapped{}, false
	}
	count := r.u32("n_homalt") + r.u32("n_het")
	return mapped{chrom: r.str("chromosome"), begin: r.i32("begin"), end: r.i32("end"), svType: t, count: count}, true
}

func mapGnomadSV2(r row) (mapped, bool) {
	var t svtype.Type
	switch r.str("svtype") {
	case "CPX":
		return mapped{}, false
	case "CTX", "BND":
		t = svtype.BND
	case "DEL":
		t = svtype.DEL
	case "DUP":
		t = svtype.DUP
	case "INS":
		t = svtype.INS
	case "INV":
		t = svtype.INV
	case "MCNV":
		t = svtype.CNV
	default:
		return mapped{}, false
	}
	count := r.u32("n_homalt") + r.u32("n_het")
	return mapped{chrom: r.str("chromosome"), begin: r.i32("begin") - 1, end: r.i32("end"), svType: t, count: count}, true
}

func mapGnomadSV4(r row) (mapped, bool) {
	var t svtype.Type
	switch r.str("svtype") {
	case "BND":
		t = svtype.BND
	case "CNV":
		t = svtype.CNV
	case "DEL":
		t = svtype.DEL
	case "DUP":
		t = svtype.DUP
	case "INS":
		t = svtype.INS
	case "INV":
		t = svtype.INV
	default:
		return mapped{}, false
	}
	count := r.u32("male_n_het") + r.u32("male_n_homalt") + r.u32("male_n_hemialt") +
		r.u32("female_n_het") + r.u32("female_n_homalt") + r.u32("cnv_n_var")
	return mapped{chrom: r.str("chromosome"), begin: r.i32("begin"), end: r.i32("end"), svType: t, count: count}, true
}

func mapGnomadCNV4(r row) (mapped, bool) {
	var t svtype.Type
	switch r.str("svtype") {
	case "DEL":
		t = svtype.DEL
	case "DUP":
		t = svtype.DUP
	default:
		return mapped{}, false
	}
	return mapped{chrom: r.str("chromosome"), begin: r.i32("begin"), end: r.i32("end"), svType: t, count: r.u32("n_var")}, true
}

// Background reads one background-database TSV file (optionally gzipped)
// from inPath, maps every row per src's schema, and writes the resulting
// BackgroundDbMessage to outPath. Rows on an unmapped chromosome or
// unmapped type are skipped with a warning.
func Background(src Source, inPath, outPath string) error {
	m, ok := mappers[src]
	if !ok {
		return errkind.E(errkind.Config, "convert: unknown background source", string(src))
	}
	rows, closeFn, err := openTSV(inPath)
	if err != nil {
		return err
	}
	defer closeFn()

	var msg wire.BackgroundDbMessage
	for rows.next() {
		r := rows.row()
		rec, ok := m(r)
		if !ok {
			log.Info.Printf("convert: skipping unmapped sv_type in %s: %v", inPath, r)
			continue
		}
		chromNo, err := chrom.Index(rec.chrom)
		if err != nil {
			log.Info.Printf("convert: skipping unmapped chromosome in %s: %s", inPath, rec.chrom)
			continue
		}
		msg.Records = append(msg.Records, &wire.BackgroundDbRecord{
			ChromNo: uint32(chromNo),
			Start:   rec.begin + 1, // 0-based input -> 1-based on-disk start
			Stop:    rec.end,
			SvType:  uint32(rec.svType),
			Count:   rec.count,
		})
	}
	if err := rows.err(); err != nil {
		return err
	}
	return wire.WriteMessageFile(outPath, &msg)
}

// tsvReader is a header-indexed tab-separated reader: the first
// non-comment line names the columns, and every subsequent line is
// returned as a row keyed by those names, order-independent (matching the
// serde-by-field-name deserialization the original ingestion used).
type tsvReader struct {
	sc      *bufio.Scanner
	header  []string
	current row
	lastErr error
}

func openTSV(path string) (*tsvReader, func(), error) {
	ctx := vcontext.Background()
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, nil, errkind.E(errkind.IO, err, "convert: open", path)
	}
	var r io.Reader = f.Reader(ctx)
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			f.Close(ctx)
			return nil, nil, errkind.E(errkind.IO, err, "convert: gzip", path)
		}
		r = gz
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	t := &tsvReader{sc: sc}
	for t.sc.Scan() {
		line := t.sc.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		t.header = strings.Split(line, "\t")
		break
	}
	return t, func() { f.Close(ctx) }, nil
}

func (t *tsvReader) next() bool {
	if !t.sc.Scan() {
		t.lastErr = t.sc.Err()
		return false
	}
	fields := strings.Split(t.sc.Text(), "\t")
	r := make(row, len(t.header))
	for i, h := range t.header {
		if i < len(fields) {
			r[h] = fields[i]
		}
	}
	t.current = r
	return true
}

func (t *tsvReader) row() row   { return t.current }
func (t *tsvReader) err() error { return t.lastErr }
