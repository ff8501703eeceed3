// Package tadset implements the TAD (topologically associating domain) set
// matcher: per-chromosome TAD intervals plus a derived, parallel boundary
// index, both queryable by interval tree.
package tadset

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/bio-sv/svquery/internal/chrom"
	"github.com/bio-sv/svquery/internal/coord"
	"github.com/bio-sv/svquery/internal/errkind"
	"github.com/bio-sv/svquery/internal/itree"
	"github.com/bio-sv/svquery/internal/overlap"
	"github.com/bio-sv/svquery/internal/svrecord"
	"github.com/biogo/store/llrb"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/vcontext"
)

// boundaryKey orders boundary positions for the auxiliary ordered index
// (github.com/biogo/store/llrb), used to deduplicate endpoints while the
// TSV is read in an arbitrary order.
type boundaryKey int32

func (k boundaryKey) Compare(c llrb.Comparable) int {
	return int(k) - int(c.(boundaryKey))
}

// DB is one named TAD set (e.g. "hESC"): per-chromosome TAD intervals and a
// derived, per-chromosome boundary index.
type DB struct {
	tads              [][]coord.Range
	tadTrees          []itree.Tree
	boundaryPositions [][]coord.Pos
	boundTrees        []itree.Tree
}

// Load reads a TAD TSV file (columns chrom, begin (0-based), end;
// '#'-comment lines permitted) and builds the TAD tree
// plus the derived boundary tree (one 1bp interval per distinct endpoint).
func Load(path string) (*DB, error) {
	ctx := vcontext.Background()
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errkind.E(errkind.IO, err, "tadset: open", path)
	}
	defer f.Close(ctx)

	db := &DB{
		tads:              make([][]coord.Range, chrom.N),
		tadTrees:          make([]itree.Tree, chrom.N),
		boundaryPositions: make([][]coord.Pos, chrom.N),
		boundTrees:        make([]itree.Tree, chrom.N),
	}
	boundaries := make([]*llrb.Tree, chrom.N)
	for i := range boundaries {
		boundaries[i] = &llrb.Tree{}
	}

	sc := bufio.NewScanner(f.Reader(ctx))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, errkind.E(errkind.Decode, "tadset: malformed TAD line", line)
		}
		chromNo, err := chrom.Index(fields[0])
		if err != nil {
			return nil, err
		}
		begin, err := strconv.ParseInt(fields[1], 10, 32)
		if err != nil {
			return nil, errkind.E(errkind.Decode, err, "tadset: bad begin", line)
		}
		end, err := strconv.ParseInt(fields[2], 10, 32)
		if err != nil {
			return nil, errkind.E(errkind.Decode, err, "tadset: bad end", line)
		}
		r := coord.Range{Start: coord.Pos(begin), End: coord.Pos(end)}
		idx := len(db.tads[chromNo])
		db.tads[chromNo] = append(db.tads[chromNo], r)
		db.tadTrees[chromNo].Insert(r, uint32(idx))
		boundaries[chromNo].Insert(boundaryKey(r.Start))
		boundaries[chromNo].Insert(boundaryKey(r.End))
	}
	if err := sc.Err(); err != nil {
		return nil, errkind.E(errkind.IO, err, "tadset: read", path)
	}

	for c := 0; c < chrom.N; c++ {
		var idx uint32
		boundaries[c].Do(func(comp llrb.Comparable) (done bool) {
			pos := coord.Pos(comp.(boundaryKey))
			db.boundaryPositions[c] = append(db.boundaryPositions[c], pos)
			db.boundTrees[c].Insert(coord.Range{Start: pos, End: pos + 1}, idx)
			idx++
			return false
		})
	}
	for c := 0; c < chrom.N; c++ {
		db.tadTrees[c].Index()
		db.boundTrees[c].Index()
	}
	return db, nil
}

// OverlappingTADs returns the TAD intervals on sv's chromosome that
// intersect the same per-SV-type query range used by the other databases.
func (db *DB) OverlappingTADs(sv *svrecord.Record, slackIns, slackBnd coord.Pos) ([]coord.Range, error) {
	chromNo, err := chrom.Index(sv.Chrom)
	if err != nil {
		return nil, err
	}
	r := overlap.CountRange(sv, slackIns, slackBnd)
	idxs := db.tadTrees[chromNo].Query(r)
	out := make([]coord.Range, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, db.tads[chromNo][i])
	}
	return out, nil
}

// breakpoints returns sv's genomic breakpoints paired with the chromosome
// they sit on: BND contributes both ends (on their respective
// chromosomes), INS contributes pos alone, and linear SVs contribute pos
// and end, both on sv.Chrom.
func breakpoints(sv *svrecord.Record) []struct {
	chromLabel string
	pos        coord.Pos
} {
	type bp = struct {
		chromLabel string
		pos        coord.Pos
	}
	switch {
	case sv.IsBND():
		chrom2 := sv.Chrom2
		if chrom2 == "" {
			chrom2 = sv.Chrom
		}
		return []bp{{sv.Chrom, coord.Pos(sv.Pos)}, {chrom2, coord.Pos(sv.End)}}
	case sv.IsINS():
		return []bp{{sv.Chrom, coord.Pos(sv.Pos)}}
	default:
		return []bp{{sv.Chrom, coord.Pos(sv.Pos)}, {sv.Chrom, coord.Pos(sv.End)}}
	}
}

// BoundaryDist returns the minimum distance between any of sv's breakpoints
// and the nearest TAD boundary within maxDistance, or false if none lie
// that close. A boundary exactly at a breakpoint yields a distance of 0.
func (db *DB) BoundaryDist(sv *svrecord.Record, maxDistance coord.Pos) (coord.Pos, bool) {
	best := coord.Pos(0)
	found := false
	for _, b := range breakpoints(sv) {
		chromNo, err := chrom.Index(b.chromLabel)
		if err != nil {
			continue
		}
		window := coord.Range{Start: coord.SubSlack(b.pos, maxDistance), End: b.pos + maxDistance + 1}
		for _, i := range db.boundTrees[chromNo].Query(window) {
			boundaryPos := db.boundaryPositions[chromNo][i]
			d := b.pos - boundaryPos
			if d < 0 {
				d = -d
			}
			if !found || d < best {
				best, found = d, true
			}
		}
	}
	return best, found
}
