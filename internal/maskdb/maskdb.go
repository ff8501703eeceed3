// Package maskdb implements the masked/repeat-region database and the
// breakpoint-in-mask count: a per-chromosome interval tree, queried once
// per breakpoint.
package maskdb

import (
	"github.com/bio-sv/svquery/internal/chrom"
	"github.com/bio-sv/svquery/internal/coord"
	"github.com/bio-sv/svquery/internal/errkind"
	"github.com/bio-sv/svquery/internal/itree"
	"github.com/bio-sv/svquery/internal/svrecord"
	"github.com/bio-sv/svquery/internal/wire"
)

// DB is the masked-region database: records grouped per chromosome with a
// parallel interval tree, the same shape as bgdb.DB minus SVType/Count.
type DB struct {
	records [][]coord.Range
	trees   []itree.Tree
}

// Load decodes a MaskedRegionMessage and builds the per-chromosome trees.
func Load(path string) (*DB, error) {
	var msg wire.MaskedRegionMessage
	if err := wire.ReadMessageFile(path, &msg); err != nil {
		return nil, err
	}
	db := &DB{
		records: make([][]coord.Range, chrom.N),
		trees:   make([]itree.Tree, chrom.N),
	}
	for _, rec := range msg.Records {
		if int(rec.ChromNo) >= chrom.N {
			return nil, errkind.E(errkind.Decode, "maskdb: chromosome index out of range")
		}
		r := coord.FromOneBased(coord.Pos(rec.Start), coord.Pos(rec.Stop))
		idx := len(db.records[rec.ChromNo])
		db.records[rec.ChromNo] = append(db.records[rec.ChromNo], r)
		db.trees[rec.ChromNo].Insert(r, uint32(idx))
	}
	for i := range db.trees {
		db.trees[i].Index()
	}
	return db, nil
}

// FetchRecords returns every masked region on chromNo intersecting r.
func (db *DB) FetchRecords(chromNo int, r coord.Range) []coord.Range {
	if chromNo < 0 || chromNo >= len(db.trees) {
		return nil
	}
	idxs := db.trees[chromNo].Query(r)
	out := make([]coord.Range, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, db.records[chromNo][i])
	}
	return out
}

func (db *DB) contains(chromLabel string, pos coord.Pos) bool {
	chromNo, err := chrom.Index(chromLabel)
	if err != nil {
		return false
	}
	return len(db.FetchRecords(chromNo, coord.Range{Start: pos - 1, End: pos})) > 0
}

// CountBreakpoints returns the number of sv's breakpoints (0, 1, or 2) that
// fall inside a masked region: both pos and end for a linear
// SV, pos alone for INS, and pos/end tested against their respective
// chromosomes for BND.
func (db *DB) CountBreakpoints(sv *svrecord.Record) int {
	switch {
	case sv.IsINS():
		if db.contains(sv.Chrom, coord.Pos(sv.Pos)) {
			return 1
		}
		return 0
	case sv.IsBND():
		chrom2 := sv.Chrom2
		if chrom2 == "" {
			chrom2 = sv.Chrom
		}
		count := 0
		if db.contains(sv.Chrom, coord.Pos(sv.Pos)) {
			count++
		}
		if db.contains(chrom2, coord.Pos(sv.End)) {
			count++
		}
		return count
	default:
		count := 0
		if db.contains(sv.Chrom, coord.Pos(sv.Pos)) {
			count++
		}
		if db.contains(sv.Chrom, coord.Pos(sv.End)) {
			count++
		}
		return count
	}
}
