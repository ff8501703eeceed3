// Package bgdb implements the population background-frequency databases
// (gnomAD, dbVar, DGV, DGV-GS, ExAC, 1000G, in-house): a per-chromosome
// vector of records plus a per-chromosome interval tree indexing into it.
package bgdb

import (
	"github.com/bio-sv/svquery/internal/chrom"
	"github.com/bio-sv/svquery/internal/coord"
	"github.com/bio-sv/svquery/internal/errkind"
	"github.com/bio-sv/svquery/internal/itree"
	"github.com/bio-sv/svquery/internal/overlap"
	"github.com/bio-sv/svquery/internal/svrecord"
	"github.com/bio-sv/svquery/internal/svtype"
	"github.com/bio-sv/svquery/internal/wire"
)

// Record is one decoded background-database record.
type Record struct {
	ChromNo int
	Range   coord.Range
	SVType  svtype.Type
	Count   uint32
}

// DB is one population background database: records grouped per
// chromosome with a parallel per-chromosome interval tree. FetchRecords and
// CountOverlaps are plain methods, not an interface value, so callers
// always hold a concrete *DB.
type DB struct {
	Name    string
	records [][]Record // indexed by chrom.Index
	trees   []itree.Tree
}

// Load decodes a single BackgroundDbMessage from path and builds the
// per-chromosome interval trees. Fails with an IO error for a
// missing/unreadable file, or a Decode error for a malformed message;
// per-record errors (an unrecognized chromosome) abort the entire load
// since a partially-loaded database would be unsafe.
func Load(name, path string) (*DB, error) {
	var msg wire.BackgroundDbMessage
	if err := wire.ReadMessageFile(path, &msg); err != nil {
		return nil, err
	}
	db := &DB{
		Name:    name,
		records: make([][]Record, chrom.N),
		trees:   make([]itree.Tree, chrom.N),
	}
	for _, rec := range msg.Records {
		if int(rec.ChromNo) >= chrom.N {
			return nil, errkind.E(errkind.Decode, "bgdb: chromosome index out of range", name)
		}
		r := coord.FromOneBased(coord.Pos(rec.Start), coord.Pos(rec.Stop))
		if svtype.Type(rec.SvType) == svtype.BND || svtype.Type(rec.SvType) == svtype.INS {
			// BND/INS start is written as the original (1-based) position;
			// the tree key is the 1bp window [start-2, start-1) so a point
			// overlap is detected.
			r = coord.Range{Start: coord.Pos(rec.Start) - 2, End: coord.Pos(rec.Start) - 1}
		}
		idx := len(db.records[rec.ChromNo])
		db.records[rec.ChromNo] = append(db.records[rec.ChromNo], Record{
			ChromNo: int(rec.ChromNo),
			Range:   r,
			SVType:  svtype.Type(rec.SvType),
			Count:   rec.Count,
		})
		db.trees[rec.ChromNo].Insert(r, uint32(idx))
	}
	for i := range db.trees {
		db.trees[i].Index()
	}
	return db, nil
}

// FetchRecords returns every record on chromNo whose interval intersects r.
func (db *DB) FetchRecords(chromNo int, r coord.Range) []Record {
	if chromNo < 0 || chromNo >= len(db.trees) {
		return nil
	}
	idxs := db.trees[chromNo].Query(r)
	out := make([]Record, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, db.records[chromNo][i])
	}
	return out
}

// CountOverlaps computes the aggregate carrier count for sv against this
// database: type-compatible records passing the reciprocal-overlap gate
// are summed.
func (db *DB) CountOverlaps(sv *svrecord.Record, slackIns, slackBnd coord.Pos, minOverlap float32) (uint32, error) {
	chromNo, err := chrom.Index(sv.Chrom)
	if err != nil {
		return 0, err
	}
	qr := overlap.CountRange(sv, slackIns, slackBnd)
	var total uint32
	for _, rec := range db.FetchRecords(chromNo, qr) {
		if !svtype.Compatible(sv.SVType, rec.SVType) {
			continue
		}
		if !overlap.Passes(sv, qr, rec.Range, minOverlap) {
			continue
		}
		total += rec.Count
	}
	return total, nil
}
