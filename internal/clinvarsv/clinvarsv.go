// Package clinvarsv implements the ClinVar structural-variant overlap
// matcher: pathogenicity-ranked records served from a per-chromosome
// interval tree, filtered by minimum pathogenicity and reciprocal overlap.
package clinvarsv

import (
	"encoding/json"
	"fmt"

	"github.com/bio-sv/svquery/internal/chrom"
	"github.com/bio-sv/svquery/internal/coord"
	"github.com/bio-sv/svquery/internal/errkind"
	"github.com/bio-sv/svquery/internal/itree"
	"github.com/bio-sv/svquery/internal/svrecord"
	"github.com/bio-sv/svquery/internal/wire"
)

// VariationType is the ClinVar measure type.
type VariationType uint8

const (
	Complex VariationType = iota
	Microsatellite
	Dup
	Del
	Bnd
	Cnv
	Inv
	Ins
)

// Pathogenicity is ordered by rank: benign is lowest, then likely benign,
// uncertain, likely pathogenic, and pathogenic is highest.
type Pathogenicity uint8

const (
	Benign Pathogenicity = iota
	LikelyBenign
	Uncertain
	LikelyPathogenic
	Pathogenic
)

var pathogenicityNames = [...]string{"benign", "likely-benign", "uncertain", "likely-pathogenic", "pathogenic"}

func (p Pathogenicity) String() string {
	if int(p) >= len(pathogenicityNames) {
		return "uncertain"
	}
	return pathogenicityNames[p]
}

// ParsePathogenicity maps a pathogenicity label to its rank.
func ParsePathogenicity(s string) (Pathogenicity, bool) {
	for i, n := range pathogenicityNames {
		if n == s {
			return Pathogenicity(i), true
		}
	}
	return 0, false
}

// MarshalJSON renders p as its string label.
func (p Pathogenicity) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON parses a string label into p.
func (p *Pathogenicity) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, ok := ParsePathogenicity(s)
	if !ok {
		return fmt.Errorf("clinvarsv: unrecognized pathogenicity %q", s)
	}
	*p = v
	return nil
}

// Record is one decoded ClinVar-SV record.
type Record struct {
	ChromNo       int
	Range         coord.Range
	VariationType VariationType
	Pathogenicity Pathogenicity
	RCV           uint32
}

// DB is the ClinVar-SV database.
type DB struct {
	records [][]Record
	trees   []itree.Tree
}

// Load decodes a ClinvarSvMessage and builds the per-chromosome trees.
func Load(path string) (*DB, error) {
	var msg wire.ClinvarSvMessage
	if err := wire.ReadMessageFile(path, &msg); err != nil {
		return nil, err
	}
	db := &DB{
		records: make([][]Record, chrom.N),
		trees:   make([]itree.Tree, chrom.N),
	}
	for _, rec := range msg.Records {
		if rec.ChromNo < 0 || int(rec.ChromNo) >= chrom.N {
			return nil, errkind.E(errkind.Decode, "clinvarsv: chromosome index out of range")
		}
		r := coord.FromOneBased(coord.Pos(rec.Start), coord.Pos(rec.Stop))
		idx := len(db.records[rec.ChromNo])
		db.records[rec.ChromNo] = append(db.records[rec.ChromNo], Record{
			ChromNo:       int(rec.ChromNo),
			Range:         r,
			VariationType: VariationType(rec.VariationType),
			Pathogenicity: Pathogenicity(rec.Pathogenicity),
			RCV:           rec.Rcv,
		})
		db.trees[rec.ChromNo].Insert(r, uint32(idx))
	}
	for i := range db.trees {
		db.trees[i].Index()
	}
	return db, nil
}

// FetchRecords returns every overlapping ClinVar-SV record on chromNo, for
// result decoration; it does not filter the result.
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

// OverlappingRCVs computes overlapping_rcvs(sv, chrom_map,
// min_pathogenicity, min_overlap):
//  1. intersect the tree with [sv.pos-1, sv.end)
//  2. drop records ranked below minPathogenicity
//  3. drop records whose reciprocal overlap with sv is below minOverlap
//  4. format the survivors' RCV accessions as "RCV%09d"
func (db *DB) OverlappingRCVs(sv *svrecord.Record, minPathogenicity Pathogenicity, minOverlap float32) ([]string, error) {
	chromNo, err := chrom.Index(sv.Chrom)
	if err != nil {
		return nil, err
	}
	svRange := coord.Range{Start: coord.Pos(sv.Pos) - 1, End: coord.Pos(sv.End)}
	var out []string
	for _, rec := range db.FetchRecords(chromNo, svRange) {
		if rec.Pathogenicity < minPathogenicity {
			continue
		}
		if svRange.ReciprocalOverlap(rec.Range) < minOverlap {
			continue
		}
		out = append(out, fmt.Sprintf("RCV%09d", rec.RCV))
	}
	return out, nil
}
