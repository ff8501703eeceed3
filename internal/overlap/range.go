// Package overlap computes the per-SV-type query range used by every
// database lookup and the reciprocal-overlap gate shared by the
// background, ClinVar-SV and TAD matchers.
package overlap

import (
	"github.com/bio-sv/svquery/internal/coord"
	"github.com/bio-sv/svquery/internal/svrecord"
)

// CountRange computes the single per-chromosome query range used by every
// database count/fetch lookup: INS and BND are keyed
// only on the first breakpoint (pos), windowed by the appropriate slack;
// linear types (DEL/DUP/INV/CNV) use [pos-1, end).
func CountRange(sv *svrecord.Record, slackIns, slackBnd coord.Pos) coord.Range {
	pos := coord.Pos(sv.Pos)
	switch {
	case sv.IsINS():
		return coord.Range{Start: coord.SubSlack(pos, slackIns), End: pos + slackIns}
	case sv.IsBND():
		return coord.Range{Start: coord.SubSlack(pos, slackBnd), End: pos + slackBnd}
	default:
		return coord.Range{Start: pos - 1, End: coord.Pos(sv.End)}
	}
}

// RegionQuery is the one or two chromosome/range pairs that the genomic
// region allow-list must intersect. BND yields two
// independent ranges, one per breakend side, each on its own chromosome;
// every other SV type yields exactly one.
type RegionQuery struct {
	Chrom  string
	Range  coord.Range
	Chrom2 string // only set when Second is true
	Range2 coord.Range
	Second bool
}

// ForRegion computes the region-matching range(s) for sv:
//   INS: [pos-50, pos+50)
//   BND: [pos-50, pos+50) on chrom, and [end-50, end+50) on chrom2
//   linear: [pos-1, end)
func ForRegion(sv *svrecord.Record) RegionQuery {
	const insBndWindow = coord.Pos(50)
	pos := coord.Pos(sv.Pos)
	switch {
	case sv.IsINS():
		return RegionQuery{
			Chrom: sv.Chrom,
			Range: coord.Range{Start: coord.SubSlack(pos, insBndWindow), End: pos + insBndWindow},
		}
	case sv.IsBND():
		end := coord.Pos(sv.End)
		chrom2 := sv.Chrom2
		if chrom2 == "" {
			chrom2 = sv.Chrom
		}
		return RegionQuery{
			Chrom:  sv.Chrom,
			Range:  coord.Range{Start: coord.SubSlack(pos, insBndWindow), End: pos + insBndWindow},
			Chrom2: chrom2,
			Range2: coord.Range{Start: coord.SubSlack(end, insBndWindow), End: end + insBndWindow},
			Second: true,
		}
	default:
		return RegionQuery{
			Chrom: sv.Chrom,
			Range: coord.Range{Start: pos - 1, End: coord.Pos(sv.End)},
		}
	}
}

// ReciprocalOverlapRequired reports whether a reciprocal-overlap threshold
// applies to this SV type: false for BND and INS, where the slack-windowed
// intersection alone is the match.
func ReciprocalOverlapRequired(sv *svrecord.Record) bool {
	return !sv.IsBND() && !sv.IsINS()
}

// Passes reports whether a hit against dbRange satisfies the reciprocal
// overlap gate for sv: always true for BND/INS (any slack-windowed
// intersection counts), otherwise requires ro >= minOverlap (ties pass).
// A minOverlap of 0 means "any non-empty intersection counts".
func Passes(sv *svrecord.Record, svRange, dbRange coord.Range, minOverlap float32) bool {
	if !ReciprocalOverlapRequired(sv) {
		return true
	}
	if svRange.Intersection(dbRange) <= 0 {
		return false
	}
	if minOverlap <= 0 {
		return true
	}
	return svRange.ReciprocalOverlap(dbRange) >= minOverlap
}
