// Package inhouse implements the in-house SV aggregation pipeline: split
// per-case calls into per-(chrom, sv_type) buckets, cluster by reciprocal
// overlap (or slack window for BND/INS), and emit merged carrier-count
// records.
package inhouse

import (
	"sort"

	"github.com/bio-sv/svquery/internal/callinfo"
	"github.com/bio-sv/svquery/internal/coord"
	"github.com/bio-sv/svquery/internal/pedigree"
	"github.com/bio-sv/svquery/internal/svrecord"
	"github.com/bio-sv/svquery/internal/svtype"
)

// NormalizedRecord is one Step-1 split record.
type NormalizedRecord struct {
	Chrom         string
	Begin         int32
	Chrom2        string
	End           int32
	PEOrientation svrecord.Strand
	SVType        svtype.Type
	Carriers      uint32
	CarriersHet   uint32
	CarriersHom   uint32
	CarriersHemi  uint32
}

// Split implements Step 1: for each (sample, SV) pair derive a carrier
// classification -- HomRef contributes nothing, Het increments
// carriers_het, HomAlt increments carriers_hom, and on a sex chromosome a
// male sample's Het/HomAlt call increments carriers_hemi instead.
func Split(sv *svrecord.Record, ped *pedigree.Pedigree) NormalizedRecord {
	rec := NormalizedRecord{
		Chrom:         sv.Chrom,
		Begin:         sv.Pos,
		Chrom2:        sv.Chrom2,
		End:           sv.End,
		PEOrientation: sv.Strand,
		SVType:        sv.SVType,
	}
	sexChrom := pedigree.IsSexChromosome(sv.Chrom)
	for sample, ci := range sv.Calls {
		gt := callinfo.Unknown
		if ci.GenotypeStr != nil {
			if g, ok := callinfo.ClassifyGT(*ci.GenotypeStr); ok {
				gt = g
			}
		}
		isMale := false
		if ped != nil {
			if m, ok := ped.Member(sample); ok {
				isMale = m.Sex == pedigree.Male
			}
		}
		switch gt {
		case callinfo.Het:
			if sexChrom && isMale {
				rec.CarriersHemi++
			} else {
				rec.CarriersHet++
			}
		case callinfo.Hom:
			if sexChrom && isMale {
				rec.CarriersHemi++
			} else {
				rec.CarriersHom++
			}
		}
	}
	rec.Carriers = rec.CarriersHet + rec.CarriersHom + rec.CarriersHemi
	return rec
}

func (r NormalizedRecord) svRange() coord.Range {
	return coord.Range{Start: coord.Pos(r.Begin) - 1, End: coord.Pos(r.End)}
}

func (r NormalizedRecord) isINS() bool { return r.SVType == svtype.INS }
func (r NormalizedRecord) isBND() bool { return r.SVType == svtype.BND }

// cluster is an in-progress Step-2 merge group.
type cluster struct {
	members []NormalizedRecord
}

func (c *cluster) accepts(rec NormalizedRecord, minOverlap float32, slack coord.Pos) bool {
	for _, m := range c.members {
		if m.SVType != rec.SVType {
			return false
		}
		switch {
		case rec.isBND():
			if absDiff(coord.Pos(m.Begin), coord.Pos(rec.Begin)) > slack {
				return false
			}
		case rec.isINS():
			if absDiff(coord.Pos(m.Begin), coord.Pos(rec.Begin)) > slack {
				return false
			}
		default:
			if m.svRange().ReciprocalOverlap(rec.svRange()) < minOverlap {
				return false
			}
		}
	}
	return true
}

func absDiff(a, b coord.Pos) coord.Pos {
	if a < b {
		return b - a
	}
	return a - b
}

// Cluster implements Step 2 over records already split by (chrom, sv_type):
// a record joins the first cluster whose every existing member passes the
// reciprocal-overlap (or BND/INS slack-window) test against it; otherwise
// it starts a new cluster. This is "every member >= threshold"
// complete-linkage clustering.
func Cluster(records []NormalizedRecord, minOverlap float32, slackBnd, slackIns coord.Pos) []NormalizedRecord {
	var clusters []*cluster
	for _, rec := range records {
		slack := slackBnd
		if rec.isINS() {
			slack = slackIns
		}
		joined := false
		for _, c := range clusters {
			if c.accepts(rec, minOverlap, slack) {
				c.members = append(c.members, rec)
				joined = true
				break
			}
		}
		if !joined {
			clusters = append(clusters, &cluster{members: []NormalizedRecord{rec}})
		}
	}
	return emit(clusters)
}

// emit implements Step 3: one output record per cluster, coordinates from
// the first member, carrier counts summed across all members, sorted by
// (begin, end).
func emit(clusters []*cluster) []NormalizedRecord {
	out := make([]NormalizedRecord, 0, len(clusters))
	for _, c := range clusters {
		first := c.members[0]
		merged := first
		merged.Carriers, merged.CarriersHet, merged.CarriersHom, merged.CarriersHemi = 0, 0, 0, 0
		for _, m := range c.members {
			merged.Carriers += m.Carriers
			merged.CarriersHet += m.CarriersHet
			merged.CarriersHom += m.CarriersHom
			merged.CarriersHemi += m.CarriersHemi
		}
		out = append(out, merged)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Begin != out[j].Begin {
			return out[i].Begin < out[j].Begin
		}
		return out[i].End < out[j].End
	})
	return out
}

// TotalCarriers sums the Carriers field across records, used to verify the
// aggregation-preserves-totals invariant.
func TotalCarriers(records []NormalizedRecord) uint64 {
	var total uint64
	for _, r := range records {
		total += uint64(r.Carriers)
	}
	return total
}
