// Package seqvartype implements the sequence-variant data model and its
// population-frequency gating predicate.
package seqvartype

import "github.com/bio-sv/svquery/internal/callinfo"

// PopulationCounts holds one population bank's allele/homozygote/hemizygote
// tallies.
type PopulationCounts struct {
	AN   uint32
	Hom  uint32
	Het  uint32
	Hemi uint32
}

// AF computes the allele frequency (het+hom+hemi)/AN, guarding AN=0 -> 0.
func (c PopulationCounts) AF() float64 {
	if c.AN == 0 {
		return 0
	}
	return float64(c.Het+c.Hom+c.Hemi) / float64(c.AN)
}

// TranscriptAnnotation is one seqvar transcript consequence.
type TranscriptAnnotation struct {
	GeneID      string
	GeneSymbol  string
	HGVSc       string
	HGVSp       string
	Consequence []string
}

// Record is one sequence variant.
type Record struct {
	Chrom          string
	Pos            int32
	Ref            string
	Alt            string
	GnomadExomes   PopulationCounts
	GnomadGenomes  PopulationCounts
	HelixMtDb      PopulationCounts
	InHouse        PopulationCounts
	Transcripts    []TranscriptAnnotation
	Calls          map[string]*callinfo.CallInfo
}

func isMT(chromLabel string) bool {
	switch chromLabel {
	case "M", "MT", "chrM", "chrMT", "m", "mt", "chrm", "chrmt":
		return true
	default:
		return false
	}
}

// BankThreshold is one frequency bank's enablement and limits.
type BankThreshold struct {
	Enabled      bool
	MaxFrequency float64
	MaxHet       uint32
	MaxHom       uint32
	MaxHemi      uint32
}

func (t BankThreshold) violatedBy(c PopulationCounts) bool {
	if !t.Enabled {
		return false
	}
	if t.MaxFrequency > 0 && c.AF() > t.MaxFrequency {
		return true
	}
	if t.MaxHet > 0 && c.Het > t.MaxHet {
		return true
	}
	if t.MaxHom > 0 && c.Hom > t.MaxHom {
		return true
	}
	if t.MaxHemi > 0 && c.Hemi > t.MaxHemi {
		return true
	}
	return false
}

// FrequencyThresholds bundles the nuclear and mitochondrial bank settings:
// nuclear is {gnomAD exomes, gnomAD genomes}, mitochondrial is {HelixMtDb,
// gnomAD genomes restricted to MT}.
type FrequencyThresholds struct {
	GnomadExomes  BankThreshold
	GnomadGenomes BankThreshold
	HelixMtDb     BankThreshold
}

// PassesFrequency reports whether r clears every enabled frequency bank: for
// chrMT records the exomes bank is skipped entirely, and each remaining
// enabled bank's limits are enforced independently.
func (r *Record) PassesFrequency(t FrequencyThresholds) bool {
	if isMT(r.Chrom) {
		if t.GnomadGenomes.violatedBy(r.GnomadGenomes) {
			return false
		}
		if t.HelixMtDb.violatedBy(r.HelixMtDb) {
			return false
		}
		return true
	}
	if t.GnomadExomes.violatedBy(r.GnomadExomes) {
		return false
	}
	if t.GnomadGenomes.violatedBy(r.GnomadGenomes) {
		return false
	}
	return true
}
