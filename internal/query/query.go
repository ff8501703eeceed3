// Package query defines the case query filter specification and its
// default values.
package query

import (
	"encoding/json"

	"github.com/bio-sv/svquery/internal/clinvarsv"
	"github.com/bio-sv/svquery/internal/errkind"
	"github.com/bio-sv/svquery/internal/genotype"
	"github.com/bio-sv/svquery/internal/svtype"
)

// GenotypeChoice is a per-sample genotype requirement.
type GenotypeChoice string

const (
	Any              GenotypeChoice = "any"
	Ref              GenotypeChoice = "ref"
	Het              GenotypeChoice = "het"
	Hom              GenotypeChoice = "hom"
	NonHom           GenotypeChoice = "non-hom"
	Variant          GenotypeChoice = "variant"
	NonVariant       GenotypeChoice = "non-variant"
	NonReference     GenotypeChoice = "non-reference"
	RecessiveIndex   GenotypeChoice = "recessive-index"
	RecessiveParent  GenotypeChoice = "recessive-parent"
	ComphetIndex     GenotypeChoice = "comphet-index"
)

// RecessiveMode selects the recessive-evaluation arm.
type RecessiveMode string

const (
	RecessiveOff      RecessiveMode = "off"
	Recessive         RecessiveMode = "recessive"
	CompoundRecessive RecessiveMode = "compound-recessive"
)

// RegionEntry is one genomic-region allow-list entry.
//
// JSON shape: {"chrom": "1"} for a whole-chromosome entry, or
// {"chrom": "1", "start": 1000, "end": 2000} for a ranged one; HasRange is
// derived from whether start/end were present, not read from JSON directly.
type RegionEntry struct {
	Chrom    string `json:"chrom"`
	HasRange bool   `json:"-"`
	Start    int32  `json:"start,omitempty"` // 1-based, inclusive; only meaningful if HasRange
	End      int32  `json:"end,omitempty"`
}

// UnmarshalJSON sets HasRange from the presence of "start"/"end" in the
// source document: missing fields are defaults, not zeros that masquerade
// as explicit values.
func (e *RegionEntry) UnmarshalJSON(b []byte) error {
	var raw struct {
		Chrom string `json:"chrom"`
		Start *int32 `json:"start"`
		End   *int32 `json:"end"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	e.Chrom = raw.Chrom
	e.HasRange = raw.Start != nil && raw.End != nil
	if raw.Start != nil {
		e.Start = *raw.Start
	}
	if raw.End != nil {
		e.End = *raw.End
	}
	return nil
}

// DatabaseToggle is one background-database's enablement and limits.
type DatabaseToggle struct {
	Enabled    bool    `json:"enabled"`
	MinOverlap float32 `json:"min_overlap"`
	MaxCount   uint32  `json:"max_count,omitempty"` // 0 = unset = no cap
}

// ClinvarSettings is the ClinVar-SV matcher's configuration.
type ClinvarSettings struct {
	MinPathogenicity clinvarsv.Pathogenicity `json:"min_pathogenicity"`
	MinOverlap       float32                 `json:"min_overlap"`
}

// FailMode is the per-sample quality-failure action.
type FailMode string

const (
	Ignore       FailMode = "ignore"
	DropVariant  FailMode = "drop-variant"
	NoCall       FailMode = "no-call"
)

// QualitySettings pairs one sample's genotype.QualitySettings thresholds
// with the fail-mode action to take on a threshold failure.
type QualitySettings struct {
	Thresholds genotype.QualitySettings `json:"thresholds"`
	FailMode   FailMode                 `json:"fail_mode"`
}

// CaseQuery is the full filter specification. Unknown fields in an input
// document are tolerated, and empty arrays/objects mean "no constraint"
// rather than "match nothing" because every predicate that consults these
// fields treats a zero-length allow-list as unconstrained.
type CaseQuery struct {
	SVTypeAllow    []svtype.Type `json:"sv_type_allow,omitempty"`
	SVSubTypeAllow []string      `json:"sv_sub_type_allow,omitempty"`
	SizeMin        *int64        `json:"size_min,omitempty"`
	SizeMax        *int64        `json:"size_max,omitempty"`

	RegionAllow []RegionEntry `json:"region_allow,omitempty"`

	GenotypeChoice map[string]GenotypeChoice  `json:"genotype_choice,omitempty"`
	Quality        map[string]QualitySettings `json:"quality,omitempty"`
	CriteriaTable  []genotype.CriteriaRow     `json:"criteria_table,omitempty"`

	// Databases keys: dgv, dgv_gs, gnomad_sv, exac, dbvar, thousand_genomes,
	// inhouse.
	Databases map[string]DatabaseToggle `json:"databases,omitempty"`
	Clinvar   ClinvarSettings           `json:"clinvar"`

	GeneAllowlist   []string `json:"gene_allowlist,omitempty"`
	EffectAllowlist []string `json:"effect_allowlist,omitempty"`

	RecessiveMode  RecessiveMode `json:"recessive_mode,omitempty"`
	RecessiveIndex string        `json:"recessive_index,omitempty"`

	TADSet string `json:"tad_set,omitempty"`

	TranscriptsCoding    bool `json:"transcripts_coding"`
	TranscriptsNoncoding bool `json:"transcripts_noncoding"`
	VarTypeSNV           bool `json:"var_type_snv"`
	VarTypeIndel         bool `json:"var_type_indel"`
	VarTypeMNV           bool `json:"var_type_mnv"`
}

// Default returns a CaseQuery with its baseline defaults: all SV types and
// sub-types allowed, no size constraints, all databases disabled, no region
// or gene allow-list, both transcript categories and all three seqvar
// classes enabled, recessive mode off.
func Default() CaseQuery {
	return CaseQuery{
		Databases:            make(map[string]DatabaseToggle),
		GenotypeChoice:       make(map[string]GenotypeChoice),
		Quality:              make(map[string]QualitySettings),
		RecessiveMode:        RecessiveOff,
		TranscriptsCoding:    true,
		TranscriptsNoncoding: true,
		VarTypeSNV:           true,
		VarTypeIndel:         true,
		VarTypeMNV:           true,
	}
}

// ParseJSON decodes a query document. It starts from Default() so any
// field the document omits keeps its default value -- unmarshaling a JSON
// object into an already-populated struct only overwrites the keys
// present in the document, giving "missing fields are defaults, unknown
// fields tolerated" semantics without bespoke merge logic. A malformed
// document is a DecodeError.
func ParseJSON(b []byte) (CaseQuery, error) {
	q := Default()
	if err := json.Unmarshal(b, &q); err != nil {
		return CaseQuery{}, errkind.E(errkind.Decode, err, "query: parse JSON")
	}
	return q, nil
}

// ValidateSampleNames enforces the invariant that the samples named in the
// quality and genotype maps must equal the sample names present in the
// variant's call-info map. When both maps are empty the query names no
// samples and the check is skipped.
func ValidateSampleNames(q *CaseQuery, callSamples map[string]bool) error {
	if len(q.GenotypeChoice) == 0 && len(q.Quality) == 0 {
		return nil
	}
	for name := range callSamples {
		_, inGenotype := q.GenotypeChoice[name]
		_, inQuality := q.Quality[name]
		if !inGenotype && !inQuality {
			return errkind.E(errkind.Domain, "query: variant sample not named in the query", name)
		}
	}
	for name := range q.GenotypeChoice {
		if !callSamples[name] {
			return errkind.E(errkind.Domain, "query: genotype-choice sample not present in variant", name)
		}
	}
	for name := range q.Quality {
		if !callSamples[name] {
			return errkind.E(errkind.Domain, "query: quality-setting sample not present in variant", name)
		}
	}
	return nil
}
