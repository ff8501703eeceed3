// Package callinfo defines the per-sample call support record attached to
// every structural variant and sequence variant.
package callinfo

// Genotype classifies a sample's call for quality-gating and genotype
// criteria purposes.
type Genotype uint8

const (
	// Unknown is the zero value, used before effective genotype is
	// assigned.
	Unknown Genotype = iota
	Ref
	Het
	Hom
	NoCall
)

func (g Genotype) String() string {
	switch g {
	case Ref:
		return "ref"
	case Het:
		return "het"
	case Hom:
		return "hom"
	case NoCall:
		return "no-call"
	default:
		return "unknown"
	}
}

// ClassifyGT maps a raw VCF-style genotype string to a Genotype
// classification. An unrecognized non-missing string is a DomainError,
// signaled by returning ok=false; the caller decides whether that aborts
// variant processing.
func ClassifyGT(gt string) (g Genotype, ok bool) {
	switch gt {
	case "0/0", "0|0":
		return Ref, true
	case "0/1", "1/0", "0|1", "1|0":
		return Het, true
	case "1/1", "1|1":
		return Hom, true
	case "./.", ".|.", ".", "":
		return NoCall, true
	default:
		return Unknown, false
	}
}

// CallInfo is the per-sample call support attached to a structural variant.
// All fields besides the pointers are optional; a nil pointer means "not
// reported by the caller".
type CallInfo struct {
	GenotypeStr *string `json:"genotype,omitempty"` // raw GT string, e.g. "0/1"

	GenotypeQuality *uint32 `json:"genotype_quality,omitempty"`

	PairedEndCoverage *uint32 `json:"pe_coverage,omitempty"`
	PairedEndVariant  *uint32 `json:"pe_variant,omitempty"`

	SplitReadCoverage *uint32 `json:"sr_coverage,omitempty"`
	SplitReadVariant  *uint32 `json:"sr_variant,omitempty"`

	CopyNumber *int32 `json:"copy_number,omitempty"`

	AvgNormalizedCoverage *float32 `json:"avg_normalized_coverage,omitempty"`
	BucketCount           *uint32  `json:"bucket_count,omitempty"`
	AvgMappingQuality     *float32 `json:"avg_mapping_quality,omitempty"`

	PhaseSet *int32 `json:"phase_set,omitempty"`

	// EffectiveGenotype and MatchedCriteria are assigned during evaluation;
	// they are not part of the input record.
	EffectiveGenotype Genotype `json:"-"`
	MatchedCriteria   []string `json:"-"`
}

// DP returns the read-depth proxy used for quality gating: the sum of
// paired-end and split-read coverage, when either is present.
func (c *CallInfo) DP() (uint32, bool) {
	var dp uint32
	var any bool
	if c.PairedEndCoverage != nil {
		dp += *c.PairedEndCoverage
		any = true
	}
	if c.SplitReadCoverage != nil {
		dp += *c.SplitReadCoverage
		any = true
	}
	return dp, any
}

// AD returns the alt-read-depth proxy: the sum of paired-end and split-read
// variant-supporting counts.
func (c *CallInfo) AD() (uint32, bool) {
	var ad uint32
	var any bool
	if c.PairedEndVariant != nil {
		ad += *c.PairedEndVariant
		any = true
	}
	if c.SplitReadVariant != nil {
		ad += *c.SplitReadVariant
		any = true
	}
	return ad, any
}
