// Package genotype implements the per-sample genotype-criteria matcher,
// recessive/compound-heterozygous evaluation, and the per-sample quality
// gate.
package genotype

import (
	"encoding/json"

	"github.com/bio-sv/svquery/internal/callinfo"
	"github.com/bio-sv/svquery/internal/svrecord"
)

// CriteriaRow is one row of the genotype criteria table.
type CriteriaRow struct {
	GenotypeChoice  string   `json:"genotype_choice"` // matched against the sample's configured choice
	SelectSVSubType []string `json:"select_sv_sub_type,omitempty"`
	SelectSizeMin   *int64   `json:"select_size_min,omitempty"`
	SelectSizeMax   *int64   `json:"select_size_max,omitempty"`

	GTOneOf []string `json:"gt_one_of,omitempty"`

	MinGQ      *uint32 `json:"min_gq,omitempty"`
	MaxGQ      *uint32 `json:"max_gq,omitempty"`
	MinPRCov   *uint32 `json:"min_pr_cov,omitempty"`
	MaxPRCov   *uint32 `json:"max_pr_cov,omitempty"`
	MinPRRef   *uint32 `json:"min_pr_ref,omitempty"`
	MaxPRRef   *uint32 `json:"max_pr_ref,omitempty"`
	MinPRVar   *uint32 `json:"min_pr_var,omitempty"`
	MaxPRVar   *uint32 `json:"max_pr_var,omitempty"`
	MinSRCov   *uint32 `json:"min_sr_cov,omitempty"`
	MaxSRCov   *uint32 `json:"max_sr_cov,omitempty"`
	MinSRRef   *uint32 `json:"min_sr_ref,omitempty"`
	MaxSRRef   *uint32 `json:"max_sr_ref,omitempty"`
	MinSRVar   *uint32 `json:"min_sr_var,omitempty"`
	MaxSRVar   *uint32 `json:"max_sr_var,omitempty"`
	MinSRPRSum *uint32 `json:"min_sr_pr_sum,omitempty"`
	MaxSRPRSum *uint32 `json:"max_sr_pr_sum,omitempty"`
	MinRD      *float32 `json:"min_rd,omitempty"` // read-depth deviation, e.g. AvgNormalizedCoverage
	MaxRD      *float32 `json:"max_rd,omitempty"`
	MinAMQ     *float32 `json:"min_amq,omitempty"`
	MaxAMQ     *float32 `json:"max_amq,omitempty"`

	// MissingOK: per-field missing-value policy; default true. Keyed by
	// field name for the handful of fields that can be absent from
	// CallInfo.
	MissingGQOK    bool `json:"missing_gq_ok"`
	MissingPRCovOK bool `json:"missing_pr_cov_ok"`
	MissingSRCovOK bool `json:"missing_sr_cov_ok"`
	MissingRDOK    bool `json:"missing_rd_ok"`
	MissingAMQOK   bool `json:"missing_amq_ok"`

	// EffectiveLabel is the genotype label recorded when this row passes,
	// used for the priority resolution in step 3 (Ref > Variant >
	// NonVariant > Het > Hom).
	EffectiveLabel callinfo.Genotype `json:"-"`
}

func sizeMatches(sv *svrecord.Record, row CriteriaRow) bool {
	if sv.SVType.IsSizeless() || sv.IsINS() {
		return true
	}
	size, ok := sv.Size()
	if !ok {
		return true
	}
	if row.SelectSizeMin != nil && size < *row.SelectSizeMin {
		return false
	}
	if row.SelectSizeMax != nil && size > *row.SelectSizeMax {
		return false
	}
	return true
}

func subTypeMatches(sv *svrecord.Record, row CriteriaRow) bool {
	if len(row.SelectSVSubType) == 0 {
		return true
	}
	for _, st := range row.SelectSVSubType {
		if st == sv.SubType {
			return true
		}
	}
	return false
}

func gtMatches(row CriteriaRow, gtStr string) bool {
	if len(row.GTOneOf) == 0 {
		return true
	}
	for _, gt := range row.GTOneOf {
		if gt == gtStr {
			return true
		}
	}
	return false
}

func checkMinMaxU32(val *uint32, min, max *uint32, missingOK bool) bool {
	if val == nil {
		return missingOK
	}
	if min != nil && *val < *min {
		return false
	}
	if max != nil && *val > *max {
		return false
	}
	return true
}

func checkMinMaxF32(val *float32, min, max *float32, missingOK bool) bool {
	if val == nil {
		return missingOK
	}
	if min != nil && *val < *min {
		return false
	}
	if max != nil && *val > *max {
		return false
	}
	return true
}

// rowApplies reports whether row is in scope for sv: genotype_choice
// matches the sample's configured choice, sv_sub_type is allowed, and size
// is within range (or the SV is BND/INS).
func rowApplies(sv *svrecord.Record, row CriteriaRow, configuredChoice string) bool {
	if row.GenotypeChoice != "" && row.GenotypeChoice != configuredChoice {
		return false
	}
	return subTypeMatches(sv, row) && sizeMatches(sv, row)
}

// rowPasses evaluates row's call-info predicates against ci.
func rowPasses(row CriteriaRow, ci *callinfo.CallInfo) bool {
	if ci.GenotypeStr != nil && !gtMatches(row, *ci.GenotypeStr) {
		return false
	}
	if !checkMinMaxU32(ci.GenotypeQuality, row.MinGQ, row.MaxGQ, defaultTrue(row.MissingGQOK)) {
		return false
	}
	if !checkMinMaxU32(ci.PairedEndCoverage, row.MinPRCov, row.MaxPRCov, defaultTrue(row.MissingPRCovOK)) {
		return false
	}
	if !checkMinMaxU32(ci.SplitReadCoverage, row.MinSRCov, row.MaxSRCov, defaultTrue(row.MissingSRCovOK)) {
		return false
	}
	if !checkMinMaxF32(ci.AvgNormalizedCoverage, row.MinRD, row.MaxRD, defaultTrue(row.MissingRDOK)) {
		return false
	}
	if !checkMinMaxF32(ci.AvgMappingQuality, row.MinAMQ, row.MaxAMQ, defaultTrue(row.MissingAMQOK)) {
		return false
	}
	return true
}

// defaultTrue reads a MissingXOK flag literally; these fields default to
// true, a default CriteriaRow.UnmarshalJSON applies when a criteria row
// omits the field.
func defaultTrue(v bool) bool { return v }

// UnmarshalJSON decodes a criteria row, setting every MissingXOK flag to
// true unless the document gives it explicitly.
func (r *CriteriaRow) UnmarshalJSON(b []byte) error {
	type plain CriteriaRow
	p := plain{MissingGQOK: true, MissingPRCovOK: true, MissingSRCovOK: true, MissingRDOK: true, MissingAMQOK: true}
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*r = CriteriaRow(p)
	return nil
}

// EvaluateSample evaluates one sample against the full criteria table: it
// returns the effective genotype label and the list of matched row
// labels, or ok=false if no row passes.
func EvaluateSample(sv *svrecord.Record, rows []CriteriaRow, configuredChoice string, ci *callinfo.CallInfo) (callinfo.Genotype, []string, bool) {
	var matched []string
	best := callinfo.Unknown
	bestRank := -1
	rank := map[callinfo.Genotype]int{
		callinfo.Ref:    4,
		callinfo.Het:    1,
		callinfo.Hom:    0,
		callinfo.NoCall: -1,
	}
	for i, row := range rows {
		if !rowApplies(sv, row, configuredChoice) {
			continue
		}
		if !rowPasses(row, ci) {
			continue
		}
		label := row.EffectiveLabel
		matched = append(matched, labelName(i, row))
		if r, ok := rank[label]; ok && r > bestRank {
			bestRank = r
			best = label
		}
	}
	if len(matched) == 0 {
		return callinfo.Unknown, nil, false
	}
	if best == callinfo.Unknown && ci.GenotypeStr != nil {
		if g, ok := callinfo.ClassifyGT(*ci.GenotypeStr); ok {
			best = g
		}
	}
	return best, matched, true
}

func labelName(i int, row CriteriaRow) string {
	if row.GenotypeChoice != "" {
		return row.GenotypeChoice
	}
	return "row"
}

// RecessiveArm is which compound-/homozygous-recessive arm a trio
// satisfies.
type RecessiveArm uint8

const (
	NoArm RecessiveArm = iota
	CompoundHet
	HomozygousRecessive
)

// EvaluateRecessive classifies the recessive-mode arm given the index and
// parent genotype classifications (nil parent = absent).
func EvaluateRecessive(index callinfo.Genotype, parents []callinfo.Genotype) RecessiveArm {
	if index == callinfo.Hom {
		allHet := len(parents) > 0
		for _, p := range parents {
			if p != callinfo.Het {
				allHet = false
				break
			}
		}
		if allHet {
			return HomozygousRecessive
		}
	}
	if index == callinfo.Het {
		hetCount, refCount, homCount := 0, 0, 0
		for _, p := range parents {
			switch p {
			case callinfo.Het:
				hetCount++
			case callinfo.Ref:
				refCount++
			case callinfo.Hom:
				homCount++
			}
		}
		if homCount == 0 && hetCount <= 1 && refCount <= 1 {
			return CompoundHet
		}
	}
	return NoArm
}

// QualitySettings is a sample's per-query quality thresholds. Defined
// here, not in package query, so query.CaseQuery and the interpreter
// share one type without an import cycle.
type QualitySettings struct {
	MinDPHet uint32  `json:"min_dp_het"`
	MinDPHom uint32  `json:"min_dp_hom"`
	MinGQ    uint32  `json:"min_gq"`
	MinAB    float32 `json:"min_ab"`
	MinAD    uint32  `json:"min_ad"`
	MaxAD    uint32  `json:"max_ad"`
}

// QualityResult is the outcome of evaluating one sample's quality.
type QualityResult uint8

const (
	QualityPass QualityResult = iota
	QualityFailIgnore
	QualityFailDropVariant
	QualityFailNoCall
)

// EvaluateQuality evaluates one sample's quality: given its GT
// classification, check min DP (by zygosity), min AB (Het only), min GQ,
// and min/max AD (non-Ref only). failMode names the action to report on
// failure; the caller applies it ("ignore" treats the result as pass,
// "drop-variant" fails the whole variant, "no-call" adds the sample to the
// no_call list).
func EvaluateQuality(gt callinfo.Genotype, ci *callinfo.CallInfo, q QualitySettings, failMode string) QualityResult {
	if passesQuality(gt, ci, q) {
		return QualityPass
	}
	switch failMode {
	case "drop-variant":
		return QualityFailDropVariant
	case "no-call":
		return QualityFailNoCall
	default:
		return QualityFailIgnore
	}
}

func passesQuality(gt callinfo.Genotype, ci *callinfo.CallInfo, q QualitySettings) bool {
	switch gt {
	case callinfo.Het:
		if dp, ok := ci.DP(); ok && q.MinDPHet > 0 && dp < q.MinDPHet {
			return false
		}
		if q.MinAB > 0 {
			dp, dpOK := ci.DP()
			ad, adOK := ci.AD()
			if dpOK && adOK && dp > 0 {
				abRaw := float32(ad) / float32(dp)
				ab := abRaw
				if ab > 1-ab {
					ab = 1 - ab
				}
				if ab+1e-6 < q.MinAB {
					return false
				}
			}
		}
	case callinfo.Hom:
		if dp, ok := ci.DP(); ok && q.MinDPHom > 0 && dp < q.MinDPHom {
			return false
		}
	}
	if gt != callinfo.NoCall {
		if gq := ci.GenotypeQuality; gq != nil && q.MinGQ > 0 && *gq < q.MinGQ {
			return false
		}
	}
	if gt != callinfo.Ref {
		if ad, ok := ci.AD(); ok {
			if q.MinAD > 0 && ad < q.MinAD {
				return false
			}
			if q.MaxAD > 0 && ad > q.MaxAD {
				return false
			}
		}
	}
	return true
}
