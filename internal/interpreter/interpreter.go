// Package interpreter composes six orthogonal predicates against one
// structural variant and the Databases bundle: selection, genomic region,
// genotype, gene-allowlist, background-counts, and transcript-effect. A
// variant passes overall iff it passes all six.
package interpreter

import (
	"github.com/bio-sv/svquery/internal/callinfo"
	"github.com/bio-sv/svquery/internal/config"
	"github.com/bio-sv/svquery/internal/coord"
	"github.com/bio-sv/svquery/internal/errkind"
	"github.com/bio-sv/svquery/internal/genotype"
	"github.com/bio-sv/svquery/internal/overlap"
	"github.com/bio-sv/svquery/internal/query"
	"github.com/bio-sv/svquery/internal/svrecord"
)

// Decision is the outcome of evaluating one variant.
type Decision struct {
	Pass             bool
	NoCallSamples    []string
	BackgroundCounts map[string]uint32
	OverlappingGenes []string
	TADGenes         []string
	OverlappingRCVs  []string
	TranscriptEffectStrings []string
	MaskedBreakpoints int
	TADBoundaryDist   *int32
}

// Interpreter binds one CaseQuery to the Databases bundle it evaluates
// against.
type Interpreter struct {
	Q    *query.CaseQuery
	DB   *config.Databases
}

// New constructs an Interpreter.
func New(q *query.CaseQuery, db *config.Databases) *Interpreter {
	return &Interpreter{Q: q, DB: db}
}

// Evaluate runs every predicate in order, short-circuiting on the first
// failure (quality's drop-variant action aside, which fails immediately by
// definition).
func (ip *Interpreter) Evaluate(sv *svrecord.Record) (Decision, error) {
	var d Decision

	if !ip.passesSelection(sv) {
		return d, nil
	}
	if !ip.passesRegion(sv) {
		return d, nil
	}

	callSamples := make(map[string]bool, len(sv.Calls))
	for s := range sv.Calls {
		callSamples[s] = true
	}
	if err := query.ValidateSampleNames(ip.Q, callSamples); err != nil {
		return d, err
	}

	gtPass, noCall, err := ip.passesGenotypeAndQuality(sv)
	if err != nil {
		return d, err
	}
	d.NoCallSamples = noCall
	if !gtPass {
		return d, nil
	}

	genes, err := ip.overlappingGenes(sv)
	if err != nil {
		return d, err
	}
	d.OverlappingGenes = genes
	if !ip.passesGeneAllowlist(genes) {
		return d, nil
	}

	counts, ok, err := ip.passesBackgroundCounts(sv)
	if err != nil {
		return d, err
	}
	d.BackgroundCounts = counts
	if !ok {
		return d, nil
	}

	effects, err := ip.transcriptEffects(sv)
	if err != nil {
		return d, err
	}
	d.TranscriptEffectStrings = effects
	if !ip.passesEffectAllowlist(effects) {
		return d, nil
	}

	if ip.DB.Clinvar != nil {
		rcvs, err := ip.DB.Clinvar.OverlappingRCVs(sv, ip.Q.Clinvar.MinPathogenicity, ip.Q.Clinvar.MinOverlap)
		if err != nil {
			return d, err
		}
		d.OverlappingRCVs = rcvs
	}

	if ip.DB.Masked != nil {
		d.MaskedBreakpoints = ip.DB.Masked.CountBreakpoints(sv)
	}
	if ip.Q.TADSet != "" {
		if tad, ok := ip.DB.TAD[ip.Q.TADSet]; ok {
			if dist, found := tad.BoundaryDist(sv, 1_000_000); found {
				v := int32(dist)
				d.TADBoundaryDist = &v
			}
			if ip.DB.Transcripts != nil {
				ranges, err := tad.OverlappingTADs(sv, 50, 50)
				if err != nil {
					return d, err
				}
				seen := make(map[string]bool)
				for _, r := range ranges {
					genes, err := ip.DB.Transcripts.GenesInRange(sv.Chrom, r)
					if err != nil {
						continue
					}
					for _, g := range genes {
						seen[g] = true
					}
				}
				for g := range seen {
					d.TADGenes = append(d.TADGenes, g)
				}
			}
		}
	}

	d.Pass = true
	return d, nil
}

// passesSelection gates on SV type, sub-type, and size range.
func (ip *Interpreter) passesSelection(sv *svrecord.Record) bool {
	if len(ip.Q.SVTypeAllow) > 0 {
		found := false
		for _, t := range ip.Q.SVTypeAllow {
			if t == sv.SVType {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(ip.Q.SVSubTypeAllow) > 0 {
		found := false
		for _, st := range ip.Q.SVSubTypeAllow {
			if st == sv.SubType {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if sv.SVType.IsSizeless() || sv.IsINS() {
		return true
	}
	size, ok := sv.Size()
	if !ok {
		return true
	}
	if ip.Q.SizeMin != nil && size < *ip.Q.SizeMin {
		return false
	}
	if ip.Q.SizeMax != nil && size > *ip.Q.SizeMax {
		return false
	}
	return true
}

// passesRegion gates on the query's region allowlist.
func (ip *Interpreter) passesRegion(sv *svrecord.Record) bool {
	if len(ip.Q.RegionAllow) == 0 {
		return true
	}
	rq := overlap.ForRegion(sv)
	for _, entry := range ip.Q.RegionAllow {
		if !entry.HasRange {
			if entry.Chrom == rq.Chrom && (!sv.IsBND() || entry.Chrom == rq.Chrom2 || rq.Chrom2 == "") {
				return true
			}
			continue
		}
		entryRange := coord.Range{Start: coord.Pos(entry.Start) - 1, End: coord.Pos(entry.End)}
		if entry.Chrom == rq.Chrom && rq.Range.Overlaps(entryRange) {
			return true
		}
		if rq.Second && entry.Chrom == rq.Chrom2 && rq.Range2.Overlaps(entryRange) {
			return true
		}
	}
	return false
}

// passesGenotypeAndQuality resolves and gates genotype and quality
// together. It first resolves the effective genotype for every sample
// named in the genotype-choice map via the criteria table, then gates
// every sample named in the quality map by its thresholds -- the two maps
// are independent, so a sample can appear in one without the other. A
// drop-variant quality failure fails the whole variant immediately.
func (ip *Interpreter) passesGenotypeAndQuality(sv *svrecord.Record) (bool, []string, error) {
	var noCall []string
	var indexGT callinfo.Genotype
	var parentGTs []callinfo.Genotype

	effective := make(map[string]callinfo.Genotype, len(ip.Q.GenotypeChoice))
	for sample, choice := range ip.Q.GenotypeChoice {
		ci, ok := sv.Calls[sample]
		if !ok {
			return false, nil, errkind.E(errkind.Domain, "interpreter: sample not present in variant", sample)
		}
		eff, labels, ok := genotype.EvaluateSample(sv, ip.Q.CriteriaTable, string(choice), ci)
		if !ok {
			switch choice {
			case query.RecessiveIndex, query.ComphetIndex, query.RecessiveParent:
				// recessive evaluation does not require the criteria
				// table; fall through to classify by raw GT below.
			default:
				return false, noCall, nil
			}
		}
		if eff == callinfo.Unknown && ci.GenotypeStr != nil {
			if g, ok := callinfo.ClassifyGT(*ci.GenotypeStr); ok {
				eff = g
			}
		}
		ci.EffectiveGenotype = eff
		ci.MatchedCriteria = labels
		effective[sample] = eff

		switch choice {
		case query.RecessiveIndex, query.ComphetIndex:
			indexGT = eff
		case query.RecessiveParent:
			parentGTs = append(parentGTs, eff)
		}
	}

	for sample, q := range ip.Q.Quality {
		ci, ok := sv.Calls[sample]
		if !ok {
			return false, nil, errkind.E(errkind.Domain, "interpreter: sample not present in variant", sample)
		}
		eff, resolved := effective[sample]
		if !resolved {
			if ci.GenotypeStr != nil {
				if g, ok := callinfo.ClassifyGT(*ci.GenotypeStr); ok {
					eff = g
				}
			}
			ci.EffectiveGenotype = eff
		}
		switch genotype.EvaluateQuality(eff, ci, q.Thresholds, string(q.FailMode)) {
		case genotype.QualityFailDropVariant:
			return false, noCall, nil
		case genotype.QualityFailNoCall:
			noCall = append(noCall, sample)
		}
	}

	if ip.Q.RecessiveMode != query.RecessiveOff {
		arm := genotype.EvaluateRecessive(indexGT, parentGTs)
		switch ip.Q.RecessiveMode {
		case query.CompoundRecessive:
			return arm == genotype.CompoundHet, noCall, nil
		case query.Recessive:
			return arm != genotype.NoArm, noCall, nil
		}
	}
	return true, noCall, nil
}

func (ip *Interpreter) overlappingGenes(sv *svrecord.Record) ([]string, error) {
	if ip.DB.Transcripts == nil {
		return nil, nil
	}
	return ip.DB.Transcripts.OverlappingGenes(sv)
}

// passesGeneAllowlist gates on the query's gene allowlist.
func (ip *Interpreter) passesGeneAllowlist(overlappingGenes []string) bool {
	if len(ip.Q.GeneAllowlist) == 0 {
		return true
	}
	resolved := make(map[string]bool)
	for _, entry := range ip.Q.GeneAllowlist {
		if ip.DB.Genes == nil {
			resolved[entry] = true // unresolved entries pass through literally
			continue
		}
		if rec, ok := ip.DB.Genes.ByHGNC(entry); ok {
			resolved[rec.HGNCID] = true
			continue
		}
		if rec, ok := ip.DB.Genes.ByEntrez(parseUint32(entry)); ok {
			resolved[rec.HGNCID] = true
			continue
		}
	}
	for _, g := range overlappingGenes {
		if resolved[g] {
			return true
		}
	}
	return false
}

func parseUint32(s string) uint32 {
	var v uint32
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0
		}
		v = v*10 + uint32(c-'0')
	}
	return v
}

// passesBackgroundCounts gates on each enabled background database's
// overlap count.
func (ip *Interpreter) passesBackgroundCounts(sv *svrecord.Record) (map[string]uint32, bool, error) {
	counts := make(map[string]uint32, len(ip.Q.Databases))
	for name, toggle := range ip.Q.Databases {
		if !toggle.Enabled {
			continue
		}
		db, ok := ip.DB.Backgrounds[name]
		if !ok {
			continue
		}
		n, err := db.CountOverlaps(sv, 50, 50, toggle.MinOverlap)
		if err != nil {
			return nil, false, err
		}
		counts[name] = n
		if toggle.MaxCount > 0 && n > toggle.MaxCount {
			return counts, false, nil
		}
	}
	return counts, true, nil
}

func (ip *Interpreter) transcriptEffects(sv *svrecord.Record) ([]string, error) {
	if ip.DB.Transcripts == nil {
		return nil, nil
	}
	effs, err := ip.DB.Transcripts.Effects(sv)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(effs))
	for i, e := range effs {
		out[i] = string(e)
	}
	return out, nil
}

// passesEffectAllowlist gates on the query's transcript-effect allowlist.
func (ip *Interpreter) passesEffectAllowlist(effects []string) bool {
	if len(ip.Q.EffectAllowlist) == 0 {
		return true
	}
	for _, e := range effects {
		for _, allowed := range ip.Q.EffectAllowlist {
			if e == allowed {
				return true
			}
		}
	}
	return false
}
