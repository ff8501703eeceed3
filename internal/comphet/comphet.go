// Package comphet implements the case-level compound-heterozygous pairing
// pass: a post-processing step over an already-collected slice of passing
// result records, grouped by overlapping HGNC gene id. It is not invoked
// from the streaming query loop, which never buffers the full result set;
// callers run it as a separate step over a completed run's per-gene
// subset.
package comphet

// Variant is the minimal shape comphet.Pair needs from a passing result
// record: its gene memberships and the index sample's genotype string.
type Variant struct {
	ID             string
	Genes          []string
	IndexGenotype  string
}

// Confirmation is one confirmed compound-heterozygous hit.
type Confirmation struct {
	HGNCGene string
	Variants []Variant
}

// Pair groups variants by overlapping HGNC gene id and confirms a gene only
// when at least two variants group under it and, restricted to the index
// sample, their genotypes are not identical -- this excludes a single het
// call being paired with itself.
func Pair(variants []Variant) []Confirmation {
	byGene := make(map[string][]Variant)
	for _, v := range variants {
		for _, g := range v.Genes {
			byGene[g] = append(byGene[g], v)
		}
	}
	var out []Confirmation
	for gene, vs := range byGene {
		if len(vs) < 2 {
			continue
		}
		if allSameGenotype(vs) {
			continue
		}
		out = append(out, Confirmation{HGNCGene: gene, Variants: vs})
	}
	return out
}

func allSameGenotype(vs []Variant) bool {
	first := vs[0].IndexGenotype
	for _, v := range vs[1:] {
		if v.IndexGenotype != first {
			return false
		}
	}
	return true
}
