// Package txdb implements the transcript database and the gene-overlap /
// transcript-effect computation: per-transcript genome-alignment exons
// indexed by a per-chromosome interval tree, with region decomposition
// into upstream/downstream/exon/intron/splice windows.
package txdb

import (
	"sort"

	"github.com/bio-sv/svquery/internal/chrom"
	"github.com/bio-sv/svquery/internal/coord"
	"github.com/bio-sv/svquery/internal/errkind"
	"github.com/bio-sv/svquery/internal/itree"
	"github.com/bio-sv/svquery/internal/svrecord"
	"github.com/bio-sv/svquery/internal/wire"
)

// Upstream/downstream flank applied to the first/last exon and to BND/INS
// breakpoints when resolving overlapping genes.
const XStream = 5000

// Strand is the transcript's genomic strand.
type Strand uint8

const (
	Plus Strand = iota
	Minus
)

// Effect is a transcript-effect tag.
type Effect string

const (
	Upstream      Effect = "upstream_variant"
	Downstream    Effect = "downstream_variant"
	Exon          Effect = "exon_variant"
	Intron        Effect = "intron_variant"
	SpliceRegion  Effect = "splice_region_variant"
	Transcript    Effect = "transcript_variant"
	Intergenic    Effect = "intergenic_variant"
)

// Exon is one 0-based genome-alignment exon.
type Exon struct {
	AltStart, AltEnd int32
}

// Transcript is one precomputed transcript record.
type Transcript struct {
	Accession string
	HGNCGene  string
	ChromNo   int
	Strand    Strand
	Exons     []Exon // sorted by AltStart ascending
}

// span returns the transcript's genomic extent, [min AltStart, max AltEnd).
func (t *Transcript) span() coord.Range {
	lo, hi := t.Exons[0].AltStart, t.Exons[0].AltEnd
	for _, e := range t.Exons[1:] {
		if e.AltStart < lo {
			lo = e.AltStart
		}
		if e.AltEnd > hi {
			hi = e.AltEnd
		}
	}
	return coord.Range{Start: coord.Pos(lo), End: coord.Pos(hi)}
}

// taggedRegion is one labeled half-open interval derived from a transcript's
// exon structure.
type taggedRegion struct {
	r      coord.Range
	effect Effect
}

// regions decomposes the transcript's exon list into tagged windows: a
// flanking upstream/downstream window on each end, one exon_variant
// window per exon, one intron_variant window per gap, and a
// splice_region_variant window around each interior exon boundary.
func (t *Transcript) regions() []taggedRegion {
	exons := append([]Exon(nil), t.Exons...)
	sort.Slice(exons, func(i, j int) bool { return exons[i].AltStart < exons[j].AltStart })

	var out []taggedRegion
	first, last := exons[0], exons[len(exons)-1]

	firstFlank := coord.Range{Start: coord.Pos(first.AltStart) - XStream, End: coord.Pos(first.AltStart)}
	lastFlank := coord.Range{Start: coord.Pos(last.AltEnd), End: coord.Pos(last.AltEnd) + XStream}
	if t.Strand == Plus {
		out = append(out, taggedRegion{firstFlank, Upstream}, taggedRegion{lastFlank, Downstream})
	} else {
		out = append(out, taggedRegion{firstFlank, Downstream}, taggedRegion{lastFlank, Upstream})
	}

	for i, e := range exons {
		out = append(out, taggedRegion{
			r:      coord.Range{Start: coord.Pos(e.AltStart) - 1, End: coord.Pos(e.AltEnd)},
			effect: Exon,
		})
		if i > 0 {
			prev := exons[i-1]
			out = append(out, taggedRegion{
				r:      coord.Range{Start: coord.Pos(prev.AltEnd), End: coord.Pos(e.AltStart) - 1},
				effect: Intron,
			})
			out = append(out, taggedRegion{
				r:      coord.Range{Start: coord.Pos(prev.AltEnd) - 3, End: coord.Pos(prev.AltEnd) + 8},
				effect: SpliceRegion,
			})
			out = append(out, taggedRegion{
				r:      coord.Range{Start: coord.Pos(e.AltStart) - 1 - 8, End: coord.Pos(e.AltStart) - 1 + 3},
				effect: SpliceRegion,
			})
		}
	}
	return out
}

// EffectAt returns the deduplicated effect set at breakpoint position p
// (the set of region tags whose interval contains p−1), or {Intergenic} if
// none match.
func (t *Transcript) EffectAt(p coord.Pos) []Effect {
	point := p - 1
	seen := make(map[Effect]bool)
	for _, reg := range t.regions() {
		if point >= reg.r.Start && point < reg.r.End {
			seen[reg.effect] = true
		}
	}
	return dedupSorted(seen)
}

// EffectRange returns the deduplicated effect set for a linear SV spanning
// [pos, end): the union of tags whose interval intersects [pos−1, end),
// with transcript_variant added when both upstream and downstream appear.
func (t *Transcript) EffectRange(r coord.Range) []Effect {
	qr := coord.Range{Start: r.Start - 1, End: r.End}
	seen := make(map[Effect]bool)
	for _, reg := range t.regions() {
		if reg.r.Overlaps(qr) {
			seen[reg.effect] = true
		}
	}
	if seen[Upstream] && seen[Downstream] {
		seen[Transcript] = true
	}
	return dedupSorted(seen)
}

func dedupSorted(seen map[Effect]bool) []Effect {
	if len(seen) == 0 {
		return []Effect{Intergenic}
	}
	out := make([]Effect, 0, len(seen))
	for e := range seen {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// DB is the transcript database: transcripts grouped per chromosome with a
// parallel interval tree over each transcript's genomic span.
type DB struct {
	transcripts [][]Transcript
	trees       []itree.Tree
}

// Load decodes transcripts into the per-chromosome trees. Transcripts are
// carried as a TranscriptMessage-shaped wire payload; reuse of the existing
// gogo/protobuf reflection marshal keeps the on-disk layout uniform with
// the other databases.
func Load(path string) (*DB, error) {
	var msg wire.TranscriptMessage
	if err := wire.ReadMessageFile(path, &msg); err != nil {
		return nil, err
	}
	db := &DB{
		transcripts: make([][]Transcript, chrom.N),
		trees:       make([]itree.Tree, chrom.N),
	}
	for _, rec := range msg.Records {
		if int(rec.ChromNo) >= chrom.N {
			return nil, errkind.E(errkind.Decode, "txdb: chromosome index out of range")
		}
		exons := make([]Exon, len(rec.Exons))
		for i, e := range rec.Exons {
			exons[i] = Exon{AltStart: e.AltStart, AltEnd: e.AltEnd}
		}
		strand := Plus
		if rec.Strand == 1 {
			strand = Minus
		}
		tx := Transcript{
			Accession: rec.Accession,
			HGNCGene:  rec.HgncId,
			ChromNo:   int(rec.ChromNo),
			Strand:    strand,
			Exons:     exons,
		}
		idx := len(db.transcripts[rec.ChromNo])
		db.transcripts[rec.ChromNo] = append(db.transcripts[rec.ChromNo], tx)
		db.trees[rec.ChromNo].Insert(tx.span(), uint32(idx))
	}
	for i := range db.trees {
		db.trees[i].Index()
	}
	return db, nil
}

// queryRange mirrors tadset's per-SV-type breakpoint extraction, used here
// to expand the query range by XStream around single breakpoints.
func queryRange(sv *svrecord.Record) (chromLabel string, r coord.Range, chrom2Label string, r2 coord.Range, hasSecond bool) {
	switch {
	case sv.IsBND():
		p := coord.Pos(sv.Pos)
		chrom2 := sv.Chrom2
		if chrom2 == "" {
			chrom2 = sv.Chrom
		}
		e := coord.Pos(sv.End)
		return sv.Chrom, coord.Range{Start: p - XStream, End: p + XStream}, chrom2, coord.Range{Start: e - XStream, End: e + XStream}, true
	case sv.IsINS():
		p := coord.Pos(sv.Pos)
		return sv.Chrom, coord.Range{Start: p - XStream, End: p + XStream}, "", coord.Range{}, false
	default:
		return sv.Chrom, coord.Range{Start: coord.Pos(sv.Pos) - 1 - XStream, End: coord.Pos(sv.End) + XStream}, "", coord.Range{}, false
	}
}

// overlappingTranscripts returns every transcript (on possibly two
// chromosomes, for BND) whose genomic span intersects sv's XStream-expanded
// range.
func (db *DB) overlappingTranscripts(sv *svrecord.Record) ([]*Transcript, error) {
	c1, r1, c2, r2, hasSecond := queryRange(sv)
	out, err := db.fetchByLabel(c1, r1)
	if err != nil {
		return nil, err
	}
	if hasSecond {
		second, err := db.fetchByLabel(c2, r2)
		if err != nil {
			return nil, err
		}
		out = append(out, second...)
	}
	return out, nil
}

func (db *DB) fetchByLabel(label string, r coord.Range) ([]*Transcript, error) {
	chromNo, err := chrom.Index(label)
	if err != nil {
		return nil, err
	}
	idxs := db.trees[chromNo].Query(r)
	out := make([]*Transcript, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, &db.transcripts[chromNo][i])
	}
	return out, nil
}

// OverlappingGenes returns the deduplicated, sorted HGNC gene ids for every
// transcript overlapping sv's XStream-expanded range.
func (db *DB) OverlappingGenes(sv *svrecord.Record) ([]string, error) {
	txs, err := db.overlappingTranscripts(sv)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for _, tx := range txs {
		if tx.HGNCGene != "" {
			seen[tx.HGNCGene] = true
		}
	}
	out := make([]string, 0, len(seen))
	for g := range seen {
		out = append(out, g)
	}
	sort.Strings(out)
	return out, nil
}

// GenesInRange returns the deduplicated, sorted HGNC gene ids for every
// transcript overlapping r on chromLabel, with no XStream flank applied.
// Used to annotate TAD-domain gene membership.
func (db *DB) GenesInRange(chromLabel string, r coord.Range) ([]string, error) {
	txs, err := db.fetchByLabel(chromLabel, r)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for _, tx := range txs {
		if tx.HGNCGene != "" {
			seen[tx.HGNCGene] = true
		}
	}
	out := make([]string, 0, len(seen))
	for g := range seen {
		out = append(out, g)
	}
	sort.Strings(out)
	return out, nil
}

// GeneTranscriptEffects is the per-gene grouping of computed effects for
// one SV.
type GeneTranscriptEffects struct {
	HGNCGene string
	Effects  []Effect
}

// Effects computes the transcript-effect set for sv. For BND/INS, the
// effect is computed at the single breakpoint (or breakpoints, for BND) and
// grouped per HGNC gene id; for linear SVs it is the union across
// [pos−1, end) for every overlapping transcript.
func (db *DB) Effects(sv *svrecord.Record) ([]Effect, error) {
	txs, err := db.overlappingTranscripts(sv)
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return []Effect{Intergenic}, nil
	}
	if sv.IsBND() || sv.IsINS() {
		byGene, err := db.effectsByGene(sv, txs)
		if err != nil {
			return nil, err
		}
		seen := make(map[Effect]bool)
		for _, ge := range byGene {
			for _, e := range ge.Effects {
				seen[e] = true
			}
		}
		return dedupSorted(seen), nil
	}
	r := coord.Range{Start: coord.Pos(sv.Pos), End: coord.Pos(sv.End)}
	seen := make(map[Effect]bool)
	for _, tx := range txs {
		for _, e := range tx.EffectRange(r) {
			if e != Intergenic {
				seen[e] = true
			}
		}
	}
	return dedupSorted(seen), nil
}

// EffectsByGene groups the computed transcript effects for sv by HGNC gene
// id, for the result payload's per-gene transcript_effects list. BND/INS
// breakpoints are grouped per-breakpoint; linear SVs are grouped by the
// union of per-transcript effects over [pos-1, end).
func (db *DB) EffectsByGene(sv *svrecord.Record) ([]GeneTranscriptEffects, error) {
	txs, err := db.overlappingTranscripts(sv)
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return nil, nil
	}
	if sv.IsBND() || sv.IsINS() {
		return db.effectsByGene(sv, txs)
	}
	r := coord.Range{Start: coord.Pos(sv.Pos), End: coord.Pos(sv.End)}
	byGene := make(map[string]map[Effect]bool)
	for _, tx := range txs {
		if tx.HGNCGene == "" {
			continue
		}
		if byGene[tx.HGNCGene] == nil {
			byGene[tx.HGNCGene] = make(map[Effect]bool)
		}
		for _, e := range tx.EffectRange(r) {
			if e != Intergenic {
				byGene[tx.HGNCGene][e] = true
			}
		}
	}
	out := make([]GeneTranscriptEffects, 0, len(byGene))
	for gene, effs := range byGene {
		out = append(out, GeneTranscriptEffects{HGNCGene: gene, Effects: dedupSorted(effs)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].HGNCGene < out[j].HGNCGene })
	return out, nil
}

// effectsByGene groups per-breakpoint effects by HGNC gene id, one
// GeneTranscriptEffects record per gene, for BND/INS.
func (db *DB) effectsByGene(sv *svrecord.Record, txs []*Transcript) ([]GeneTranscriptEffects, error) {
	byGene := make(map[string]map[Effect]bool)
	add := func(gene string, effs []Effect) {
		if byGene[gene] == nil {
			byGene[gene] = make(map[Effect]bool)
		}
		for _, e := range effs {
			if e != Intergenic {
				byGene[gene][e] = true
			}
		}
	}
	for _, tx := range txs {
		if tx.ChromNo == mustIndex(sv.Chrom) {
			add(tx.HGNCGene, tx.EffectAt(coord.Pos(sv.Pos)))
		}
		if sv.IsBND() {
			secondChrom := sv.Chrom2
			if secondChrom == "" {
				secondChrom = sv.Chrom
			}
			if tx.ChromNo == mustIndex(secondChrom) {
				add(tx.HGNCGene, tx.EffectAt(coord.Pos(sv.End)))
			}
		}
	}
	out := make([]GeneTranscriptEffects, 0, len(byGene))
	for gene, effs := range byGene {
		list := dedupSorted(effs)
		out = append(out, GeneTranscriptEffects{HGNCGene: gene, Effects: list})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].HGNCGene < out[j].HGNCGene })
	return out, nil
}

func mustIndex(label string) int {
	idx, err := chrom.Index(label)
	if err != nil {
		return -1
	}
	return idx
}
