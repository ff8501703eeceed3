package txdb

import (
	"testing"

	"github.com/bio-sv/svquery/internal/chrom"
	"github.com/bio-sv/svquery/internal/coord"
	"github.com/bio-sv/svquery/internal/itree"
	"github.com/bio-sv/svquery/internal/svrecord"
	"github.com/bio-sv/svquery/internal/svtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(txs []Transcript) *DB {
	db := &DB{
		transcripts: make([][]Transcript, chrom.N),
		trees:       make([]itree.Tree, chrom.N),
	}
	for _, tx := range txs {
		idx := len(db.transcripts[tx.ChromNo])
		db.transcripts[tx.ChromNo] = append(db.transcripts[tx.ChromNo], tx)
		db.trees[tx.ChromNo].Insert(tx.span(), uint32(idx))
	}
	for i := range db.trees {
		db.trees[i].Index()
	}
	return db
}

func plusStrandTx() Transcript {
	return Transcript{
		Accession: "NM_000001",
		HGNCGene:  "HGNC:1",
		ChromNo:   0,
		Strand:    Plus,
		Exons: []Exon{
			{AltStart: 10000, AltEnd: 10100},
			{AltStart: 11000, AltEnd: 11100},
			{AltStart: 12000, AltEnd: 12100},
		},
	}
}

func TestOverlappingGenesDeduplicatesAndSorts(t *testing.T) {
	db := newTestDB([]Transcript{
		plusStrandTx(),
		{Accession: "NM_000002", HGNCGene: "HGNC:2", ChromNo: 0, Strand: Plus,
			Exons: []Exon{{AltStart: 10050, AltEnd: 10200}}},
	})
	sv := &svrecord.Record{Chrom: "1", Pos: 10050, End: 10060, SVType: svtype.DEL}
	genes, err := db.OverlappingGenes(sv)
	require.NoError(t, err)
	assert.Equal(t, []string{"HGNC:1", "HGNC:2"}, genes)
}

func TestEffectAtExonIsExonVariant(t *testing.T) {
	tx := plusStrandTx()
	effs := tx.EffectAt(10050)
	assert.Contains(t, effs, Exon)
}

func TestEffectAtIntronIsIntronVariant(t *testing.T) {
	tx := plusStrandTx()
	effs := tx.EffectAt(10500)
	assert.Contains(t, effs, Intron)
}

func TestEffectAtFarUpstreamIsIntergenic(t *testing.T) {
	tx := plusStrandTx()
	effs := tx.EffectAt(1)
	assert.Equal(t, []Effect{Intergenic}, effs)
}

func TestEffectAtPlusStrandFlanksAreUpstreamDownstream(t *testing.T) {
	tx := plusStrandTx()
	assert.Contains(t, tx.EffectAt(9000), Upstream)
	assert.Contains(t, tx.EffectAt(12150), Downstream)
}

func TestEffectAtMinusStrandFlanksAreSwapped(t *testing.T) {
	tx := plusStrandTx()
	tx.Strand = Minus
	assert.Contains(t, tx.EffectAt(9000), Downstream)
	assert.Contains(t, tx.EffectAt(12150), Upstream)
}

func TestEffectRangeAddsTranscriptVariantWhenSpanningBothFlanks(t *testing.T) {
	tx := plusStrandTx()
	effs := tx.EffectRange(coord.Range{Start: 9000, End: 12150})
	assert.Contains(t, effs, Transcript)
	assert.Contains(t, effs, Upstream)
	assert.Contains(t, effs, Downstream)
}

func TestEffectsForBNDGroupsPerGene(t *testing.T) {
	db := newTestDB([]Transcript{plusStrandTx()})
	sv := &svrecord.Record{Chrom: "1", Pos: 10050, Chrom2: "1", End: 10050, SVType: svtype.BND}
	effs, err := db.Effects(sv)
	require.NoError(t, err)
	assert.Contains(t, effs, Exon)
}

func TestEffectsNoOverlapIsIntergenic(t *testing.T) {
	db := newTestDB([]Transcript{plusStrandTx()})
	sv := &svrecord.Record{Chrom: "1", Pos: 100000, End: 100010, SVType: svtype.DEL}
	effs, err := db.Effects(sv)
	require.NoError(t, err)
	assert.Equal(t, []Effect{Intergenic}, effs)
}
