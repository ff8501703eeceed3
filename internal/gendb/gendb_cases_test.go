package gendb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveByAnyIdentifier(t *testing.T) {
	db := newTestDB([]Record{
		{EntrezID: 672, EnsemblID: 100, HGNCID: "HGNC:1100", Symbol: "BRCA1", IsACMG: true, IsDisease: true},
		{EntrezID: 675, EnsemblID: 101, HGNCID: "HGNC:1101", Symbol: "BRCA2"},
	})

	rec, ok := db.ByEntrez(672)
	assert.True(t, ok)
	assert.Equal(t, "BRCA1", rec.Symbol)

	rec, ok = db.ByEnsembl(101)
	assert.True(t, ok)
	assert.Equal(t, "BRCA2", rec.Symbol)

	rec, ok = db.ByHGNC("HGNC:1100")
	assert.True(t, ok)
	assert.Equal(t, "BRCA1", rec.Symbol)

	_, ok = db.ByEntrez(999)
	assert.False(t, ok)
}

func TestACMGAndDiseaseFlags(t *testing.T) {
	db := newTestDB([]Record{
		{HGNCID: "HGNC:1100", IsACMG: true, IsDisease: true},
		{HGNCID: "HGNC:1101"},
	})
	assert.True(t, db.IsACMG("HGNC:1100"))
	assert.True(t, db.IsDiseaseGene("HGNC:1100"))
	assert.False(t, db.IsACMG("HGNC:1101"))
	assert.False(t, db.IsDiseaseGene("HGNC:1101"))
}
