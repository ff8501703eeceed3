package pedigree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsDuplicateNames(t *testing.T) {
	_, err := New([]Member{{Name: "index"}, {Name: "index"}})
	assert.Error(t, err)
}

func TestParentsResolvesTrio(t *testing.T) {
	p, err := New([]Member{
		{Name: "index", FatherName: "father", MotherName: "mother", Sex: Male},
		{Name: "father", Sex: Male},
		{Name: "mother", Sex: Female},
	})
	require.NoError(t, err)
	f, m := p.Parents("index")
	assert.Equal(t, "father", f)
	assert.Equal(t, "mother", m)
}

func TestIsSexChromosome(t *testing.T) {
	assert.True(t, IsSexChromosome("chrX"))
	assert.True(t, IsSexChromosome("Y"))
	assert.False(t, IsSexChromosome("1"))
	assert.False(t, IsSexChromosome("MT"))
}
