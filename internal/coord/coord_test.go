package coord

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReciprocalOverlapSymmetry(t *testing.T) {
	cases := []struct {
		a, b Range
	}{
		{Range{0, 10}, Range{0, 10}},
		{Range{0, 10}, Range{5, 15}},
		{Range{0, 10}, Range{20, 30}},
		{Range{999, 2000}, Range{1099, 1900}},
	}
	for _, c := range cases {
		assert.Equal(t, c.a.ReciprocalOverlap(c.b), c.b.ReciprocalOverlap(c.a))
	}
}

func TestReciprocalOverlapSelf(t *testing.T) {
	r := Range{1000, 2000}
	assert.Equal(t, float32(1), r.ReciprocalOverlap(r))
}

func TestReciprocalOverlapDisjoint(t *testing.T) {
	a := Range{0, 10}
	b := Range{10, 20}
	assert.Equal(t, float32(0), a.ReciprocalOverlap(b))
}

func TestReciprocalOverlapS1(t *testing.T) {
	// DB chr1:1000-2000 (1-based) is [999,2000), 1001 bp; SV chr1:1100-1900
	// is [1099,1900), 801 bp, fully inside the DB range: ro = 801/1001.
	db := FromOneBased(1000, 2000)
	sv := FromOneBased(1100, 1900)
	assert.InDelta(t, 801.0/1001.0, float64(db.ReciprocalOverlap(sv)), 1e-6)
}

func TestOneBasedUnitOverlap(t *testing.T) {
	// "A background record with start=1, stop=1 and an input SV with
	// pos=1, end=1 counts as a 1-bp overlap with ro=1."
	db := FromOneBased(1, 1)
	sv := FromOneBased(1, 1)
	assert.Equal(t, Range{0, 1}, db)
	assert.Equal(t, float32(1), db.ReciprocalOverlap(sv))
}

func TestSubSlackSaturates(t *testing.T) {
	assert.Equal(t, Pos(0), SubSlack(5, 50))
	assert.Equal(t, Pos(950), SubSlack(1000, 50))
}
