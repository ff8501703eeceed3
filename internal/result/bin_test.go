package result

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBinSameCoarseBinForNearbyRange(t *testing.T) {
	assert.Equal(t, Bin(1000, 1001), Bin(1000, 1050))
}

func TestBinDiffersAcrossChromosomeScaleRanges(t *testing.T) {
	assert.NotEqual(t, Bin(0, 1), Bin(100_000_000, 100_000_001))
}

func TestBinDegenerateRangeTreatedAsOneBase(t *testing.T) {
	assert.Equal(t, Bin(500, 500), Bin(500, 501))
}
