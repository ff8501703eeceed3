package result

// binOffsets and the shift constants implement the UCSC genome-browser
// binning scheme (kent/src/lib/bits.c binFromRangeStandard): coarser bins
// have smaller offsets, covering progressively larger genomic spans.
var binOffsets = [...]int32{512 + 64 + 8 + 1, 64 + 8 + 1, 8 + 1, 1, 0}

const (
	binFirstShift = 17
	binNextShift  = 3
)

// Bin computes the UCSC bin for the half-open range [start, end).
func Bin(start, end int32) int32 {
	if end <= start {
		end = start + 1
	}
	startBin := start >> binFirstShift
	endBin := (end - 1) >> binFirstShift
	for _, offset := range binOffsets {
		if startBin == endBin {
			return offset + startBin
		}
		startBin >>= binNextShift
		endBin >>= binNextShift
	}
	return 0
}
