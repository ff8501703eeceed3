// Package chrom canonicalizes chromosome labels to the fixed 0..24 index
// space used by every per-chromosome database in this module (autosomes
// 1-22, X, Y, MT).
package chrom

import (
	"strings"

	"github.com/bio-sv/svquery/internal/errkind"
)

// N is the number of recognized chromosomes (1-22, X, Y, MT).
const N = 25

// X, Y and MT are the fixed indices for the sex chromosomes and the
// mitochondrial genome; autosomes 1-22 occupy indices 0-21.
const (
	X  = 22
	Y  = 23
	MT = 24
)

var aliases = map[string]int{
	"x": X, "chrx": X,
	"y": Y, "chry": Y,
	"m": MT, "mt": MT, "chrm": MT, "chrmt": MT,
}

// Index returns the canonical 0..24 index for a chromosome label. It accepts
// "1".."22", "X", "Y", "M"/"MT" and their "chr"-prefixed variants; lookup is
// case-insensitive for X/Y/M. An unrecognized label is a DomainError.
func Index(label string) (int, error) {
	if label == "" {
		return 0, errkind.E(errkind.Domain, "chrom: empty chromosome label")
	}
	trimmed := strings.TrimPrefix(strings.TrimPrefix(label, "chr"), "Chr")
	if trimmed == label {
		trimmed = strings.TrimPrefix(label, "CHR")
	}
	lower := strings.ToLower(trimmed)
	if idx, ok := aliases[lower]; ok {
		return idx, nil
	}
	if idx, ok := aliases["chr"+lower]; ok {
		return idx, nil
	}
	n := 0
	for _, r := range trimmed {
		if r < '0' || r > '9' {
			return 0, errkind.E(errkind.Domain, "chrom: unrecognized chromosome label", label)
		}
		n = n*10 + int(r-'0')
	}
	if n < 1 || n > 22 {
		return 0, errkind.E(errkind.Domain, "chrom: chromosome number out of range", label)
	}
	return n - 1, nil
}

// Name returns the canonical display name ("1".."22","X","Y","MT") for an
// index produced by Index.
func Name(idx int) string {
	switch idx {
	case X:
		return "X"
	case Y:
		return "Y"
	case MT:
		return "MT"
	default:
		return itoa(idx + 1)
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
