// Package svrecord defines the structural-variant input record consumed by
// the query interpreter. It is populated upstream by a VCF reader; this
// package only defines the shape, since VCF parsing is an external
// collaborator.
package svrecord

import (
	"strings"

	"github.com/bio-sv/svquery/internal/callinfo"
	"github.com/bio-sv/svquery/internal/svtype"
)

// Strand is the breakend strand orientation.
type Strand uint8

const (
	NotApplicable Strand = iota
	ThreeToThree
	FiveToFive
	ThreeToFive
	FiveToThree
)

var strandNames = [...]string{"NotApplicable", "3to3", "5to5", "3to5", "5to3"}

// String renders the strand label.
func (s Strand) String() string {
	if int(s) >= len(strandNames) {
		return "NotApplicable"
	}
	return strandNames[s]
}

// Record is one structural variant with its per-sample call support.
//
// JSON shape matches a flattened VCF record: the fields below are what an
// upstream VCF-to-JSONL adapter (out of scope here, per this package's
// doc comment) is expected to emit, one record per line.
type Record struct {
	Chrom   string                         `json:"chrom"`
	Pos     int32                          `json:"pos"` // 1-based
	Chrom2  string                         `json:"chrom2,omitempty"`
	End     int32                          `json:"end"` // end position, or second breakpoint for BND
	SVType  svtype.Type                    `json:"sv_type"`
	SubType string                         `json:"sub_type,omitempty"` // refinement, e.g. "DEL:ME:ALU", "INS:ME:L1", "DUP:TANDEM"
	Strand  Strand                         `json:"strand,omitempty"`
	Callers []string                       `json:"callers,omitempty"`
	Calls   map[string]*callinfo.CallInfo  `json:"calls"`
}

// isInsLike reports whether sub matches the INS-like refinement rule: a
// sub-type whose family prefix is INS even when the top-level SVType field
// says otherwise (upstream annotators sometimes only populate ALT/INFO
// sub-type fields precisely).
func isInsLike(sub string) bool {
	return strings.HasPrefix(sub, "INS")
}

// HasSize reports whether this record's size is defined: false for INS
// and BND (and any INS-like sub-type), true otherwise.
func (r *Record) HasSize() bool {
	if r.SVType.IsSizeless() {
		return false
	}
	if isInsLike(r.SubType) {
		return false
	}
	return true
}

// Size returns the SV's length (End - Pos + 1) and whether it is defined.
func (r *Record) Size() (int64, bool) {
	if !r.HasSize() {
		return 0, false
	}
	return int64(r.End) - int64(r.Pos) + 1, true
}

// IsBND reports whether this is a breakend (single-breakpoint) record.
func (r *Record) IsBND() bool {
	return r.SVType == svtype.BND
}

// IsINS reports whether this is an insertion (single-breakpoint, no
// reciprocal-overlap semantics) record, including INS-like sub-types.
func (r *Record) IsINS() bool {
	return r.SVType == svtype.INS || isInsLike(r.SubType)
}
