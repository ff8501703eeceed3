// Package svtype defines the structural-variant type enumeration shared by
// every on-disk record format and the query interpreter.
package svtype

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Type is a structural variant type. Its numeric values match the on-disk
// enum (DEL=0, DUP=1, INV=2, INS=3, BND=4, CNV=5).
type Type uint8

const (
	DEL Type = iota
	DUP
	INV
	INS
	BND
	CNV
)

func (t Type) String() string {
	switch t {
	case DEL:
		return "DEL"
	case DUP:
		return "DUP"
	case INV:
		return "INV"
	case INS:
		return "INS"
	case BND:
		return "BND"
	case CNV:
		return "CNV"
	default:
		return "UNKNOWN"
	}
}

// Parse maps a case-insensitive type label to a Type.
func Parse(s string) (Type, bool) {
	switch strings.ToUpper(s) {
	case "DEL", "del":
		return DEL, true
	case "DUP", "dup":
		return DUP, true
	case "INV", "inv":
		return INV, true
	case "INS", "ins":
		return INS, true
	case "BND", "bnd":
		return BND, true
	case "CNV", "cnv":
		return CNV, true
	default:
		return 0, false
	}
}

// MarshalJSON renders t as its string label, so query JSON documents write
// SV types the way a human configures them ("DEL", not 0).
func (t Type) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON parses a string label into t.
func (t *Type) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, ok := Parse(s)
	if !ok {
		return fmt.Errorf("svtype: unrecognized SV type %q", s)
	}
	*t = v
	return nil
}

// IsSizeless reports whether size is undefined for this type: true for INS
// and BND, and (by the same "INS-like" rule) any sub-type tagged as an
// insertion refinement is handled by the caller.
func (t Type) IsSizeless() bool {
	return t == INS || t == BND
}

// compatible is the symmetric SV-type compatibility table: {DEL,DEL}
// {DUP,DUP} {INV,INV} {INS,INS} {BND,BND} {CNV,CNV} {DEL,CNV} {DUP,CNV}.
// All other pairings, notably DEL-DUP, are incompatible.
var compatible = map[[2]Type]bool{
	{DEL, DEL}: true,
	{DUP, DUP}: true,
	{INV, INV}: true,
	{INS, INS}: true,
	{BND, BND}: true,
	{CNV, CNV}: true,
	{DEL, CNV}: true,
	{CNV, DEL}: true,
	{DUP, CNV}: true,
	{CNV, DUP}: true,
}

// Compatible reports whether a and b may be compared for database overlap
// counting. It is reflexive and symmetric by construction.
func Compatible(a, b Type) bool {
	return compatible[[2]Type{a, b}]
}
