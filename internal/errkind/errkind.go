// Package errkind names the error categories from which every error raised
// by this module is built, and wraps github.com/grailbio/base/errors.E with
// them: a short context string tag rather than a bespoke error type per
// package.
package errkind

import "github.com/grailbio/base/errors"

// Kind is a short, stable tag identifying the semantic category of an
// error, matched against in tests and printed as part of the error chain.
type Kind string

const (
	// IO tags missing/unreadable database files and output write failures.
	IO Kind = "io"
	// Decode tags malformed binary messages, bad TSV rows and JSON parse
	// failures.
	Decode Kind = "decode"
	// Config tags missing required configuration fields and checksum
	// mismatches.
	Config Kind = "config"
	// Domain tags sample-set mismatches, unknown chromosomes, unmappable SV
	// types and invalid genotype strings.
	Domain Kind = "domain"
)

// E constructs an error tagged with kind, following the call convention of
// github.com/grailbio/base/errors.E: args may include an underlying error
// and any number of string context fragments.
func E(kind Kind, args ...interface{}) error {
	all := make([]interface{}, 0, len(args)+1)
	all = append(all, string(kind)+":")
	all = append(all, args...)
	return errors.E(all...)
}
