// Package pedigree carries the case-level sample structure: an index
// sample, its parents, and each sample's sex, used by the sex-chromosome
// carrier rule in the in-house aggregation pipeline.
package pedigree

import "github.com/bio-sv/svquery/internal/errkind"

// Sex is a pedigree member's recorded sex.
type Sex uint8

const (
	Unknown Sex = iota
	Male
	Female
)

// Member is one pedigree entry.
type Member struct {
	Name       string `json:"name"`
	Sex        Sex    `json:"sex,omitempty"`
	FatherName string `json:"father,omitempty"`
	MotherName string `json:"mother,omitempty"`
}

// Pedigree is the case's full sample set, resolved once per case.
type Pedigree struct {
	Members []Member
	byName  map[string]*Member
}

// New indexes members by name. Fails if any two members share a name.
func New(members []Member) (*Pedigree, error) {
	p := &Pedigree{Members: members, byName: make(map[string]*Member, len(members))}
	for i := range members {
		m := &members[i]
		if _, dup := p.byName[m.Name]; dup {
			return nil, errkind.E(errkind.Config, "pedigree: duplicate sample name", m.Name)
		}
		p.byName[m.Name] = m
	}
	return p, nil
}

// Member looks up a sample by name.
func (p *Pedigree) Member(name string) (Member, bool) {
	m, ok := p.byName[name]
	if !ok {
		return Member{}, false
	}
	return *m, true
}

// Parents returns the named father/mother sample names for index, in the
// order {father, mother}; an empty string marks an absent parent.
func (p *Pedigree) Parents(index string) (father, mother string) {
	m, ok := p.byName[index]
	if !ok {
		return "", ""
	}
	return m.FatherName, m.MotherName
}

// IsSexChromosome reports whether chromLabel names a sex chromosome, used
// by the in-house aggregation's hemizygous carrier-counting rule (§4.6).
func IsSexChromosome(chromLabel string) bool {
	switch chromLabel {
	case "X", "chrX", "x", "chrx", "Y", "chrY", "y", "chry":
		return true
	default:
		return false
	}
}
