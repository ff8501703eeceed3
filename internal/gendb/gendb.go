// Package gendb implements the gene cross-link table: Entrez, ENSEMBL and
// HGNC identifiers resolved to a common record, plus the
// ACMG-secondary-findings and disease-gene flag sets.
package gendb

import (
	"github.com/bio-sv/svquery/internal/errkind"
	"github.com/bio-sv/svquery/internal/wire"
	"github.com/biogo/store/llrb"
)

// Record is one gene cross-link entry.
type Record struct {
	EntrezID   uint32
	EnsemblID  uint32
	HGNCID     string
	Symbol     string
	IsACMG     bool
	IsDisease  bool
}

type uintKey uint32

func (k uintKey) Compare(c llrb.Comparable) int {
	o := c.(uintKey)
	switch {
	case k < o:
		return -1
	case k > o:
		return 1
	default:
		return 0
	}
}

type stringKey string

func (k stringKey) Compare(c llrb.Comparable) int {
	o := c.(stringKey)
	switch {
	case k < o:
		return -1
	case k > o:
		return 1
	default:
		return 0
	}
}

type entrezEntry struct {
	key uintKey
	idx int
}

func (e entrezEntry) Compare(c llrb.Comparable) int { return e.key.Compare(c.(entrezEntry).key) }

type ensemblEntry struct {
	key uintKey
	idx int
}

func (e ensemblEntry) Compare(c llrb.Comparable) int { return e.key.Compare(c.(ensemblEntry).key) }

type hgncEntry struct {
	key stringKey
	idx int
}

func (e hgncEntry) Compare(c llrb.Comparable) int { return e.key.Compare(c.(hgncEntry).key) }

// DB is the gene cross-link table: one record vector plus three ordered
// indices (github.com/biogo/store/llrb) resolving Entrez/ENSEMBL/HGNC ids
// to a record position.
type DB struct {
	records    []Record
	byEntrez   llrb.Tree
	byEnsembl  llrb.Tree
	byHGNC     llrb.Tree
	acmgHGNC   map[string]bool
	diseaseSet map[string]bool
}

// Load decodes a GeneCrossLinkMessage and builds the three indices plus the
// ACMG/disease-gene sets.
func Load(path string) (*DB, error) {
	var msg wire.GeneCrossLinkMessage
	if err := wire.ReadMessageFile(path, &msg); err != nil {
		return nil, err
	}
	db := &DB{
		acmgHGNC:   make(map[string]bool),
		diseaseSet: make(map[string]bool),
	}
	for _, rec := range msg.Records {
		idx := len(db.records)
		db.records = append(db.records, Record{
			EntrezID:  rec.EntrezId,
			EnsemblID: rec.EnsemblId,
			HGNCID:    rec.HgncId,
			Symbol:    rec.Symbol,
			IsACMG:    rec.IsAcmg,
			IsDisease: rec.IsDisease,
		})
		if rec.EntrezId != 0 {
			db.byEntrez.Insert(entrezEntry{uintKey(rec.EntrezId), idx})
		}
		if rec.EnsemblId != 0 {
			db.byEnsembl.Insert(ensemblEntry{uintKey(rec.EnsemblId), idx})
		}
		if rec.HgncId != "" {
			db.byHGNC.Insert(hgncEntry{stringKey(rec.HgncId), idx})
		}
		if rec.IsAcmg {
			db.acmgHGNC[rec.HgncId] = true
		}
		if rec.IsDisease {
			db.diseaseSet[rec.HgncId] = true
		}
	}
	return db, nil
}

// ByEntrez resolves an Entrez gene id to its record.
func (db *DB) ByEntrez(id uint32) (Record, bool) {
	got := db.byEntrez.Get(entrezEntry{key: uintKey(id)})
	if got == nil {
		return Record{}, false
	}
	return db.records[got.(entrezEntry).idx], true
}

// ByEnsembl resolves an ENSEMBL gene id to its record.
func (db *DB) ByEnsembl(id uint32) (Record, bool) {
	got := db.byEnsembl.Get(ensemblEntry{key: uintKey(id)})
	if got == nil {
		return Record{}, false
	}
	return db.records[got.(ensemblEntry).idx], true
}

// ByHGNC resolves an "HGNC:N" id to its record.
func (db *DB) ByHGNC(hgncID string) (Record, bool) {
	got := db.byHGNC.Get(hgncEntry{key: stringKey(hgncID)})
	if got == nil {
		return Record{}, false
	}
	return db.records[got.(hgncEntry).idx], true
}

// IsACMG reports whether hgncID is in the ACMG secondary-findings set.
func (db *DB) IsACMG(hgncID string) bool { return db.acmgHGNC[hgncID] }

// IsDiseaseGene reports whether hgncID carries the OMIM/Orpha disease-gene
// flag.
func (db *DB) IsDiseaseGene(hgncID string) bool { return db.diseaseSet[hgncID] }

// MustLoad is a convenience wrapper for startup paths where a missing
// cross-link table is a fatal configuration error.
func MustLoad(path string) *DB {
	db, err := Load(path)
	if err != nil {
		panic(errkind.E(errkind.Config, err, "gendb: fatal load failure", path))
	}
	return db
}
