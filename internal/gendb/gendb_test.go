package gendb

func newTestDB(records []Record) *DB {
	db := &DB{
		acmgHGNC:   make(map[string]bool),
		diseaseSet: make(map[string]bool),
	}
	for _, rec := range records {
		idx := len(db.records)
		db.records = append(db.records, rec)
		if rec.EntrezID != 0 {
			db.byEntrez.Insert(entrezEntry{uintKey(rec.EntrezID), idx})
		}
		if rec.EnsemblID != 0 {
			db.byEnsembl.Insert(ensemblEntry{uintKey(rec.EnsemblID), idx})
		}
		if rec.HGNCID != "" {
			db.byHGNC.Insert(hgncEntry{stringKey(rec.HGNCID), idx})
		}
		if rec.IsACMG {
			db.acmgHGNC[rec.HGNCID] = true
		}
		if rec.IsDisease {
			db.diseaseSet[rec.HGNCID] = true
		}
	}
	return db
}
