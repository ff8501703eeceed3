// Package config loads the conf.toml startup configuration with
// github.com/pelletier/go-toml/v2, verifies per-file checksums, and
// assembles the process-lifetime Databases bundle.
package config

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"

	"github.com/bio-sv/svquery/internal/bgdb"
	"github.com/bio-sv/svquery/internal/clinvarsv"
	"github.com/bio-sv/svquery/internal/errkind"
	"github.com/bio-sv/svquery/internal/gendb"
	"github.com/bio-sv/svquery/internal/maskdb"
	"github.com/bio-sv/svquery/internal/tadset"
	"github.com/bio-sv/svquery/internal/txdb"
	"github.com/grailbio/base/log"
	"github.com/pelletier/go-toml/v2"
)

// FileEntry is one conf.toml-listed database file: its relative path and
// optional checksums.
type FileEntry struct {
	Path   string `toml:"path"`
	MD5    string `toml:"md5,omitempty"`
	SHA256 string `toml:"sha256,omitempty"`
}

// DatabaseTuning is one database's per-file tuning.
type DatabaseTuning struct {
	File       FileEntry `toml:"file"`
	SlackBnd   int32     `toml:"slack_bnd"`
	SlackIns   int32     `toml:"slack_ins"`
	MinOverlap float32   `toml:"min_overlap"`
}

// Config is the decoded conf.toml document.
type Config struct {
	Root string `toml:"root"` // base directory relative paths resolve against

	Backgrounds map[string]DatabaseTuning `toml:"background"`
	Patho       map[string]FileEntry      `toml:"patho"`
	Clinvar     FileEntry                 `toml:"clinvar"`
	TAD         map[string]FileEntry      `toml:"tad"`
	Genes       FileEntry                 `toml:"genes"`
	Transcripts FileEntry                 `toml:"transcripts"`
	Masked      FileEntry                 `toml:"masked"`
}

// Load decodes path as TOML and runs the startup sanity check (file
// existence, and checksum verification when checksums are present).
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errkind.E(errkind.IO, err, "config: read", path)
	}
	var cfg Config
	if err := toml.Unmarshal(b, &cfg); err != nil {
		return nil, errkind.E(errkind.Decode, err, "config: parse TOML", path)
	}
	if err := cfg.sanityCheck(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) resolve(rel string) string {
	if filepath.IsAbs(rel) || rel == "-" {
		return rel
	}
	return filepath.Join(c.Root, rel)
}

func (c *Config) sanityCheck() error {
	check := func(f FileEntry) error {
		if f.Path == "" {
			return nil
		}
		return verifyFile(c.resolve(f.Path), f)
	}
	for name, tuning := range c.Backgrounds {
		if err := check(tuning.File); err != nil {
			return errkind.E(errkind.Config, err, "config: background database", name)
		}
	}
	for name, f := range c.Patho {
		if err := check(f); err != nil {
			return errkind.E(errkind.Config, err, "config: patho catalog", name)
		}
	}
	if err := check(c.Clinvar); err != nil {
		return errkind.E(errkind.Config, err, "config: clinvar")
	}
	for name, f := range c.TAD {
		if err := check(f); err != nil {
			return errkind.E(errkind.Config, err, "config: tad set", name)
		}
	}
	if err := check(c.Genes); err != nil {
		return errkind.E(errkind.Config, err, "config: genes")
	}
	if err := check(c.Transcripts); err != nil {
		return errkind.E(errkind.Config, err, "config: transcripts")
	}
	if err := check(c.Masked); err != nil {
		return errkind.E(errkind.Config, err, "config: masked")
	}
	return nil
}

func verifyFile(path string, f FileEntry) error {
	info, err := os.Stat(path)
	if err != nil {
		return errkind.E(errkind.Config, err, "config: missing file", path)
	}
	if info.IsDir() {
		return errkind.E(errkind.Config, "config: expected file, found directory", path)
	}
	if f.MD5 == "" && f.SHA256 == "" {
		return nil
	}
	h, err := os.Open(path)
	if err != nil {
		return errkind.E(errkind.IO, err, "config: open for checksum", path)
	}
	defer h.Close()

	md5sum := md5.New()
	sha256sum := sha256.New()
	if _, err := io.Copy(io.MultiWriter(md5sum, sha256sum), h); err != nil {
		return errkind.E(errkind.IO, err, "config: checksum read", path)
	}
	if f.MD5 != "" && hex.EncodeToString(md5sum.Sum(nil)) != f.MD5 {
		return errkind.E(errkind.Config, "config: MD5 mismatch", path)
	}
	if f.SHA256 != "" && hex.EncodeToString(sha256sum.Sum(nil)) != f.SHA256 {
		return errkind.E(errkind.Config, "config: SHA-256 mismatch", path)
	}
	return nil
}

// Databases is the process-lifetime bundle of loaded, immutable databases:
// one concrete struct member per database, no interface indirection.
type Databases struct {
	Backgrounds map[string]*bgdb.DB
	// Patho holds known-pathogenic SV catalogs: they share bgdb.DB's binary
	// layout and interval-tree shape but are never count-gated, only used
	// to decorate a passing result's payload with every overlapping record.
	Patho       map[string]*bgdb.DB
	Clinvar     *clinvarsv.DB
	TAD         map[string]*tadset.DB
	Genes       *gendb.DB
	Transcripts *txdb.DB
	Masked      *maskdb.DB
}

// LoadDatabases loads every database named in cfg, in the order the bundle
// declares them; a load failure aborts the whole bundle.
func LoadDatabases(cfg *Config) (*Databases, error) {
	d := &Databases{
		Backgrounds: make(map[string]*bgdb.DB, len(cfg.Backgrounds)),
		Patho:       make(map[string]*bgdb.DB, len(cfg.Patho)),
		TAD:         make(map[string]*tadset.DB, len(cfg.TAD)),
	}
	for name, tuning := range cfg.Backgrounds {
		log.Info.Printf("config: loading background database %s from %s", name, tuning.File.Path)
		db, err := bgdb.Load(name, cfg.resolve(tuning.File.Path))
		if err != nil {
			return nil, err
		}
		d.Backgrounds[name] = db
	}
	for name, f := range cfg.Patho {
		log.Info.Printf("config: loading patho catalog %s from %s", name, f.Path)
		db, err := bgdb.Load(name, cfg.resolve(f.Path))
		if err != nil {
			return nil, err
		}
		d.Patho[name] = db
	}
	if cfg.Clinvar.Path != "" {
		db, err := clinvarsv.Load(cfg.resolve(cfg.Clinvar.Path))
		if err != nil {
			return nil, err
		}
		d.Clinvar = db
	}
	for name, f := range cfg.TAD {
		db, err := tadset.Load(cfg.resolve(f.Path))
		if err != nil {
			return nil, err
		}
		d.TAD[name] = db
	}
	if cfg.Genes.Path != "" {
		db, err := gendb.Load(cfg.resolve(cfg.Genes.Path))
		if err != nil {
			return nil, err
		}
		d.Genes = db
	}
	if cfg.Transcripts.Path != "" {
		db, err := txdb.Load(cfg.resolve(cfg.Transcripts.Path))
		if err != nil {
			return nil, err
		}
		d.Transcripts = db
	}
	if cfg.Masked.Path != "" {
		db, err := maskdb.Load(cfg.resolve(cfg.Masked.Path))
		if err != nil {
			return nil, err
		}
		d.Masked = db
	}
	return d, nil
}
