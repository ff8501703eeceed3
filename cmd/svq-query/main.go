// svq-query runs one case query against the configured database bundle.
//
// Usage: svq-query -conf conf.toml -query query.json [-in calls.jsonl] [-out result.tsv] [-seed SEED]
//
// Structural variants are read as one JSON-encoded svrecord.Record per
// line; VCF decoding is an upstream, external collaborator.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"io"
	"os"

	"github.com/bio-sv/svquery/internal/config"
	"github.com/bio-sv/svquery/internal/interpreter"
	"github.com/bio-sv/svquery/internal/query"
	"github.com/bio-sv/svquery/internal/runner"
	"github.com/bio-sv/svquery/internal/svrecord"
	"github.com/google/uuid"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
)

var (
	confPath  = flag.String("conf", "", "Path to conf.toml naming the background, ClinVar, TAD, gene, transcript, and masked-region databases")
	queryPath = flag.String("query", "", "Path to the case query JSON document")
	inPath    = flag.String("in", "-", "Path to the input JSONL of svrecord.Record values; '-' reads stdin")
	outPath   = flag.String("out", "-", "Path to write the streamed TSV result; '-' writes stdout")
	seed      = flag.String("seed", "", "Seed for deterministic result-row UUIDs; empty derives a random one per run")
)

// jsonlSource implements runner.RecordSource over a stream of newline
// delimited svrecord.Record JSON documents.
type jsonlSource struct {
	dec *json.Decoder
}

func (s *jsonlSource) Next() (*svrecord.Record, error) {
	var sv svrecord.Record
	if err := s.dec.Decode(&sv); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, err
	}
	return &sv, nil
}

func main() {
	shutdown := grail.Init()
	defer shutdown()

	if *confPath == "" || *queryPath == "" {
		log.Fatalf("svq-query: -conf and -query are required")
	}

	cfg, err := config.Load(*confPath)
	if err != nil {
		panic(err.Error())
	}
	db, err := config.LoadDatabases(cfg)
	if err != nil {
		panic(err.Error())
	}

	qb, err := os.ReadFile(*queryPath)
	if err != nil {
		panic(err.Error())
	}
	q, err := query.ParseJSON(qb)
	if err != nil {
		panic(err.Error())
	}

	in := io.Reader(os.Stdin)
	if *inPath != "-" {
		f, err := os.Open(*inPath)
		if err != nil {
			panic(err.Error())
		}
		defer f.Close()
		in = f
	}

	out := io.Writer(os.Stdout)
	if *outPath != "-" {
		f, err := os.Create(*outPath)
		if err != nil {
			panic(err.Error())
		}
		defer f.Close()
		out = f
	}
	bw := bufio.NewWriter(out)
	defer bw.Flush()

	ip := interpreter.New(&q, db)
	src := &jsonlSource{dec: json.NewDecoder(bufio.NewReader(in))}

	runSeed := *seed
	if runSeed == "" {
		runSeed = uuid.NewString()
	}
	st, err := runner.Run(src, ip, db, runSeed, bw)
	if err != nil {
		panic(err.Error())
	}
	log.Info.Printf("svq-query: read %d, passed %d, skipped %d", st.Read, st.Passed, st.Skipped)
}
