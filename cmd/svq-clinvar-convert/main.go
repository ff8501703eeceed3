// svq-clinvar-convert ingests a ClinVar variation-archive JSONL dump into a
// ClinvarSvMessage binary file.
//
// Usage: svq-clinvar-convert -in clinvar.jsonl.gz -out clinvar.bin -assembly GRCh38
package main

import (
	"flag"

	"github.com/bio-sv/svquery/internal/convert"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
)

var (
	inPath   = flag.String("in", "", "Input ClinVar variation-archive JSONL path; .gz suffix is decompressed transparently")
	outPath  = flag.String("out", "", "Output path for the binary ClinvarSvMessage")
	assembly = flag.String("assembly", "GRCh38", "Target assembly to keep; other assemblies' sequence-locations are skipped")
)

func main() {
	shutdown := grail.Init()
	defer shutdown()

	if *inPath == "" || *outPath == "" {
		log.Fatalf("svq-clinvar-convert: -in and -out are required")
	}
	if err := convert.Clinvar(*inPath, *outPath, *assembly); err != nil {
		panic(err.Error())
	}
}
