// svq-convert is the binary conversion stage for external background-SV
// catalogs: one source TSV in, one BackgroundDbRecord binary file out.
//
// Usage: svq-convert -source gnomad_sv4 -in gnomad.bed.gz -out gnomad.bin
package main

import (
	"flag"

	"github.com/bio-sv/svquery/internal/convert"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
)

var (
	source  = flag.String("source", "", "Background source format: dbvar, dgv, dgv_gs, exac, g1k, gnomad_sv2, gnomad_sv4, or gnomad_cnv4")
	inPath  = flag.String("in", "", "Input path; .gz suffix is decompressed transparently")
	outPath = flag.String("out", "", "Output path for the binary BackgroundDbRecord message")
)

func main() {
	shutdown := grail.Init()
	defer shutdown()

	if *source == "" || *inPath == "" || *outPath == "" {
		log.Fatalf("svq-convert: -source, -in and -out are required")
	}
	if err := convert.Background(convert.Source(*source), *inPath, *outPath); err != nil {
		panic(err.Error())
	}
}
