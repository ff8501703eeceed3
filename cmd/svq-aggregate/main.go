// svq-aggregate builds the in-house background TSV by running the
// split/cluster/merge pipeline over every case named in a manifest.
//
// Usage: svq-aggregate -manifest manifest.json -out inhouse.tsv
//
// The manifest is a JSON array; each entry names a case, the path to its
// calls (one JSON-encoded svrecord.Record per line), and an optional
// pedigree member list used to resolve sex-chromosome hemizygous carriers.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"io"
	"os"

	"github.com/bio-sv/svquery/internal/inhouse"
	"github.com/bio-sv/svquery/internal/pedigree"
	"github.com/bio-sv/svquery/internal/svrecord"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
)

var (
	manifestPath = flag.String("manifest", "", "Path to the case manifest JSON")
	outPath      = flag.String("out", "", "Path to write the merged in-house TSV")
	minOverlap   = flag.Float64("min-overlap", float64(inhouse.DefaultMinOverlap), "Minimum reciprocal overlap fraction for Step 2 clustering")
)

type manifestEntry struct {
	Name     string            `json:"name"`
	Calls    string            `json:"calls"`
	Pedigree []pedigree.Member `json:"pedigree,omitempty"`
}

func loadCalls(path string) ([]*svrecord.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec := json.NewDecoder(bufio.NewReader(f))
	var out []*svrecord.Record
	for {
		var sv svrecord.Record
		if err := dec.Decode(&sv); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		out = append(out, &sv)
	}
	return out, nil
}

func main() {
	shutdown := grail.Init()
	defer shutdown()

	if *manifestPath == "" || *outPath == "" {
		log.Fatalf("svq-aggregate: -manifest and -out are required")
	}

	mb, err := os.ReadFile(*manifestPath)
	if err != nil {
		panic(err.Error())
	}
	var entries []manifestEntry
	if err := json.Unmarshal(mb, &entries); err != nil {
		panic(err.Error())
	}

	cases := make([]inhouse.CaseInput, 0, len(entries))
	for _, e := range entries {
		records, err := loadCalls(e.Calls)
		if err != nil {
			panic(err.Error())
		}
		c := inhouse.CaseInput{Name: e.Name, Records: records}
		if len(e.Pedigree) > 0 {
			ped, err := pedigree.New(e.Pedigree)
			if err != nil {
				panic(err.Error())
			}
			c.Pedigree = ped
		}
		cases = append(cases, c)
	}

	opts := inhouse.DefaultOptions()
	opts.MinOverlap = float32(*minOverlap)

	total, err := inhouse.RunPipeline(cases, opts, *outPath)
	if err != nil {
		panic(err.Error())
	}
	log.Info.Printf("svq-aggregate: merged %d cases, %d total carriers", len(cases), total)
}
