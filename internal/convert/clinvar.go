package convert

import (
	"bufio"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/bio-sv/svquery/internal/chrom"
	"github.com/bio-sv/svquery/internal/clinvarsv"
	"github.com/bio-sv/svquery/internal/errkind"
	"github.com/bio-sv/svquery/internal/wire"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/klauspost/compress/gzip"
)

// clinVarSet mirrors the subset of the ClinVar variation-archive JSONL
// record shape needed for structural-variant ingestion.
type clinVarSet struct {
	ReferenceClinVarAssertion struct {
		ClinVarAccession struct {
			Acc string `json:"acc"`
		} `json:"clinvar_accession"`
		ClinicalSignificance struct {
			Description string `json:"description"`
		} `json:"clinical_significance"`
		Measures struct {
			Measures []struct {
				Type              string             `json:"type"`
				SequenceLocations []sequenceLocation `json:"sequence_locations"`
			} `json:"measures"`
		} `json:"measures"`
	} `json:"reference_clinvar_assertion"`
}

type sequenceLocation struct {
	Assembly           string `json:"assembly"`
	Chr                string `json:"chr"`
	Start              *int32 `json:"start"`
	Stop               *int32 `json:"stop"`
	InnerStart         *int32 `json:"inner_start"`
	InnerStop          *int32 `json:"inner_stop"`
	OuterStart         *int32 `json:"outer_start"`
	OuterStop          *int32 `json:"outer_stop"`
	PositionVCF        *int32 `json:"position_vcf"`
	ReferenceAlleleVCF string `json:"reference_allele_vcf"`
}

// resolvePosition applies ClinVar's position-resolution precedence:
// (start/stop) -> (inner_start/inner_stop) -> (outer_start/outer_stop) ->
// (VCF position; stop = position + len(ref)).
func resolvePosition(loc sequenceLocation) (start, stop int32, ok bool) {
	switch {
	case loc.Start != nil && loc.Stop != nil:
		return *loc.Start, *loc.Stop, true
	case loc.InnerStart != nil && loc.InnerStop != nil:
		return *loc.InnerStart, *loc.InnerStop, true
	case loc.OuterStart != nil && loc.OuterStop != nil:
		return *loc.OuterStart, *loc.OuterStop, true
	case loc.PositionVCF != nil:
		return *loc.PositionVCF, *loc.PositionVCF + int32(len(loc.ReferenceAlleleVCF)), true
	default:
		return 0, 0, false
	}
}

var measureTypeMap = map[string]clinvarsv.VariationType{
	"deletion":              clinvarsv.Del,
	"duplication":           clinvarsv.Dup,
	"tandem duplication":    clinvarsv.Dup,
	"copy number gain":      clinvarsv.Dup,
	"copy number loss":      clinvarsv.Del,
	"microsatellite":        clinvarsv.Microsatellite,
	"inversion":             clinvarsv.Inv,
	"translocation":         clinvarsv.Bnd,
	"complex":               clinvarsv.Complex,
}

var pathogenicityMap = map[string]clinvarsv.Pathogenicity{
	"benign":                      clinvarsv.Benign,
	"protective":                  clinvarsv.Benign,
	"likely benign":               clinvarsv.Benign,
	"likely pathogenic":           clinvarsv.LikelyPathogenic,
	"likely pathogenic, low penetrance": clinvarsv.LikelyPathogenic,
	"pathogenic":                  clinvarsv.Pathogenic,
	"pathogenic, low penetrance":  clinvarsv.Pathogenic,
	"uncertain significance":      clinvarsv.Uncertain,
}

func parseRCV(acc string) uint32 {
	digits := strings.TrimLeft(strings.TrimPrefix(acc, "RCV"), "0")
	if digits == "" {
		return 0
	}
	v, _ := strconv.ParseUint(digits, 10, 32)
	return uint32(v)
}

// Clinvar reads a ClinVar variation-archive JSONL file (optionally
// gzipped) from inPath, emits one ClinvarSvRecord per measure x
// sequence-location whose assembly matches targetAssembly, and writes the
// resulting ClinvarSvMessage to outPath.
func Clinvar(inPath, outPath, targetAssembly string) error {
	ctx := vcontext.Background()
	f, err := file.Open(ctx, inPath)
	if err != nil {
		return errkind.E(errkind.IO, err, "convert: open", inPath)
	}
	defer f.Close(ctx)

	var r io.Reader = f.Reader(ctx)
	if strings.HasSuffix(inPath, ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return errkind.E(errkind.IO, err, "convert: gzip", inPath)
		}
		r = gz
	}

	var msg wire.ClinvarSvMessage
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var set clinVarSet
		if err := json.Unmarshal(line, &set); err != nil {
			return errkind.E(errkind.Decode, err, "convert: parse ClinVar JSONL", inPath)
		}
		assertion := set.ReferenceClinVarAssertion
		rcv := parseRCV(assertion.ClinVarAccession.Acc)
		pathogenicity, ok := pathogenicityMap[strings.ToLower(assertion.ClinicalSignificance.Description)]
		if !ok {
			log.Info.Printf("convert: skipping unsupported clinical significance %q in %s", assertion.ClinicalSignificance.Description, inPath)
			continue
		}
		for _, measure := range assertion.Measures.Measures {
			vt, ok := measureTypeMap[strings.ToLower(measure.Type)]
			if !ok {
				log.Info.Printf("convert: skipping unmapped measure type %q in %s", measure.Type, inPath)
				continue
			}
			for _, loc := range measure.SequenceLocations {
				if loc.Assembly != targetAssembly {
					continue
				}
				start, stop, ok := resolvePosition(loc)
				if !ok {
					continue
				}
				chromNo, err := chrom.Index(loc.Chr)
				if err != nil {
					log.Info.Printf("convert: skipping unmapped chromosome %q in %s", loc.Chr, inPath)
					continue
				}
				msg.Records = append(msg.Records, &wire.ClinvarSvRecord{
					ChromNo:       int32(chromNo),
					Start:         start,
					Stop:          stop,
					VariationType: uint32(vt),
					Pathogenicity: uint32(pathogenicity),
					Rcv:           rcv,
				})
			}
		}
	}
	if err := sc.Err(); err != nil {
		return errkind.E(errkind.IO, err, "convert: read", inPath)
	}
	return wire.WriteMessageFile(outPath, &msg)
}
