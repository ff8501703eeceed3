// Package result assembles the per-variant output payload and TSV row: a
// deterministic UUID, UCSC bin values, and a JSON blob joining every piece
// of biological context gathered during evaluation.
package result

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bio-sv/svquery/internal/callinfo"
	"github.com/bio-sv/svquery/internal/chrom"
	"github.com/bio-sv/svquery/internal/svrecord"
	"github.com/bio-sv/svquery/internal/txdb"
	"github.com/google/uuid"
)

// Release names the genome build a result row was computed against.
const Release = "GRCh37"

// GeneAnnotation is one entry of the payload's overlapping/TAD gene list.
type GeneAnnotation struct {
	HGNCID      string `json:"hgnc_id"`
	Symbol      string `json:"symbol,omitempty"`
	EnsemblID   uint32 `json:"ensembl_id,omitempty"`
	EntrezID    uint32 `json:"entrez_id,omitempty"`
	IsACMG      bool   `json:"is_acmg,omitempty"`
	IsDisease   bool   `json:"is_disease_gene,omitempty"`
}

// PathogenicRecord mirrors one PathoDb decoration entry.
type PathogenicRecord struct {
	Start int32 `json:"start"`
	Stop  int32 `json:"stop"`
}

// SampleCallInfo is the per-sample payload slice: the sample name with the
// evaluation-assigned effective genotype and matched criteria. The raw
// CallInfo fields (GQ, coverages, copy number) are not included.
type SampleCallInfo struct {
	Sample            string              `json:"sample"`
	EffectiveGenotype  callinfo.Genotype  `json:"effective_genotype"`
	MatchedCriteria    []string           `json:"matched_criteria,omitempty"`
}

// GeneEffects is the per-gene transcript-effect list.
type GeneEffects struct {
	HGNCID  string        `json:"hgnc_id"`
	Effects []txdb.Effect `json:"transcript_effects"`
}

// Payload is the JSON-encoded per-variant result payload.
type Payload struct {
	Callers              []string            `json:"callers"`
	OverlappingRCVs       []string            `json:"overlapping_rcvs,omitempty"`
	OverlappingGenes      []GeneAnnotation   `json:"overlapping_genes,omitempty"`
	TADGenes              []GeneAnnotation   `json:"tad_genes,omitempty"`
	KnownPathogenic       []PathogenicRecord `json:"known_pathogenic,omitempty"`
	CallInfo              []SampleCallInfo   `json:"call_info"`
	SVLength              *int64             `json:"sv_length"`
	BackgroundCounts      map[string]uint32  `json:"bg_counts,omitempty"`
	MaskedBreakpointCount int                `json:"masked_breakpoint_count"`
	TADBoundaryDist       *int32             `json:"tad_boundary_dist"`
	TranscriptEffects     []GeneEffects      `json:"transcript_effects,omitempty"`
}

// Row is one output TSV row.
type Row struct {
	SodarUUID      string
	Release        string
	Chromosome     string
	ChromosomeNo   int
	Bin            int32
	Chromosome2    string
	ChromosomeNo2  int
	Bin2           int32
	Start          int32
	End            int32
	PEOrientation  svrecord.Strand
	SVType         string
	SVSubType      string
	PayloadJSON    string
}

// DeterministicUUID derives a reproducible UUID from seed and a per-row
// discriminator: github.com/google/uuid's namespace-based UUIDv5
// construction makes (seed, discriminator) -> UUID a pure function, giving
// idempotent row identifiers without a stateful RNG.
func DeterministicUUID(seed string, discriminator string) string {
	ns := uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed))
	return uuid.NewSHA1(ns, []byte(discriminator)).String()
}

// BuildRow assembles the TSV row and JSON payload for one passing SV
// result, applying the UCSC bin rules per SV type.
func BuildRow(sv *svrecord.Record, seed string, rowDiscriminator string, payload Payload) (Row, error) {
	chromNo, err := chrom.Index(sv.Chrom)
	if err != nil {
		return Row{}, err
	}
	row := Row{
		SodarUUID:     DeterministicUUID(seed, rowDiscriminator),
		Release:       Release,
		Chromosome:    sv.Chrom,
		ChromosomeNo:  chromNo,
		Start:         sv.Pos,
		End:           sv.End,
		PEOrientation: sv.Strand,
		SVType:        sv.SVType.String(),
		SVSubType:     sv.SubType,
	}

	switch {
	case sv.IsBND():
		chrom2 := sv.Chrom2
		if chrom2 == "" {
			chrom2 = sv.Chrom
		}
		chromNo2, err := chrom.Index(chrom2)
		if err != nil {
			return Row{}, err
		}
		row.Chromosome2 = chrom2
		row.ChromosomeNo2 = chromNo2
		row.Bin = Bin(sv.Pos-2, sv.Pos-1)
		row.Bin2 = Bin(sv.End-1, sv.End)
	case sv.IsINS():
		row.Bin = Bin(sv.Pos-1, sv.End)
		row.Bin2 = 0
	default:
		row.Bin = Bin(sv.Pos-1, sv.End)
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return Row{}, err
	}
	row.PayloadJSON = string(b)
	return row, nil
}

// TSVHeader is the fixed column order of the result TSV.
var TSVHeader = []string{
	"sodar_uuid", "release", "chromosome", "chromosome_no", "bin",
	"chromosome2", "chromosome_no2", "bin2", "start", "end",
	"pe_orientation", "sv_type", "sv_sub_type", "payload",
}

// Format renders r as a tab-separated line, in TSVHeader's column order,
// without a trailing newline.
func (r Row) Format() string {
	fields := []string{
		r.SodarUUID,
		r.Release,
		r.Chromosome,
		fmt.Sprintf("%d", r.ChromosomeNo),
		fmt.Sprintf("%d", r.Bin),
		r.Chromosome2,
		fmt.Sprintf("%d", r.ChromosomeNo2),
		fmt.Sprintf("%d", r.Bin2),
		fmt.Sprintf("%d", r.Start),
		fmt.Sprintf("%d", r.End),
		r.PEOrientation.String(),
		r.SVType,
		r.SVSubType,
		r.PayloadJSON,
	}
	return strings.Join(fields, "\t")
}
