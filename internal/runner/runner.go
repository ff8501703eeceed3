// Package runner drives one query run: it pulls structural variants one at
// a time from a RecordSource, evaluates each against an interpreter.
// Interpreter, assembles the result payload from the Databases bundle, and
// writes the passing rows as a streamed TSV with no buffering of the full
// result set.
package runner

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/bio-sv/svquery/internal/callinfo"
	"github.com/bio-sv/svquery/internal/chrom"
	"github.com/bio-sv/svquery/internal/config"
	"github.com/bio-sv/svquery/internal/errkind"
	"github.com/bio-sv/svquery/internal/interpreter"
	"github.com/bio-sv/svquery/internal/overlap"
	"github.com/bio-sv/svquery/internal/result"
	"github.com/bio-sv/svquery/internal/svrecord"
	"github.com/grailbio/base/log"
)

// RecordSource yields structural variants one at a time. It is the seam
// where an upstream VCF reader plugs in; Next returns io.EOF once
// exhausted.
type RecordSource interface {
	Next() (*svrecord.Record, error)
}

// Stats summarizes one run: how many records were read, how many passed,
// and how many were skipped because evaluating or formatting that one
// variant failed, which does not abort the whole query.
type Stats struct {
	Read    int
	Passed  int
	Skipped int
}

// Run pulls every record from src, evaluates it against ip, and writes one
// TSV row per passing variant to w, in input order. seed makes the output
// row UUIDs reproducible. An error from evaluating or formatting one
// variant is logged and the run continues with the next record; an error
// reading a record or writing output aborts the run.
func Run(src RecordSource, ip *interpreter.Interpreter, db *config.Databases, seed string, w io.Writer) (Stats, error) {
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	if _, err := fmt.Fprintln(bw, tsvHeaderLine()); err != nil {
		return Stats{}, errkind.E(errkind.IO, err, "runner: write header")
	}

	var st Stats
	for {
		sv, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return st, errkind.E(errkind.IO, err, "runner: read record")
		}
		st.Read++

		d, err := ip.Evaluate(sv)
		if err != nil {
			log.Error.Printf("runner: skipping variant %s:%d-%d: %v", sv.Chrom, sv.Pos, sv.End, err)
			st.Skipped++
			continue
		}
		if !d.Pass {
			continue
		}

		payload := buildPayload(sv, d, db)
		row, err := result.BuildRow(sv, seed, rowDiscriminator(sv, st.Read), payload)
		if err != nil {
			log.Error.Printf("runner: skipping variant %s:%d-%d: %v", sv.Chrom, sv.Pos, sv.End, err)
			st.Skipped++
			continue
		}
		if _, err := fmt.Fprintln(bw, row.Format()); err != nil {
			return st, errkind.E(errkind.IO, err, "runner: write row")
		}
		st.Passed++
	}
	if err := bw.Flush(); err != nil {
		return st, errkind.E(errkind.IO, err, "runner: flush output")
	}
	return st, nil
}

func tsvHeaderLine() string {
	out := result.TSVHeader[0]
	for _, h := range result.TSVHeader[1:] {
		out += "\t" + h
	}
	return out
}

// rowDiscriminator derives a stable per-row discriminator for
// result.DeterministicUUID from the variant's own coordinates plus its
// input-order index, so that two distinct variants at the same position in
// the same run never collide.
func rowDiscriminator(sv *svrecord.Record, ordinal int) string {
	return fmt.Sprintf("%s:%d:%d:%s:%d", sv.Chrom, sv.Pos, sv.End, sv.SVType, ordinal)
}

// buildPayload joins the interpreter's Decision with the Databases bundle
// into the result payload structure.
func buildPayload(sv *svrecord.Record, d interpreter.Decision, db *config.Databases) result.Payload {
	p := result.Payload{
		Callers:               sv.Callers,
		OverlappingRCVs:       d.OverlappingRCVs,
		OverlappingGenes:      annotateGenes(d.OverlappingGenes, db),
		TADGenes:              annotateGenes(d.TADGenes, db),
		KnownPathogenic:       knownPathogenic(sv, db),
		CallInfo:              sampleCallInfo(sv),
		BackgroundCounts:      d.BackgroundCounts,
		MaskedBreakpointCount: d.MaskedBreakpoints,
		TADBoundaryDist:       d.TADBoundaryDist,
	}
	if size, ok := sv.Size(); ok {
		p.SVLength = &size
	}
	if db.Transcripts != nil {
		if effs, err := db.Transcripts.EffectsByGene(sv); err == nil {
			for _, ge := range effs {
				p.TranscriptEffects = append(p.TranscriptEffects, result.GeneEffects{
					HGNCID:  ge.HGNCGene,
					Effects: ge.Effects,
				})
			}
		}
	}
	return p
}

func annotateGenes(hgncIDs []string, db *config.Databases) []result.GeneAnnotation {
	if len(hgncIDs) == 0 {
		return nil
	}
	sorted := append([]string(nil), hgncIDs...)
	sort.Strings(sorted)
	out := make([]result.GeneAnnotation, 0, len(sorted))
	for _, id := range sorted {
		ann := result.GeneAnnotation{HGNCID: id}
		if db.Genes != nil {
			if rec, ok := db.Genes.ByHGNC(id); ok {
				ann.Symbol = rec.Symbol
				ann.EnsemblID = rec.EnsemblID
				ann.EntrezID = rec.EntrezID
				ann.IsACMG = db.Genes.IsACMG(id)
				ann.IsDisease = db.Genes.IsDiseaseGene(id)
			}
		}
		out = append(out, ann)
	}
	return out
}

// knownPathogenic decorates a passing result with every overlapping record
// from the configured known-pathogenic catalogs; it decorates the result,
// it does not filter it.
func knownPathogenic(sv *svrecord.Record, db *config.Databases) []result.PathogenicRecord {
	if len(db.Patho) == 0 {
		return nil
	}
	chromNo, err := chrom.Index(sv.Chrom)
	if err != nil {
		return nil
	}
	qr := overlap.CountRange(sv, 50, 50)
	var out []result.PathogenicRecord
	for _, p := range db.Patho {
		for _, rec := range p.FetchRecords(chromNo, qr) {
			out = append(out, result.PathogenicRecord{
				Start: int32(rec.Range.Start) + 1,
				Stop:  int32(rec.Range.End),
			})
		}
	}
	return out
}

func sampleCallInfo(sv *svrecord.Record) []result.SampleCallInfo {
	names := make([]string, 0, len(sv.Calls))
	for s := range sv.Calls {
		names = append(names, s)
	}
	sort.Strings(names)
	out := make([]result.SampleCallInfo, 0, len(names))
	for _, s := range names {
		ci := sv.Calls[s]
		eff := ci.EffectiveGenotype
		if eff == callinfo.Unknown && ci.GenotypeStr != nil {
			if g, ok := callinfo.ClassifyGT(*ci.GenotypeStr); ok {
				eff = g
			}
		}
		out = append(out, result.SampleCallInfo{
			Sample:            s,
			EffectiveGenotype: eff,
			MatchedCriteria:   ci.MatchedCriteria,
		})
	}
	return out
}
