// Package wire defines the on-disk binary message layouts for the module's
// population and annotation databases, marshaled with
// github.com/gogo/protobuf/proto. Each message is a plain Go struct carrying
// `protobuf:"..."` field tags; proto.Marshal and proto.Unmarshal drive off
// those tags via gogo/protobuf's reflection fallback, so no protoc-generated
// code is required.
package wire

import (
	"encoding/binary"
	"io"

	"github.com/bio-sv/svquery/internal/errkind"
	"github.com/gogo/protobuf/proto"
)

// BackgroundDbRecord is the uniform on-disk layout for every population
// background database (gnomAD, dbVar, DGV, DGV-GS, ExAC, 1000G, in-house).
type BackgroundDbRecord struct {
	ChromNo uint32 `protobuf:"varint,1,opt,name=chrom_no" json:"chrom_no,omitempty"`
	Start   int32  `protobuf:"zigzag32,2,opt,name=start" json:"start,omitempty"`
	Stop    int32  `protobuf:"zigzag32,3,opt,name=stop" json:"stop,omitempty"`
	SvType  uint32 `protobuf:"varint,4,opt,name=sv_type" json:"sv_type,omitempty"`
	Count   uint32 `protobuf:"varint,5,opt,name=count" json:"count,omitempty"`
}

func (m *BackgroundDbRecord) Reset()         { *m = BackgroundDbRecord{} }
func (m *BackgroundDbRecord) String() string  { return proto.CompactTextString(m) }
func (*BackgroundDbRecord) ProtoMessage()     {}

// BackgroundDbMessage is the length-delimited message containing every
// record of one background-database file.
type BackgroundDbMessage struct {
	Records []*BackgroundDbRecord `protobuf:"bytes,1,rep,name=records" json:"records,omitempty"`
}

func (m *BackgroundDbMessage) Reset()        { *m = BackgroundDbMessage{} }
func (m *BackgroundDbMessage) String() string { return proto.CompactTextString(m) }
func (*BackgroundDbMessage) ProtoMessage()    {}

// ClinvarSvRecord is the on-disk ClinVar structural-variant record.
type ClinvarSvRecord struct {
	ChromNo        int32  `protobuf:"zigzag32,1,opt,name=chrom_no" json:"chrom_no,omitempty"`
	Start          int32  `protobuf:"zigzag32,2,opt,name=start" json:"start,omitempty"`
	Stop           int32  `protobuf:"zigzag32,3,opt,name=stop" json:"stop,omitempty"`
	VariationType  uint32 `protobuf:"varint,4,opt,name=variation_type" json:"variation_type,omitempty"`
	Pathogenicity  uint32 `protobuf:"varint,5,opt,name=pathogenicity" json:"pathogenicity,omitempty"`
	Rcv            uint32 `protobuf:"varint,6,opt,name=rcv" json:"rcv,omitempty"`
}

func (m *ClinvarSvRecord) Reset()        { *m = ClinvarSvRecord{} }
func (m *ClinvarSvRecord) String() string { return proto.CompactTextString(m) }
func (*ClinvarSvRecord) ProtoMessage()    {}

// ClinvarSvMessage wraps every ClinVar-SV record of one file.
type ClinvarSvMessage struct {
	Records []*ClinvarSvRecord `protobuf:"bytes,1,rep,name=records" json:"records,omitempty"`
}

func (m *ClinvarSvMessage) Reset()        { *m = ClinvarSvMessage{} }
func (m *ClinvarSvMessage) String() string { return proto.CompactTextString(m) }
func (*ClinvarSvMessage) ProtoMessage()    {}

// GeneCrossLinkRecord is one row of the gene cross-link table.
type GeneCrossLinkRecord struct {
	EntrezId   uint32 `protobuf:"varint,1,opt,name=entrez_id" json:"entrez_id,omitempty"`
	EnsemblId  uint32 `protobuf:"varint,2,opt,name=ensembl_id" json:"ensembl_id,omitempty"`
	Symbol     string `protobuf:"bytes,3,opt,name=symbol" json:"symbol,omitempty"`
	HgncId     string `protobuf:"bytes,4,opt,name=hgnc_id" json:"hgnc_id,omitempty"`
	IsAcmg     bool   `protobuf:"varint,5,opt,name=is_acmg" json:"is_acmg,omitempty"`
	IsDisease  bool   `protobuf:"varint,6,opt,name=is_disease_gene" json:"is_disease_gene,omitempty"`
}

func (m *GeneCrossLinkRecord) Reset()        { *m = GeneCrossLinkRecord{} }
func (m *GeneCrossLinkRecord) String() string { return proto.CompactTextString(m) }
func (*GeneCrossLinkRecord) ProtoMessage()    {}

// GeneCrossLinkMessage wraps the whole gene cross-link table.
type GeneCrossLinkMessage struct {
	Records []*GeneCrossLinkRecord `protobuf:"bytes,1,rep,name=records" json:"records,omitempty"`
}

func (m *GeneCrossLinkMessage) Reset()        { *m = GeneCrossLinkMessage{} }
func (m *GeneCrossLinkMessage) String() string { return proto.CompactTextString(m) }
func (*GeneCrossLinkMessage) ProtoMessage()    {}

// MaskedRegionRecord is the masked/repeat-region record: same shape as
// BackgroundDbRecord minus sv_type and count.
type MaskedRegionRecord struct {
	ChromNo uint32 `protobuf:"varint,1,opt,name=chrom_no" json:"chrom_no,omitempty"`
	Start   int32  `protobuf:"zigzag32,2,opt,name=start" json:"start,omitempty"`
	Stop    int32  `protobuf:"zigzag32,3,opt,name=stop" json:"stop,omitempty"`
}

func (m *MaskedRegionRecord) Reset()        { *m = MaskedRegionRecord{} }
func (m *MaskedRegionRecord) String() string { return proto.CompactTextString(m) }
func (*MaskedRegionRecord) ProtoMessage()    {}

// MaskedRegionMessage wraps the masked-region file's records.
type MaskedRegionMessage struct {
	Records []*MaskedRegionRecord `protobuf:"bytes,1,rep,name=records" json:"records,omitempty"`
}

func (m *MaskedRegionMessage) Reset()        { *m = MaskedRegionMessage{} }
func (m *MaskedRegionMessage) String() string { return proto.CompactTextString(m) }
func (*MaskedRegionMessage) ProtoMessage()    {}

// TranscriptExon is one 0-based genome-alignment exon.
type TranscriptExon struct {
	AltStart int32 `protobuf:"zigzag32,1,opt,name=alt_start" json:"alt_start,omitempty"`
	AltEnd   int32 `protobuf:"zigzag32,2,opt,name=alt_end" json:"alt_end,omitempty"`
}

func (m *TranscriptExon) Reset()        { *m = TranscriptExon{} }
func (m *TranscriptExon) String() string { return proto.CompactTextString(m) }
func (*TranscriptExon) ProtoMessage()    {}

// TranscriptRecord is one precomputed transcript, keyed by accession.
type TranscriptRecord struct {
	Accession string            `protobuf:"bytes,1,opt,name=accession" json:"accession,omitempty"`
	ChromNo   uint32            `protobuf:"varint,2,opt,name=chrom_no" json:"chrom_no,omitempty"`
	Strand    uint32            `protobuf:"varint,3,opt,name=strand" json:"strand,omitempty"`
	HgncId    string            `protobuf:"bytes,4,opt,name=hgnc_id" json:"hgnc_id,omitempty"`
	Exons     []*TranscriptExon `protobuf:"bytes,5,rep,name=exons" json:"exons,omitempty"`
}

func (m *TranscriptRecord) Reset()        { *m = TranscriptRecord{} }
func (m *TranscriptRecord) String() string { return proto.CompactTextString(m) }
func (*TranscriptRecord) ProtoMessage()    {}

// TranscriptMessage wraps the whole transcript database.
type TranscriptMessage struct {
	Records []*TranscriptRecord `protobuf:"bytes,1,rep,name=records" json:"records,omitempty"`
}

func (m *TranscriptMessage) Reset()        { *m = TranscriptMessage{} }
func (m *TranscriptMessage) String() string { return proto.CompactTextString(m) }
func (*TranscriptMessage) ProtoMessage()    {}

// WriteMessage writes a length-delimited protobuf message to w: a varint
// byte length followed by the marshaled message, the framing used for
// every binary database file in this module.
func WriteMessage(w io.Writer, m proto.Message) error {
	b, err := proto.Marshal(m)
	if err != nil {
		return errkind.E(errkind.Decode, err, "wire: marshal message")
	}
	var lenBuf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(lenBuf[:], uint64(len(b)))
	if _, err := w.Write(lenBuf[:n]); err != nil {
		return errkind.E(errkind.IO, err, "wire: write message length")
	}
	if _, err := w.Write(b); err != nil {
		return errkind.E(errkind.IO, err, "wire: write message body")
	}
	return nil
}

// ReadMessage reads one length-delimited protobuf message written by
// WriteMessage from r into m.
func ReadMessage(r io.ByteReader, readN func(n int) ([]byte, error), m proto.Message) error {
	n, err := binary.ReadUvarint(r)
	if err != nil {
		return errkind.E(errkind.IO, err, "wire: read message length")
	}
	body, err := readN(int(n))
	if err != nil {
		return errkind.E(errkind.IO, err, "wire: read message body")
	}
	if err := proto.Unmarshal(body, m); err != nil {
		return errkind.E(errkind.Decode, err, "wire: unmarshal message")
	}
	return nil
}
