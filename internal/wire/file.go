package wire

import (
	"bufio"
	"io"

	"github.com/bio-sv/svquery/internal/errkind"
	"github.com/gogo/protobuf/proto"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/vcontext"
)

// ReadMessageFile opens path (local, "-" for stdin, or s3:// via
// grailbio/base/file's transparent backends) and decodes its single
// length-delimited message into m. Fails with an IO error for a
// missing/unreadable file, or a Decode error for a malformed message.
func ReadMessageFile(path string, m proto.Message) error {
	ctx := vcontext.Background()
	f, err := file.Open(ctx, path)
	if err != nil {
		return errkind.E(errkind.IO, err, "wire: open", path)
	}
	defer f.Close(ctx)
	br := bufio.NewReader(f.Reader(ctx))
	readN := func(n int) ([]byte, error) {
		buf := make([]byte, n)
		if _, err := io.ReadFull(br, buf); err != nil {
			return nil, err
		}
		return buf, nil
	}
	return ReadMessage(br, readN, m)
}

// WriteMessageFile creates path and writes m as a single length-delimited
// message.
func WriteMessageFile(path string, m proto.Message) error {
	ctx := vcontext.Background()
	f, err := file.Create(ctx, path)
	if err != nil {
		return errkind.E(errkind.IO, err, "wire: create", path)
	}
	w := bufio.NewWriter(f.Writer(ctx))
	if err := WriteMessage(w, m); err != nil {
		f.Close(ctx)
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close(ctx)
		return errkind.E(errkind.IO, err, "wire: flush", path)
	}
	if err := f.Close(ctx); err != nil {
		return errkind.E(errkind.IO, err, "wire: close", path)
	}
	return nil
}
