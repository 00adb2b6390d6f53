package diff

import (
	"encoding/binary"

	"go.trai.ch/iceberg/internal/core/domain"
	"go.trai.ch/zerr"
)

// MIMEType is the content type of an encoded patch.
const MIMEType = domain.ContentTypeDiff

const (
	countSize = 4
	// headerSize is the fixed part of an encoded edit: index, delete count and text length.
	headerSize = 12
)

// EncodedLen returns the number of bytes Encode would produce for p.
func EncodedLen(p Patch) int {
	n := countSize
	for _, e := range p {
		n += headerSize + len(e.Text)
	}
	return n
}

// Encode serializes p. All integers are unsigned 32-bit little-endian:
//
//	count | (index | deleteCount | textLen | text[textLen]) * count
func Encode(p Patch) []byte {
	buf := make([]byte, 0, EncodedLen(p))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(p))) //nolint:gosec // patches never approach 4 GiB
	for _, e := range p {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(e.Index))       //nolint:gosec // see above
		buf = binary.LittleEndian.AppendUint32(buf, uint32(e.DeleteCount)) //nolint:gosec // see above
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(e.Text)))   //nolint:gosec // see above
		buf = append(buf, e.Text...)
	}
	return buf
}

// Decode parses a buffer produced by Encode.
// It fails with domain.ErrTruncatedBuffer when a field or text runs past the end
// of b, and with domain.ErrTrailingBytes when bytes remain after the last edit.
func Decode(b []byte) (Patch, error) {
	r := reader{buf: b}

	count, err := r.uint32("count")
	if err != nil {
		return nil, err
	}

	// The count is untrusted: never reserve more edits than the buffer could hold.
	p := make(Patch, 0, min(int(count), r.remaining()/headerSize))
	for i := range int(count) {
		index, err := r.uint32("index")
		if err != nil {
			return nil, zerr.With(err, "edit", i)
		}
		deleteCount, err := r.uint32("deleteCount")
		if err != nil {
			return nil, zerr.With(err, "edit", i)
		}
		textLen, err := r.uint32("textLen")
		if err != nil {
			return nil, zerr.With(err, "edit", i)
		}
		text, err := r.bytes(int(textLen))
		if err != nil {
			return nil, zerr.With(err, "edit", i)
		}
		p = append(p, Edit{
			Index:       int(index),
			DeleteCount: int(deleteCount),
			Text:        string(text),
		})
	}

	if rest := r.remaining(); rest > 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrTrailingBytes, "decode diff"), "trailing", rest)
	}
	return p, nil
}

type reader struct {
	buf []byte
	off int
}

func (r *reader) remaining() int {
	return len(r.buf) - r.off
}

func (r *reader) uint32(field string) (uint32, error) {
	if r.remaining() < 4 {
		return 0, truncated(field, r.off)
	}
	v := binary.LittleEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v, nil
}

func (r *reader) bytes(n int) ([]byte, error) {
	if n < 0 || r.remaining() < n {
		return nil, truncated("text", r.off)
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func truncated(field string, offset int) error {
	err := zerr.Wrap(domain.ErrTruncatedBuffer, "decode diff")
	err = zerr.With(err, "field", field)
	return zerr.With(err, "offset", offset)
}
