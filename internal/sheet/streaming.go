package sheet

// streaming.go provides streaming readers for published-sheet CSV
// responses.
//
// These readers wrap io.Reader to handle common issues in exported CSV
// without buffering the whole response:
//
//   - bomReader: skips the UTF-8 BOM the export endpoint prepends
//   - utf8Reader: replaces invalid UTF-8 bytes with '?' on the fly
//   - CappedReader: fails with ErrTooLarge once the response exceeds
//     the configured byte limit
//
// NewReader applies all three in the correct order.

import (
	"errors"
	"io"
	"unicode/utf8"
)

// ErrTooLarge is returned once a response exceeds the configured size
// cap. The message feeds the support-code mapping, keep it stable.
var ErrTooLarge = errors.New("sheet too large")

// CappedReader counts bytes off the wire and fails the stream once the
// count passes Limit. A Limit of zero disables the cap.
type CappedReader struct {
	reader    io.Reader
	BytesRead int64
	Limit     int64
}

// NewCappedReader wraps r with a byte limit.
func NewCappedReader(r io.Reader, limit int64) *CappedReader {
	return &CappedReader{reader: r, Limit: limit}
}

// Read implements io.Reader.
func (c *CappedReader) Read(p []byte) (int, error) {
	n, err := c.reader.Read(p)
	c.BytesRead += int64(n)
	if c.Limit > 0 && c.BytesRead > c.Limit {
		return n, ErrTooLarge
	}
	return n, err
}

// bomReader skips a leading UTF-8 BOM (0xEF 0xBB 0xBF). Sheets exported
// from Windows tooling and some publish endpoints carry one; the csv
// decoder would otherwise treat it as part of the first header name.
type bomReader struct {
	r       io.Reader
	checked bool
	carry   []byte
	err     error
}

func newBOMReader(r io.Reader) *bomReader {
	return &bomReader{r: r}
}

// Read implements io.Reader. The first call probes three bytes; a BOM is
// dropped, anything else is served back before the stream continues.
func (b *bomReader) Read(p []byte) (int, error) {
	if !b.checked {
		b.checked = true

		var probe [3]byte
		n, err := io.ReadFull(b.r, probe[:])
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}

		if !(n == 3 && probe[0] == 0xEF && probe[1] == 0xBB && probe[2] == 0xBF) {
			b.carry = append(b.carry, probe[:n]...)
		}
		// Deliver any probe error only after the carry drains.
		b.err = err
	}

	if len(b.carry) > 0 {
		n := copy(p, b.carry)
		b.carry = b.carry[n:]
		if len(b.carry) == 0 && b.err != nil {
			return n, b.err
		}
		return n, nil
	}

	if b.err != nil {
		return 0, b.err
	}
	return b.r.Read(p)
}

// utf8Reader repairs invalid UTF-8 on the fly. The csv decoder itself
// does not care about encoding, but downstream JSON encoding does.
type utf8Reader struct {
	r io.Reader

	// pending holds a partial multi-byte rune cut off at a read
	// boundary, to be completed by the next read.
	pending []byte
}

func newUTF8Reader(r io.Reader) *utf8Reader {
	return &utf8Reader{
		r:       r,
		pending: make([]byte, 0, utf8.UTFMax),
	}
}

// Read implements io.Reader, sanitizing in place.
func (s *utf8Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	off := copy(p, s.pending)
	s.pending = s.pending[:0]

	n, err := s.r.Read(p[off:])
	n += off
	if n == 0 {
		return 0, err
	}

	buf := p[:n]

	// Hold back a trailing partial rune so it can complete on the next
	// read. A final read has no next, so the repair pass handles it.
	if err == nil {
		if hold := partialRuneSuffix(buf); hold > 0 {
			s.pending = append(s.pending, buf[n-hold:]...)
			buf = buf[:n-hold]
			n -= hold
		}
	}

	if allASCII(buf) || utf8.Valid(buf) {
		return n, err
	}
	return repairUTF8(buf), err
}

// allASCII is the fast path; exported roster data is mostly ASCII.
func allASCII(data []byte) bool {
	for _, b := range data {
		if b >= 0x80 {
			return false
		}
	}
	return true
}

// repairUTF8 rewrites data in place, replacing each invalid byte with
// '?', and returns the new length. The multi-byte replacement character
// would grow the data; the single-byte stand-in keeps it stable.
func repairUTF8(data []byte) int {
	w := 0
	for r := 0; r < len(data); {
		ch, size := utf8.DecodeRune(data[r:])
		if ch == utf8.RuneError && size == 1 {
			data[w] = '?'
			w++
			r++
			continue
		}
		copy(data[w:], data[r:r+size])
		w += size
		r += size
	}
	return w
}

// partialRuneSuffix returns how many trailing bytes of data form the
// start of an incomplete multi-byte rune, or 0 if the data ends on a
// rune boundary.
func partialRuneSuffix(data []byte) int {
	for i := 1; i < utf8.UTFMax && i <= len(data); i++ {
		b := data[len(data)-i]
		if b < 0x80 {
			return 0
		}
		if b >= 0xC0 {
			if runeWidth(b) > i {
				return i
			}
			return 0
		}
		// Continuation byte, keep scanning back.
	}
	return 0
}

// runeWidth returns the byte length of a UTF-8 sequence led by b, or 0
// for a bare continuation byte.
func runeWidth(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b < 0xC0:
		return 0
	case b < 0xE0:
		return 2
	case b < 0xF0:
		return 3
	default:
		return 4
	}
}

// Reader is the fully wrapped response stream handed to the decoder.
type Reader struct {
	io.Reader
	capped *CappedReader
}

// BytesRead reports raw bytes consumed off the wire so far.
func (r *Reader) BytesRead() int64 {
	return r.capped.BytesRead
}

// NewReader wraps an export response body for decoding.
//
// The order matters: the cap counts raw wire bytes, the BOM goes before
// sanitization can see it, and UTF-8 repair runs last.
func NewReader(r io.Reader, limit int64) *Reader {
	capped := NewCappedReader(r, limit)
	return &Reader{
		Reader: newUTF8Reader(newBOMReader(capped)),
		capped: capped,
	}
}
