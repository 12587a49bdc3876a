// Package recordio implements the length-prefixed record framing used by the
// Mesos v1 streaming HTTP API: each record is encoded as the ASCII decimal
// length of its payload, a single '\n', and then exactly that many payload
// bytes, with no delimiter between records.
//
// The Decoder is incremental and boundary-insensitive: bytes may be fed in
// fragments split at arbitrary positions and the extracted record sequence is
// identical to decoding the concatenated stream in one call.
package recordio

import (
	"errors"
	"fmt"
	"io"
	"strconv"
)

// DefaultMaxRecordLen bounds the payload length a Decoder will accept when
// the caller does not choose its own cap. The framing itself is unbounded, so
// a cap must exist to keep a misbehaving peer from growing the accumulation
// buffer without limit.
const DefaultMaxRecordLen = 16 << 20 // 16 MiB

var (
	// ErrRecordTooLarge reports a length prefix exceeding the decoder's cap.
	ErrRecordTooLarge = errors.New("recordio: record exceeds maximum length")
	// ErrCorruptFrame reports bytes at a record boundary that are not a
	// decimal length prefix.
	ErrCorruptFrame = errors.New("recordio: malformed length prefix")
)

// Decoder extracts framed records from an incrementally fed byte stream.
// The zero value is not usable; construct with NewDecoder.
type Decoder struct {
	maxLen    int
	maxDigits int
	buf       []byte
	err       error
}

// NewDecoder returns a Decoder enforcing the given payload length cap.
// A non-positive maxLen selects DefaultMaxRecordLen.
func NewDecoder(maxLen int) *Decoder {
	if maxLen <= 0 {
		maxLen = DefaultMaxRecordLen
	}
	return &Decoder{
		maxLen:    maxLen,
		maxDigits: len(strconv.Itoa(maxLen)) + 1,
	}
}

// Feed appends a fragment of the stream to the decoder's buffer. It never
// fails; framing errors surface from Next.
func (d *Decoder) Feed(p []byte) {
	if d.err != nil {
		return
	}
	d.buf = append(d.buf, p...)
}

// Next returns the next complete record, or nil when the buffered bytes do
// not yet contain one. Returned slices are copies and remain valid across
// further Feed calls. Once Next returns a non-nil error the decoder is dead
// and every subsequent call returns the same error.
func (d *Decoder) Next() ([]byte, error) {
	if d.err != nil {
		return nil, d.err
	}

	n := 0 // parsed payload length
	i := 0 // bytes of prefix consumed
	for ; i < len(d.buf); i++ {
		c := d.buf[i]
		if c == '\n' {
			break
		}
		if c < '0' || c > '9' {
			return nil, d.fail(fmt.Errorf("%w: %q at offset %d", ErrCorruptFrame, c, i))
		}
		if i+1 > d.maxDigits {
			return nil, d.fail(fmt.Errorf("%w: length prefix longer than %d digits", ErrRecordTooLarge, d.maxDigits))
		}
		n = n*10 + int(c-'0')
		if n > d.maxLen {
			return nil, d.fail(fmt.Errorf("%w: %d > %d", ErrRecordTooLarge, n, d.maxLen))
		}
	}
	if i == len(d.buf) {
		return nil, nil // prefix incomplete
	}
	if i == 0 {
		return nil, d.fail(fmt.Errorf("%w: empty length prefix", ErrCorruptFrame))
	}

	head := i + 1 // prefix plus newline
	if len(d.buf) < head+n {
		return nil, nil // payload incomplete
	}

	rec := make([]byte, n)
	copy(rec, d.buf[head:head+n])
	d.buf = d.buf[:copy(d.buf, d.buf[head+n:])]
	return rec, nil
}

// Buffered reports the number of bytes held but not yet returned as records.
func (d *Decoder) Buffered() int { return len(d.buf) }

func (d *Decoder) fail(err error) error {
	d.err = err
	d.buf = nil
	return err
}

// Encoder writes records in the same framing. It is used by test fixtures and
// by fake masters serving the stream side of the protocol.
type Encoder struct {
	w io.Writer
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder { return &Encoder{w: w} }

// Encode writes one framed record.
func (e *Encoder) Encode(payload []byte) error {
	if _, err := fmt.Fprintf(e.w, "%d\n", len(payload)); err != nil {
		return err
	}
	_, err := e.w.Write(payload)
	return err
}

// Marshal returns the framed encoding of a single payload.
func Marshal(payload []byte) []byte {
	out := make([]byte, 0, len(payload)+8)
	out = strconv.AppendInt(out, int64(len(payload)), 10)
	out = append(out, '\n')
	return append(out, payload...)
}
