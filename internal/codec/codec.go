// Package codec implements the self-delimiting text wire grammar shared by
// on-disk log records and client/server messages:
//
//	STRING  := "+" LEN "+" BYTES
//	NONE    := "~"
//	STRUCT  := (FIELD "\r\n")* "\r\n"
//	FIELD   := NAME ":" VALUE
//	VARIANT := TAG "#\r\n" STRUCT
//
// LEN is the decimal byte length of BYTES. A decoder consumes exactly one
// complete structure and reports any remaining bytes as an error; an
// encoder is infallible on the known, exhaustive set of tagged variants
// defined in command.go and proto.go.
//
// Option::None collides with an empty string under the original "+0+"
// encoding this grammar was adapted from. Here None is written as the
// single byte "~", which cannot begin a valid STRING (STRING always
// starts with "+"), so an empty string ("+0+") and None ("~") never
// collide.
package codec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nilotpal-labs/ignitekv/pkg/errors"
)

const noneMarker = '~'

// encoder accumulates the wire representation of one structure.
type encoder struct {
	buf strings.Builder
}

func (e *encoder) writeString(s string) {
	e.buf.WriteByte('+')
	e.buf.WriteString(strconv.Itoa(len(s)))
	e.buf.WriteByte('+')
	e.buf.WriteString(s)
}

func (e *encoder) writeOption(s *string) {
	if s == nil {
		e.buf.WriteByte(noneMarker)
		return
	}
	e.writeString(*s)
}

func (e *encoder) writeStringField(name, value string) {
	e.buf.WriteString(name)
	e.buf.WriteByte(':')
	e.writeString(value)
	e.buf.WriteString("\r\n")
}

func (e *encoder) writeOptionField(name string, value *string) {
	e.buf.WriteString(name)
	e.buf.WriteByte(':')
	e.writeOption(value)
	e.buf.WriteString("\r\n")
}

func (e *encoder) openVariant(tag string) {
	e.buf.WriteString(tag)
	e.buf.WriteString("#\r\n")
}

func (e *encoder) closeStruct() {
	e.buf.WriteString("\r\n")
}

func (e *encoder) bytes() []byte {
	return []byte(e.buf.String())
}

// decoder walks an in-memory buffer left to right, consuming grammar
// productions and reporting a CodecError on any mismatch.
type decoder struct {
	data []byte
	pos  int
}

func newDecoder(data []byte) *decoder {
	return &decoder{data: data}
}

func (d *decoder) errAt(expected string) error {
	fragment := d.data[d.pos:]
	if len(fragment) > 32 {
		fragment = fragment[:32]
	}
	return errors.NewCodecError(nil, errors.ErrorCodeCodec, "malformed wire grammar").
		WithExpected(expected).
		WithFragment(string(fragment)).
		WithDetail("position", d.pos)
}

func (d *decoder) remaining() int {
	return len(d.data) - d.pos
}

func (d *decoder) peekByte() (byte, bool) {
	if d.pos >= len(d.data) {
		return 0, false
	}
	return d.data[d.pos], true
}

func (d *decoder) expectByte(b byte) error {
	got, ok := d.peekByte()
	if !ok || got != b {
		return d.errAt(fmt.Sprintf("byte %q", b))
	}
	d.pos++
	return nil
}

func (d *decoder) expectCRLF() error {
	if err := d.expectByte('\r'); err != nil {
		return err
	}
	return d.expectByte('\n')
}

// readString parses STRING := "+" LEN "+" BYTES.
func (d *decoder) readString() (string, error) {
	if err := d.expectByte('+'); err != nil {
		return "", err
	}

	start := d.pos
	for {
		b, ok := d.peekByte()
		if !ok {
			return "", d.errAt("digit or '+'")
		}
		if b == '+' {
			break
		}
		if b < '0' || b > '9' {
			return "", d.errAt("decimal digit")
		}
		d.pos++
	}
	if d.pos == start {
		return "", d.errAt("at least one length digit")
	}

	length, err := strconv.Atoi(string(d.data[start:d.pos]))
	if err != nil {
		return "", d.errAt("valid decimal length")
	}
	if err := d.expectByte('+'); err != nil {
		return "", err
	}

	if d.remaining() < length {
		return "", d.errAt(fmt.Sprintf("%d bytes of string payload", length))
	}
	value := string(d.data[d.pos : d.pos+length])
	d.pos += length
	return value, nil
}

// readOption parses an Option<string>: either NONE ("~") or a STRING.
func (d *decoder) readOption() (*string, error) {
	if b, ok := d.peekByte(); ok && b == noneMarker {
		d.pos++
		return nil, nil
	}
	s, err := d.readString()
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// readFieldName parses NAME := [A-Za-z_]+ up to, but not including, ':'.
func (d *decoder) readFieldName() (string, error) {
	start := d.pos
	for {
		b, ok := d.peekByte()
		if !ok || b == ':' {
			break
		}
		if !isNameByte(b) {
			return "", d.errAt("field name character ([A-Za-z_])")
		}
		d.pos++
	}
	if d.pos == start {
		return "", d.errAt("non-empty field name")
	}
	name := string(d.data[start:d.pos])
	if err := d.expectByte(':'); err != nil {
		return "", err
	}
	return name, nil
}

func isNameByte(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || b == '_'
}

// readTag parses TAG := [A-Za-z_]+ up to "#\r\n".
func (d *decoder) readTag() (string, error) {
	start := d.pos
	for {
		b, ok := d.peekByte()
		if !ok || b == '#' {
			break
		}
		if !isNameByte(b) {
			return "", d.errAt("tag character ([A-Za-z_])")
		}
		d.pos++
	}
	if d.pos == start {
		return "", d.errAt("non-empty tag")
	}
	tag := string(d.data[start:d.pos])
	if err := d.expectByte('#'); err != nil {
		return "", err
	}
	if err := d.expectCRLF(); err != nil {
		return "", err
	}
	return tag, nil
}

// expectStringField consumes one FIELD "\r\n" where the field name must equal
// name, and returns the decoded string value.
func (d *decoder) expectStringField(name string) (string, error) {
	got, err := d.readFieldName()
	if err != nil {
		return "", err
	}
	if got != name {
		return "", d.errAt(fmt.Sprintf("field %q", name))
	}
	value, err := d.readString()
	if err != nil {
		return "", err
	}
	if err := d.expectCRLF(); err != nil {
		return "", err
	}
	return value, nil
}

// expectOptionField is expectStringField's Option<string> counterpart.
func (d *decoder) expectOptionField(name string) (*string, error) {
	got, err := d.readFieldName()
	if err != nil {
		return nil, err
	}
	if got != name {
		return nil, d.errAt(fmt.Sprintf("field %q", name))
	}
	value, err := d.readOption()
	if err != nil {
		return nil, err
	}
	if err := d.expectCRLF(); err != nil {
		return nil, err
	}
	return value, nil
}

// closeBody consumes the blank CRLF that closes a STRUCT. It is a
// grammar requirement, not an end-of-buffer check: callers that need to
// keep decoding afterward (replay, walking multiple records) use it
// directly, while finish layers the trailing-bytes check on top.
func (d *decoder) closeBody() error {
	return d.expectCRLF()
}

// checkNoTrailing reports an error if any bytes remain unconsumed.
func (d *decoder) checkNoTrailing() error {
	if d.remaining() != 0 {
		fragment := d.data[d.pos:]
		if len(fragment) > 32 {
			fragment = fragment[:32]
		}
		return errors.NewTrailingBytesError(string(fragment))
	}
	return nil
}

// finish closes a STRUCT's trailing blank line and confirms no trailing
// bytes remain in the buffer.
func (d *decoder) finish() error {
	if err := d.closeBody(); err != nil {
		return err
	}
	return d.checkNoTrailing()
}
