package live

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// maxStringLen bounds length-prefixed strings. The prefix arrives from the
// network and must not size an allocation on its own.
const maxStringLen = 64 * 1024

// Encoder writes live protocol primitives.
type Encoder struct {
	w io.Writer
}

// NewEncoder creates an encoder over w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// WriteUvarint writes an unsigned varint.
func (e *Encoder) WriteUvarint(v uint64) error {
	buf := make([]byte, binary.MaxVarintLen64)
	n := binary.PutUvarint(buf, v)
	_, err := e.w.Write(buf[:n])
	return err
}

// WriteFloat writes a float64 as its fixed-width bit pattern.
func (e *Encoder) WriteFloat(f float64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
	_, err := e.w.Write(buf[:])
	return err
}

// WriteString writes a length-prefixed string.
func (e *Encoder) WriteString(s string) error {
	if err := e.WriteUvarint(uint64(len(s))); err != nil {
		return err
	}
	_, err := e.w.Write([]byte(s))
	return err
}

// WriteBytes writes raw bytes.
func (e *Encoder) WriteBytes(b []byte) error {
	_, err := e.w.Write(b)
	return err
}

// Decoder reads live protocol primitives.
type Decoder struct {
	r   io.Reader
	buf []byte
}

// NewDecoder creates a decoder over r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r, buf: make([]byte, 256)}
}

// ReadUvarint reads an unsigned varint.
func (d *Decoder) ReadUvarint() (uint64, error) {
	return binary.ReadUvarint(d)
}

// ReadByte implements io.ByteReader.
func (d *Decoder) ReadByte() (byte, error) {
	var b [1]byte
	_, err := io.ReadFull(d.r, b[:])
	return b[0], err
}

// ReadFloat reads a fixed-width float64.
func (d *Decoder) ReadFloat() (float64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(d.r, buf[:]); err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(buf[:])), nil
}

// ReadString reads a length-prefixed string.
func (d *Decoder) ReadString() (string, error) {
	length, err := d.ReadUvarint()
	if err != nil {
		return "", err
	}
	if length > maxStringLen {
		return "", fmt.Errorf("live: string length %d exceeds limit %d", length, maxStringLen)
	}
	if length > uint64(len(d.buf)) {
		d.buf = make([]byte, length)
	}
	n, err := io.ReadFull(d.r, d.buf[:length])
	if err != nil {
		return "", err
	}
	return string(d.buf[:n]), nil
}

// EncodeEvent encodes a client event frame.
func EncodeEvent(w io.Writer, evt Event) error {
	e := NewEncoder(w)
	flags := byte(0)
	if evt.Shift {
		flags |= 1
	}
	if err := e.WriteBytes([]byte{byte(FrameEvent), byte(evt.Type), evt.Button, flags}); err != nil {
		return err
	}
	if err := e.WriteFloat(evt.X); err != nil {
		return err
	}
	if err := e.WriteFloat(evt.Y); err != nil {
		return err
	}
	if err := e.WriteFloat(evt.Factor); err != nil {
		return err
	}
	return e.WriteString(evt.Text)
}

// DecodeEvent decodes a client event frame. data includes the leading
// frame-type byte.
func DecodeEvent(r io.Reader) (*Event, error) {
	d := NewDecoder(r)
	frameType, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	if MessageType(frameType) != FrameEvent {
		return nil, errors.New("live: not an event frame")
	}
	kind, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	button, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	flags, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	evt := &Event{
		Type:   EventType(kind),
		Button: button,
		Shift:  flags&1 != 0,
	}
	if evt.X, err = d.ReadFloat(); err != nil {
		return nil, err
	}
	if evt.Y, err = d.ReadFloat(); err != nil {
		return nil, err
	}
	if evt.Factor, err = d.ReadFloat(); err != nil {
		return nil, err
	}
	if evt.Text, err = d.ReadString(); err != nil {
		return nil, err
	}
	return evt, nil
}
