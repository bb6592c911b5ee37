package hash

import (
	"encoding/binary"
	"io"
)

// WriterToWithDomain is a value that serializes itself into the transcript under a
// domain string, so that equal bytes of different types hash differently.
type WriterToWithDomain interface {
	io.WriterTo

	// Domain names the type, and must differ between implementations.
	Domain() string
}

// writeWithDomain writes len(domain) ‖ len(data) ‖ domain ‖ data.
// The data is buffered first, since its length is only known afterwards.
func writeWithDomain(w io.Writer, object WriterToWithDomain) error {
	var buf lengthWriter
	if _, err := object.WriteTo(&buf); err != nil {
		return err
	}
	domain := []byte(object.Domain())

	var lengths [16]byte
	binary.BigEndian.PutUint64(lengths[:8], uint64(len(domain)))
	binary.BigEndian.PutUint64(lengths[8:], uint64(len(buf)))
	if _, err := w.Write(lengths[:]); err != nil {
		return err
	}
	if _, err := w.Write(domain); err != nil {
		return err
	}
	if _, err := w.Write(buf); err != nil {
		return err
	}
	return nil
}

type lengthWriter []byte

func (l *lengthWriter) Write(p []byte) (int, error) {
	*l = append(*l, p...)
	return len(p), nil
}

// BytesWithDomain labels raw bytes with a domain.
type BytesWithDomain struct {
	TheDomain string
	Bytes     []byte
}

// WriteTo implements io.WriterTo.
func (b BytesWithDomain) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.Bytes)
	return int64(n), err
}

// Domain implements WriterToWithDomain.
func (b BytesWithDomain) Domain() string {
	return b.TheDomain
}
