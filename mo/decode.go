package mo

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/acronis/go-gettext"
	"github.com/acronis/go-gettext/po"
)

// Decode reads a compiled catalog back into PO form. Both byte orders are
// accepted. Comments and source references do not survive compilation, so
// the result carries translations and the header only.
func Decode(r io.Reader) (*po.File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read MO data: %w", err)
	}
	return DecodeBytes(data)
}

// DecodeFile reads a compiled catalog from path.
func DecodeFile(path string) (*po.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read MO file: %w", err)
	}
	file, err := DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return file, nil
}

// DecodeBytes decodes an in-memory compiled catalog.
func DecodeBytes(data []byte) (*po.File, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes is too short", ErrBadMagic, len(data))
	}

	var order binary.ByteOrder
	switch binary.LittleEndian.Uint32(data[0:4]) {
	case magicLittleEndian:
		order = binary.LittleEndian
	case magicBigEndian:
		order = binary.BigEndian
	default:
		return nil, fmt.Errorf("%w: magic %#08x", ErrBadMagic, binary.LittleEndian.Uint32(data[0:4]))
	}

	revision := order.Uint32(data[4:8])
	if major := revision >> 16; major > 1 {
		return nil, fmt.Errorf("unsupported MO format revision %d.%d", major, revision&0xffff)
	}

	n := int(order.Uint32(data[8:12]))
	origTableOff := int(order.Uint32(data[12:16]))
	transTableOff := int(order.Uint32(data[16:20]))
	if n < 0 || origTableOff < 0 || transTableOff < 0 {
		return nil, fmt.Errorf("malformed MO header")
	}

	file := po.NewFile()
	for i := 0; i < n; i++ {
		orig, err := readString(data, order, origTableOff+i*tableItemSize)
		if err != nil {
			return nil, fmt.Errorf("original %d: %w", i, err)
		}
		trans, err := readString(data, order, transTableOff+i*tableItemSize)
		if err != nil {
			return nil, fmt.Errorf("translation %d: %w", i, err)
		}
		if err := file.AddEntry(decodeEntry(orig, trans)); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
	}
	return file, nil
}

func decodeEntry(orig, trans string) *po.Entry {
	e := &po.Entry{}
	if ctx, rest, found := strings.Cut(orig, string(gettext.EOT)); found {
		e.Context = ctx
		e.HasContext = true
		orig = rest
	}
	e.ID, e.IDPlural, _ = strings.Cut(orig, "\x00")
	e.Str = strings.Split(trans, "\x00")
	return e
}

func readString(data []byte, order binary.ByteOrder, itemOff int) (string, error) {
	if itemOff < 0 || itemOff+tableItemSize > len(data) {
		return "", fmt.Errorf("table entry out of range")
	}
	length := int(order.Uint32(data[itemOff : itemOff+4]))
	offset := int(order.Uint32(data[itemOff+4 : itemOff+8]))
	if length < 0 || offset < 0 || offset+length > len(data) {
		return "", fmt.Errorf("string out of range")
	}
	return string(data[offset : offset+length]), nil
}
