package codec

import (
	"encoding/binary"

	"github.com/matzehuels/blockdock/pkg/block"
	bderrors "github.com/matzehuels/blockdock/pkg/errors"
)

// Header is the fixed 16-byte prefix of a definition.
type Header struct {
	Version          uint16
	Kind             block.Kind
	Variant          block.Variant
	SlotTypeCount    int
	TranslationCount int
	IDLen            int // UTF-16 units
	CodeLen          int // UTF-16 units
	Color            block.Color
}

// Info returns the version classification of the header.
func (h Header) Info() Info { return versionInfo(h.Version) }

// DecodeHeader validates and parses the fixed header. Checksums are checked
// first, then the magic, then the kind.
func DecodeHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, bderrors.New(bderrors.ErrCodeTruncated, "%d bytes, header needs %d", len(data), HeaderSize)
	}
	if got, want := data[offSum1], Checksum(data, offMagic, offSum1); got != want {
		return Header{}, bderrors.New(bderrors.ErrCodeChecksumMismatch, "header checksum %#02x, computed %#02x", got, want)
	}
	if got, want := data[offSum2], Checksum(data, offColor, offSum2); got != want {
		return Header{}, bderrors.New(bderrors.ErrCodeChecksumMismatch, "layout checksum %#02x, computed %#02x", got, want)
	}
	if data[offMagic] != Magic0 || data[offMagic+1] != Magic1 {
		return Header{}, bderrors.New(bderrors.ErrCodeBadMagic, "magic %#02x%02x", data[offMagic], data[offMagic+1])
	}
	kind := block.Kind(data[offKind])
	if !kind.Valid() {
		return Header{}, bderrors.New(bderrors.ErrCodeInvalidKind, "kind byte %d", data[offKind])
	}

	return Header{
		Version:          binary.LittleEndian.Uint16(data[offVersion:]),
		Kind:             kind,
		Variant:          block.Variant(data[offVariant]),
		SlotTypeCount:    int(data[offSlotCount]),
		TranslationCount: int(data[offTransCount]),
		IDLen:            int(data[offIDLen]),
		CodeLen:          int(binary.LittleEndian.Uint16(data[offCodeLen:])),
		Color: block.Color{
			R: data[offColor],
			G: data[offColor+1],
			B: data[offColor+2],
			A: 0xFF,
		},
	}, nil
}

// Decode parses a definition. The returned Info is set whenever the header
// was valid, even if the body turned out malformed.
func Decode(data []byte) (*block.Template, Info, error) {
	h, err := DecodeHeader(data)
	if err != nil {
		return nil, Info{}, err
	}
	info := h.Info()
	r := &reader{data: data, pos: HeaderSize}

	id, err := r.fixedString("identifier", h.IDLen)
	if err != nil {
		return nil, info, err
	}
	code, err := r.fixedString("code template", h.CodeLen)
	if err != nil {
		return nil, info, err
	}

	t := &block.Template{
		ID:      id,
		Kind:    h.Kind,
		Variant: h.Variant,
		Color:   h.Color,
		Code:    code,
	}

	if h.SlotTypeCount > 0 {
		t.SlotTypes = make(map[string]block.SlotType, h.SlotTypeCount)
	}
	for range h.SlotTypeCount {
		key, ok := r.entryString()
		if !ok {
			break
		}
		b, ok := r.u8()
		if !ok {
			break
		}
		t.SlotTypes[key] = block.SlotType(b)
	}
	if len(t.SlotTypes) != h.SlotTypeCount {
		return nil, info, bderrors.New(bderrors.ErrCodeCountMismatch, "%d slot types, header says %d", len(t.SlotTypes), h.SlotTypeCount)
	}

	if h.TranslationCount > 0 {
		t.Translations = make(map[string]string, h.TranslationCount)
	}
	for range h.TranslationCount {
		kl, ok1 := r.u16()
		vl, ok2 := r.u16()
		if !ok1 || !ok2 {
			break
		}
		key, ok := r.units(int(kl))
		if !ok {
			break
		}
		val, ok := r.units(int(vl))
		if !ok {
			break
		}
		t.Translations[key] = val
	}
	if len(t.Translations) != h.TranslationCount {
		return nil, info, bderrors.New(bderrors.ErrCodeCountMismatch, "%d translations, header says %d", len(t.Translations), h.TranslationCount)
	}

	return t, info, nil
}

// reader walks the variable part of a definition.
type reader struct {
	data []byte
	pos  int
}

func (r *reader) u8() (byte, bool) {
	if r.pos+1 > len(r.data) {
		return 0, false
	}
	b := r.data[r.pos]
	r.pos++
	return b, true
}

func (r *reader) u16() (uint16, bool) {
	if r.pos+2 > len(r.data) {
		return 0, false
	}
	v := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, true
}

// units reads n UTF-16 units. It fails without consuming anything when
// fewer are left.
func (r *reader) units(n int) (string, bool) {
	if r.pos+2*n > len(r.data) {
		return "", false
	}
	s, err := decodeString(r.data[r.pos : r.pos+2*n])
	if err != nil {
		return "", false
	}
	r.pos += 2 * n
	return s, true
}

// fixedString reads a string whose length came from the header and reports
// a length mismatch when the data ends early.
func (r *reader) fixedString(field string, n int) (string, error) {
	avail := (len(r.data) - r.pos) / 2
	if avail < n {
		return "", bderrors.New(bderrors.ErrCodeLengthMismatch, "%s: %d of %d units present", field, avail, n)
	}
	s, ok := r.units(n)
	if !ok {
		return "", bderrors.New(bderrors.ErrCodeLengthMismatch, "%s: undecodable text", field)
	}
	return s, nil
}

func (r *reader) entryString() (string, bool) {
	n, ok := r.u16()
	if !ok {
		return "", false
	}
	return r.units(int(n))
}
