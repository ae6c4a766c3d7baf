package codec

import (
	"encoding/binary"
	"maps"
	"slices"

	"github.com/matzehuels/blockdock/pkg/block"
	bderrors "github.com/matzehuels/blockdock/pkg/errors"
)

// Encode serializes t. It fails when t has no identifier, an unknown kind,
// or strings and dictionaries longer than the header fields can describe.
func Encode(t *block.Template) ([]byte, error) {
	if t == nil {
		return nil, bderrors.New(bderrors.ErrCodeInvalidInput, "nil template")
	}
	if t.ID == "" {
		return nil, bderrors.New(bderrors.ErrCodeInvalidIdentifier, "template identifier must not be empty")
	}
	if !t.Kind.Valid() {
		return nil, bderrors.New(bderrors.ErrCodeInvalidKind, "template %s: invalid kind %d", t.ID, t.Kind)
	}

	id, err := encodeString("identifier", t.ID)
	if err != nil {
		return nil, err
	}
	if n := len(id) / 2; n > MaxIDLen {
		return nil, bderrors.New(bderrors.ErrCodeTooLarge, "identifier is %d units, max %d", n, MaxIDLen)
	}
	code, err := encodeString("code", t.Code)
	if err != nil {
		return nil, err
	}
	if n := len(code) / 2; n > MaxCodeLen {
		return nil, bderrors.New(bderrors.ErrCodeTooLarge, "code template is %d units, max %d", n, MaxCodeLen)
	}
	if n := len(t.SlotTypes); n > MaxEntries {
		return nil, bderrors.New(bderrors.ErrCodeTooLarge, "%d slot types, max %d", n, MaxEntries)
	}
	if n := len(t.Translations); n > MaxEntries {
		return nil, bderrors.New(bderrors.ErrCodeTooLarge, "%d translations, max %d", n, MaxEntries)
	}

	buf := make([]byte, HeaderSize, HeaderSize+len(id)+len(code))
	buf[offMagic], buf[offMagic+1] = Magic0, Magic1
	binary.LittleEndian.PutUint16(buf[offVersion:], FormatVersion)
	buf[offKind] = byte(t.Kind)
	buf[offVariant] = byte(t.Variant)
	buf[offSlotCount] = byte(len(t.SlotTypes))
	buf[offColor] = t.Color.R
	buf[offColor+1] = t.Color.G
	buf[offColor+2] = t.Color.B
	buf[offTransCount] = byte(len(t.Translations))
	buf[offIDLen] = byte(len(id) / 2)
	binary.LittleEndian.PutUint16(buf[offCodeLen:], uint16(len(code)/2))
	buf[offSum1] = Checksum(buf, offMagic, offSum1)
	buf[offSum2] = Checksum(buf, offColor, offSum2)

	buf = append(buf, id...)
	buf = append(buf, code...)

	for _, k := range slices.Sorted(maps.Keys(t.SlotTypes)) {
		key, err := dictString("slot type key", k)
		if err != nil {
			return nil, err
		}
		buf = binary.LittleEndian.AppendUint16(buf, uint16(len(key)/2))
		buf = append(buf, key...)
		buf = append(buf, byte(t.SlotTypes[k]))
	}

	for _, k := range slices.Sorted(maps.Keys(t.Translations)) {
		key, err := dictString("translation key", k)
		if err != nil {
			return nil, err
		}
		val, err := dictString("translation "+k, t.Translations[k])
		if err != nil {
			return nil, err
		}
		buf = binary.LittleEndian.AppendUint16(buf, uint16(len(key)/2))
		buf = binary.LittleEndian.AppendUint16(buf, uint16(len(val)/2))
		buf = append(buf, key...)
		buf = append(buf, val...)
	}
	return buf, nil
}

func dictString(field, s string) ([]byte, error) {
	b, err := encodeString(field, s)
	if err != nil {
		return nil, err
	}
	if n := len(b) / 2; n > MaxStringLen {
		return nil, bderrors.New(bderrors.ErrCodeTooLarge, "%s is %d units, max %d", field, n, MaxStringLen)
	}
	return b, nil
}
