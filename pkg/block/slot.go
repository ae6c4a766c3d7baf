package block

import (
	"fmt"
	"strings"

	bderrors "github.com/matzehuels/blockdock/pkg/errors"
)

// SlotType is the value type accepted by a named slot. It is stored as a
// single byte in the definition format; unknown values survive a round trip.
type SlotType uint8

const (
	SlotAny SlotType = iota
	SlotInt
	SlotFloat
	SlotBool
	SlotString
	SlotList
)

var slotTypeNames = [...]string{
	SlotAny:    "any",
	SlotInt:    "int",
	SlotFloat:  "float",
	SlotBool:   "bool",
	SlotString: "string",
	SlotList:   "list",
}

func (t SlotType) String() string {
	if int(t) < len(slotTypeNames) {
		return slotTypeNames[t]
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// ParseSlotType parses a slot type name case-insensitively.
func ParseSlotType(s string) (SlotType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for t, n := range slotTypeNames {
		if n == name {
			return SlotType(t), nil
		}
	}
	return 0, bderrors.New(bderrors.ErrCodeInvalidSlotType, "unknown slot type: %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t SlotType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *SlotType) UnmarshalText(b []byte) error {
	v, err := ParseSlotType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ParseSlots returns the slot names referenced by "&name" markers in text,
// in order of appearance. A name is a run of ASCII letters, digits and '_';
// a lone '&' is literal text.
func ParseSlots(text string) []string {
	var names []string
	for i := 0; i < len(text); i++ {
		if text[i] != '&' {
			continue
		}
		j := i + 1
		for j < len(text) && isSlotChar(text[j]) {
			j++
		}
		if j > i+1 {
			names = append(names, text[i+1:j])
			i = j - 1
		}
	}
	return names
}

// ReplaceSlots substitutes every "&name" marker in text with fn(name).
func ReplaceSlots(text string, fn func(name string) string) string {
	var b strings.Builder
	for i := 0; i < len(text); i++ {
		if text[i] != '&' {
			b.WriteByte(text[i])
			continue
		}
		j := i + 1
		for j < len(text) && isSlotChar(text[j]) {
			j++
		}
		if j == i+1 {
			b.WriteByte('&')
			continue
		}
		b.WriteString(fn(text[i+1 : j]))
		i = j - 1
	}
	return b.String()
}

func isSlotChar(c byte) bool {
	return c == '_' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
