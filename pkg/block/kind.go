package block

import (
	"fmt"
	"strings"

	bderrors "github.com/matzehuels/blockdock/pkg/errors"
)

// Kind selects the outline profile and minimum size of a block.
// The numeric value is the kind byte of the definition format.
type Kind uint8

const (
	// Event blocks react to something happening; they start a sequence.
	Event Kind = iota
	// Hat blocks cap a script with a rounded bump and have no top socket.
	Hat
	// Process blocks are sequential statements.
	Process
	// Action blocks are short statements.
	Action
	// Value blocks produce a value and plug into right-side slots.
	Value
)

var kindNames = [...]string{
	Event:   "event",
	Hat:     "hat",
	Process: "process",
	Action:  "action",
	Value:   "value",
}

// Kinds lists all valid kinds in codec order.
var Kinds = []Kind{Event, Hat, Process, Action, Value}

// String returns the lowercase kind name.
func (k Kind) String() string {
	if k.Valid() {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool { return int(k) < len(kindNames) }

// IsStatement reports whether blocks of this kind can sit below another
// block through a top socket.
func (k Kind) IsStatement() bool { return k == Process || k == Action }

// IsHat reports whether the kind uses the hat profile.
func (k Kind) IsHat() bool { return k == Hat }

// ParseKind parses a kind name case-insensitively.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, bderrors.New(bderrors.ErrCodeInvalidKind, "unknown block kind: %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, bderrors.New(bderrors.ErrCodeInvalidKind, "unknown block kind: %d", uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
