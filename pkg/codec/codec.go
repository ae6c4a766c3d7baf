package codec

import (
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/blockdock/pkg/block"
	bderrors "github.com/matzehuels/blockdock/pkg/errors"
)

// Format constants.
const (
	Magic0 = 0xCB
	Magic1 = 0xDF

	FormatVersion = 2 // version written by Encode
	MinVersion    = 1 // oldest version Decode understands
	MaxVersion    = 2 // newest version Decode understands

	HeaderSize = 0x10

	// Ext is the file extension of definition files.
	Ext = ".cbd"
)

// Limits imposed by the header's length and count fields.
const (
	MaxIDLen     = 0xFF
	MaxCodeLen   = 0xFFFF
	MaxEntries   = 0xFF
	MaxStringLen = 0xFFFF

	// MaxDefinitionSize bounds what Read accepts from a stream.
	MaxDefinitionSize = 64 << 20
)

// Header field offsets.
const (
	offMagic      = 0x00
	offVersion    = 0x02
	offKind       = 0x04
	offVariant    = 0x05
	offSlotCount  = 0x06
	offSum1       = 0x07 // covers [offMagic, offSum1)
	offColor      = 0x08
	offTransCount = 0x0B
	offIDLen      = 0x0C
	offCodeLen    = 0x0D
	offSum2       = 0x0F // covers [offColor, offSum2)
)

// VersionStatus classifies a file's format version.
type VersionStatus int

const (
	VersionOK VersionStatus = iota
	VersionTooOld
	VersionTooNew
)

func (s VersionStatus) String() string {
	switch s {
	case VersionOK:
		return "ok"
	case VersionTooOld:
		return "too old"
	case VersionTooNew:
		return "too new"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Info describes the format version of a decoded definition.
type Info struct {
	Version uint16
	Status  VersionStatus
}

// Supported reports whether the version is within [MinVersion, MaxVersion].
func (i Info) Supported() bool { return i.Status == VersionOK }

func versionInfo(v uint16) Info {
	switch {
	case v < MinVersion:
		return Info{Version: v, Status: VersionTooOld}
	case v > MaxVersion:
		return Info{Version: v, Status: VersionTooNew}
	}
	return Info{Version: v, Status: VersionOK}
}

// Checksum folds buf[start:end) into one byte: the XOR of every byte XOR
// its offset from start. Bytes past the end of buf are skipped.
func Checksum(buf []byte, start, end int) byte {
	var sum byte
	for off := 0; off < end-start && start+off < len(buf); off++ {
		sum ^= buf[start+off] ^ byte(off)
	}
	return sum
}

// Read decodes one definition from r.
func Read(r io.Reader) (*block.Template, Info, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxDefinitionSize+1))
	if err != nil {
		return nil, Info{}, err
	}
	if len(data) > MaxDefinitionSize {
		return nil, Info{}, bderrors.New(bderrors.ErrCodeTooLarge, "definition exceeds %d bytes", MaxDefinitionSize)
	}
	return Decode(data)
}

// ReadFile decodes the definition stored at path.
func ReadFile(path string) (*block.Template, Info, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, Info{}, bderrors.Wrap(bderrors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, Info{}, err
	}
	defer f.Close()
	t, info, err := Read(f)
	if err != nil {
		return nil, info, fmt.Errorf("%s: %w", path, err)
	}
	return t, info, nil
}

// Write encodes t to w.
func Write(w io.Writer, t *block.Template) error {
	data, err := Encode(t)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteFile encodes t to path.
func WriteFile(path string, t *block.Template) error {
	data, err := Encode(t)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
