package codec

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"

	bderrors "github.com/matzehuels/blockdock/pkg/errors"
)

// utf16le transcodes strings without writing or consuming a byte order
// mark, so a leading U+FEFF survives a round trip.
var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// encodeString returns s as UTF-16LE bytes; len/2 is its length in units.
// Invalid UTF-8 is rejected: the encoder would turn it into U+FFFD and the
// definition would not decode to what was encoded.
func encodeString(field, s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, bderrors.New(bderrors.ErrCodeInvalidInput, "%s: invalid UTF-8", field)
	}
	b, err := utf16le.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, bderrors.Wrap(bderrors.ErrCodeInvalidInput, err, "%s: not valid text", field)
	}
	return b, nil
}

func decodeString(b []byte) (string, error) {
	s, err := utf16le.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(s), nil
}
