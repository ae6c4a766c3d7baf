// Package codec reads and writes the binary block definition format (.cbd).
//
// # Format
//
// A definition holds one [block.Template]. Multi-byte integers are
// little-endian unless noted; strings are UTF-16LE code units without a
// terminator, prefixed by their length in units.
//
//	0x00  magic 0xCB 0xDF                          2
//	0x02  format version                           2
//	0x04  kind                                     1
//	0x05  variant                                  1
//	0x06  slot-type entry count                    1
//	0x07  checksum of [0x00, 0x07)                 1
//	0x08  color RGB, big-endian                    3
//	0x0B  translation entry count                  1
//	0x0C  identifier length                        1
//	0x0D  code length                              2
//	0x0F  checksum of [0x08, 0x0F)                 1
//	0x10  identifier, code, slot types, translations
//
// A slot-type entry is keyLen(2) key typeByte(1). A translation entry is
// keyLen(2) valLen(2) key value.
//
// # Errors
//
// Corrupt input never panics. [Decode] returns an *errors.Error whose code
// names the reason (TRUNCATED, CHECKSUM_MISMATCH, BAD_MAGIC, INVALID_KIND,
// LENGTH_MISMATCH, COUNT_MISMATCH); errors.IsMalformed reports any of them.
// Both header checksums are verified before any length field is trusted.
//
// A format version outside [MinVersion, MaxVersion] is not an error: the
// returned [Info] says whether the file is too old or too new and decoding
// continues on a best-effort basis.
//
// # Round Trip
//
// Encode writes dictionaries in key order and recomputes both checksums from
// the bytes it wrote, so Decode(Encode(t)) equals t field by field. Decoded
// colors are always opaque.
package codec
