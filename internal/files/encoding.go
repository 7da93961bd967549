package files

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultEncoding is used when no encoding name is given
const DefaultEncoding = "utf-8"

// UTF8BOM is the byte order mark some spreadsheet tools expect
var UTF8BOM = []byte{0xEF, 0xBB, 0xBF}

// LookupEncoding resolves an encoding label such as "utf-8", "latin1" or
// "windows-1252".
func LookupEncoding(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultEncoding
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", name, err)
	}
	return enc, nil
}

// IsUTF8 reports whether the label names UTF-8
func IsUTF8(name string) bool {
	enc, err := LookupEncoding(name)
	return err == nil && enc == unicode.UTF8
}

// InvalidUTF8Offset returns the offset of the first byte that is not part of
// a valid UTF-8 sequence, or -1. Data starting with a UTF-16 byte order mark
// is not UTF-8 and is skipped.
func InvalidUTF8Offset(data []byte) int {
	if bytes.HasPrefix(data, []byte{0xFE, 0xFF}) || bytes.HasPrefix(data, []byte{0xFF, 0xFE}) {
		return -1
	}
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

// NewDecodingReader returns a reader producing UTF-8 from r.
// A leading byte order mark is removed.
func NewDecodingReader(r io.Reader, encodingName string) (io.Reader, error) {
	enc, err := LookupEncoding(encodingName)
	if err != nil {
		return nil, err
	}
	return transform.NewReader(r, unicode.BOMOverride(enc.NewDecoder())), nil
}

// NewEncodingWriter returns a writer converting UTF-8 input to the named
// encoding. The caller must Close it to flush buffered output.
func NewEncodingWriter(w io.Writer, encodingName string) (io.WriteCloser, error) {
	enc, err := LookupEncoding(encodingName)
	if err != nil {
		return nil, err
	}
	return transform.NewWriter(w, enc.NewEncoder()), nil
}
