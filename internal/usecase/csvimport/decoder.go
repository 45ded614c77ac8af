// Package csvimport turns raw brokerage exports into ledger entries.
// Nothing in this package performs I/O beyond draining a caller-supplied reader.
package csvimport

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"

	"github.com/simaogato/assetbalance-backend/internal/domain"
)

// Encoding names the character encoding an export was decoded with
type Encoding string

const (
	EncodingUTF8BOM  Encoding = "UTF-8-BOM"
	EncodingUTF16LE  Encoding = "UTF-16LE"
	EncodingUTF16BE  Encoding = "UTF-16BE"
	EncodingUTF8     Encoding = "UTF-8"
	EncodingShiftJIS Encoding = "Shift_JIS"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DetectEncoding picks the encoding of data.
// Logic (first match wins):
//  1. UTF-8 byte order mark
//  2. UTF-16 little-endian or big-endian byte order mark
//  3. The whole buffer is valid UTF-8
//  4. Shift_JIS, the locale default of exports written without a marker
func DetectEncoding(data []byte) Encoding {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return EncodingUTF8BOM
	case bytes.HasPrefix(data, bomUTF16LE):
		return EncodingUTF16LE
	case bytes.HasPrefix(data, bomUTF16BE):
		return EncodingUTF16BE
	case utf8.Valid(data):
		return EncodingUTF8
	default:
		return EncodingShiftJIS
	}
}

// DecodeLines decodes data and splits it into lines.
// Malformed byte sequences become U+FFFD; decoding never fails on content.
func DecodeLines(data []byte) []string {
	return splitLines(decode(data, DetectEncoding(data)))
}

// ReadLines drains r and decodes it like DecodeLines.
// The only failure is a read error, reported as *domain.DecodeError.
func ReadLines(r io.Reader) ([]string, Encoding, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", &domain.DecodeError{Err: err}
	}

	enc := DetectEncoding(data)
	return splitLines(decode(data, enc)), enc, nil
}

func decode(data []byte, enc Encoding) string {
	var decoder *encoding.Decoder
	switch enc {
	case EncodingUTF8:
		return string(data)
	case EncodingUTF8BOM:
		decoder = unicode.UTF8BOM.NewDecoder()
	case EncodingUTF16LE:
		decoder = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	case EncodingUTF16BE:
		decoder = unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
	default:
		decoder = japanese.ShiftJIS.NewDecoder()
	}

	out, err := decoder.Bytes(data)
	if err != nil {
		// x/text decoders substitute U+FFFD, so this only guards against a transformer bug
		return strings.ToValidUTF8(string(data), "\uFFFD")
	}
	return string(out)
}

// splitLines splits on '\n' and drops a trailing '\r' from each line.
// A final terminator does not yield an empty last line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
