package services

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/unicode"

	"github.com/chaek-labs/bindery-cli/internal/core/domain"
)

// codecAttempt is one entry in the ordered decoding table. When bom is
// non-nil the attempt only applies to buffers carrying that exact prefix.
type codecAttempt struct {
	name   string
	bom    []byte
	decode func(raw []byte) (string, bool)
}

// codecAttempts is the fixed priority order for encoding resolution:
// BOM-qualified codecs first, then unconditional guesses, ending with
// Latin-1 which accepts arbitrary byte values. The original asset dumps
// tried cp949 and euc-kr separately; the euc-kr table here is the WHATWG
// one, a CP949/UHC superset, so a single attempt covers both.
var codecAttempts = []codecAttempt{
	{name: "utf-8-sig", bom: []byte{0xEF, 0xBB, 0xBF}, decode: decodeUTF8SIG},
	{name: "utf-16", bom: []byte{0xFF, 0xFE}, decode: decodeUTF16},
	{name: "utf-8", decode: decodeUTF8},
	{name: "euc-kr", decode: decodeEUCKR},
	{name: "latin-1", decode: decodeLatin1},
}

// ResolveEncoding turns raw bytes into decoded text by trying each codec in
// the table once; the first successful decode wins and the chosen encoding
// is fixed for the rest of the pipeline. Latin-1 accepts any byte value, so
// the table as shipped cannot be exhausted; the error path remains for the
// contract's sake.
func ResolveEncoding(raw []byte) (domain.DecodedText, error) {
	for _, attempt := range codecAttempts {
		if attempt.bom != nil && !bytes.HasPrefix(raw, attempt.bom) {
			continue
		}
		if text, ok := attempt.decode(raw); ok {
			return domain.DecodedText{Text: text, Encoding: attempt.name}, nil
		}
	}
	return domain.DecodedText{}, fmt.Errorf("%w (%d bytes)", domain.ErrEncodingUndetected, len(raw))
}

// decodeUTF8SIG strips the UTF-8 byte order mark and validates the rest.
func decodeUTF8SIG(raw []byte) (string, bool) {
	body := raw[3:]
	if !utf8.Valid(body) {
		return "", false
	}
	return string(body), true
}

// decodeUTF16 decodes little-endian UTF-16 with a leading byte order mark.
func decodeUTF16(raw []byte) (string, bool) {
	dec := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
	return decodeStrict(dec, raw)
}

func decodeUTF8(raw []byte) (string, bool) {
	if !utf8.Valid(raw) {
		return "", false
	}
	return string(raw), true
}

func decodeEUCKR(raw []byte) (string, bool) {
	return decodeStrict(korean.EUCKR.NewDecoder(), raw)
}

// decodeLatin1 maps every byte to a rune, so it always succeeds. The output
// may be semantic garbage for binary input; that is accepted behaviour, the
// last resort never rejects.
func decodeLatin1(raw []byte) (string, bool) {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", false
	}
	return string(out), true
}

// decodeStrict rejects a decode that errored or substituted replacement
// runes. The x/text decoders replace undecodable sequences rather than
// failing, so the substitution check is what turns "decoded" into "decoded
// cleanly".
func decodeStrict(dec *encoding.Decoder, raw []byte) (string, bool) {
	out, err := dec.Bytes(raw)
	if err != nil {
		return "", false
	}
	text := string(out)
	if strings.ContainsRune(text, utf8.RuneError) {
		return "", false
	}
	return text, true
}
