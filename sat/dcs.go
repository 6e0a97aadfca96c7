package sat

import (
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/unicode"
)

// Alphabet of a text string, as selected by bits 3-4 of a data coding scheme.
type Alphabet byte

const (
	AlphabetGsm7     Alphabet = 0 // SMS default alphabet, packed
	Alphabet8Bit     Alphabet = 1 // SMS default alphabet, one septet per octet
	AlphabetUcs2     Alphabet = 2
	AlphabetReserved Alphabet = 3
)

var ErrReservedAlphabet = errors.New("reserved alphabet")

var alphabetNames = []string{"gsm7", "8bit", "ucs2", "reserved"}

func (a Alphabet) String() string {
	return alphabetNames[a&3]
}

// DCS is the data coding scheme octet for a.
func (a Alphabet) DCS() byte {
	return byte(a&3) << 2
}

// AlphabetFromDCS reads bits 3-4 of a general data coding scheme.
func AlphabetFromDCS(dcs byte) Alphabet {
	return Alphabet((dcs >> 2) & 3)
}

// AlphabetFromCbsDCS interprets a cell broadcast data coding scheme, as used
// by USSD strings. Language groups are default alphabet; general coding
// groups fall back to bits 3-4.
func AlphabetFromCbsDCS(dcs byte) Alphabet {
	switch dcs >> 4 {
	case 0x0, 0x2, 0x3:
		return AlphabetGsm7
	case 0x1:
		if dcs&0x0f == 0x01 {
			return AlphabetUcs2
		}
		return AlphabetGsm7
	case 0xf:
		if dcs&0x04 != 0 {
			return Alphabet8Bit
		}
		return AlphabetGsm7
	}
	return AlphabetFromDCS(dcs)
}

// Text is a text string as carried in a terminal response.
type Text struct {
	DCS  byte   `json:"dcs"`
	Data []byte `json:"data"`
}

// EncodeText encodes s in alphabet a.
func EncodeText(a Alphabet, s string) (*Text, error) {
	var data []byte
	switch a {
	case AlphabetGsm7:
		data = PackSeptets(padSeptets(gsmSeptets(s)))
	case Alphabet8Bit:
		data = gsmSeptets(s)
	case AlphabetUcs2:
		b, err := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder().Bytes([]byte(s))
		if err != nil {
			return nil, errors.Wrap(err, "ucs2 encode")
		}
		data = b
	default:
		return nil, ErrReservedAlphabet
	}
	return &Text{DCS: a.DCS(), Data: data}, nil
}

// DecodeText is the inverse of EncodeText.
func DecodeText(a Alphabet, data []byte) (string, error) {
	switch a {
	case AlphabetGsm7:
		return gsmString(unpadSeptets(UnpackSeptets(data))), nil
	case Alphabet8Bit:
		return gsmString(data), nil
	case AlphabetUcs2:
		b, err := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder().Bytes(data)
		if err != nil {
			return "", errors.Wrap(err, "ucs2 decode")
		}
		return string(b), nil
	}
	return "", ErrReservedAlphabet
}

// Transcode decodes data in alphabet a and re-encodes it for a terminal
// response. 8-bit data and reserved alphabets are octets the terminal cannot
// interpret, so they are passed through untouched.
func Transcode(a Alphabet, data []byte) (*Text, error) {
	if a == Alphabet8Bit || a == AlphabetReserved {
		return &Text{DCS: a.DCS(), Data: append([]byte(nil), data...)}, nil
	}
	s, err := DecodeText(a, data)
	if err != nil {
		return nil, err
	}
	return EncodeText(a, s)
}

const (
	septetEscape = 0x1b
	septetCR     = 0x0d
)

// PackSeptets packs 7-bit values into octets, least significant bit first.
func PackSeptets(septets []byte) []byte {
	out := make([]byte, 0, (len(septets)*7+7)/8)
	var acc uint
	bits := uint(0)
	for _, s := range septets {
		acc |= uint(s&0x7f) << bits
		bits += 7
		for bits >= 8 {
			out = append(out, byte(acc))
			acc >>= 8
			bits -= 8
		}
	}
	if bits > 0 {
		out = append(out, byte(acc))
	}
	return out
}

// UnpackSeptets is the inverse of PackSeptets. Trailing fill bits that make
// up a whole septet are returned as a zero septet.
func UnpackSeptets(data []byte) []byte {
	n := len(data) * 8 / 7
	out := make([]byte, 0, n)
	var acc uint
	bits := uint(0)
	for _, b := range data {
		acc |= uint(b) << bits
		bits += 8
		for bits >= 7 && len(out) < n {
			out = append(out, byte(acc&0x7f))
			acc >>= 7
			bits -= 7
		}
	}
	return out
}

func endsInCR(s []byte, n int) bool {
	if len(s) < n {
		return false
	}
	for _, c := range s[len(s)-n:] {
		if c != septetCR {
			return false
		}
	}
	return true
}

// padSeptets adds the CR filler of 3GPP TS 23.038. 7 septets leave 7 fill
// bits in the last octet, which would unpack as an extra '@'. A text that
// already ends in CR on an octet boundary gets one more CR so the receiver
// keeps the wanted one.
func padSeptets(s []byte) []byte {
	switch n := len(s); {
	case n%8 == 7, n > 0 && n%8 == 0 && endsInCR(s, 1):
		return append(s, septetCR)
	}
	return s
}

// unpadSeptets removes exactly the one filler CR added by padSeptets. A text
// of 8n+1 septets that itself ends in CR CR cannot be told apart from a
// padded one and loses its last CR, which 23.038 treats as equivalent.
func unpadSeptets(s []byte) []byte {
	switch n := len(s); {
	case n > 0 && n%8 == 0 && endsInCR(s, 1), n%8 == 1 && endsInCR(s, 2):
		return s[:n-1]
	}
	return s
}

var gsmToRune = [128]rune{
	'@', '£', '$', '¥', 'è', 'é', 'ù', 'ì', 'ò', 'Ç', '\n', 'Ø', 'ø', '\r', 'Å', 'å',
	'Δ', '_', 'Φ', 'Γ', 'Λ', 'Ω', 'Π', 'Ψ', 'Σ', 'Θ', 'Ξ', 0x1b, 'Æ', 'æ', 'ß', 'É',
	' ', '!', '"', '#', '¤', '%', '&', '\'', '(', ')', '*', '+', ',', '-', '.', '/',
	'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', ':', ';', '<', '=', '>', '?',
	'¡', 'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'J', 'K', 'L', 'M', 'N', 'O',
	'P', 'Q', 'R', 'S', 'T', 'U', 'V', 'W', 'X', 'Y', 'Z', 'Ä', 'Ö', 'Ñ', 'Ü', '§',
	'¿', 'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 'i', 'j', 'k', 'l', 'm', 'n', 'o',
	'p', 'q', 'r', 's', 't', 'u', 'v', 'w', 'x', 'y', 'z', 'ä', 'ö', 'ñ', 'ü', 'à',
}

var gsmExtension = map[byte]rune{
	0x0a: '\f',
	0x14: '^',
	0x28: '{',
	0x29: '}',
	0x2f: '\\',
	0x3c: '[',
	0x3d: '~',
	0x3e: ']',
	0x40: '|',
	0x65: '€',
}

var runeToGsm = map[rune][]byte{}

func init() {
	for i, r := range gsmToRune {
		if i != septetEscape {
			runeToGsm[r] = []byte{byte(i)}
		}
	}
	for s, r := range gsmExtension {
		runeToGsm[r] = []byte{septetEscape, s}
	}
}

// gsmSeptets maps s onto the SMS default alphabet. Characters outside it
// become '?'.
func gsmSeptets(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if b, ok := runeToGsm[r]; ok {
			out = append(out, b...)
		} else {
			out = append(out, '?')
		}
	}
	return out
}

func gsmString(septets []byte) string {
	out := make([]rune, 0, len(septets))
	for i := 0; i < len(septets); i++ {
		s := septets[i] & 0x7f
		if s == septetEscape && i+1 < len(septets) {
			i++
			if r, ok := gsmExtension[septets[i]&0x7f]; ok {
				out = append(out, r)
			} else {
				out = append(out, ' ')
			}
			continue
		}
		out = append(out, gsmToRune[s])
	}
	return string(out)
}
