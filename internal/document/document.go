// Package document validates and formats Brazilian tax identifiers:
// CPF for individuals and CNPJ for organizations. All functions are pure.
package document

import "strings"

// Kind distinguishes the two supported identifier formats.
type Kind string

const (
	// KindCPF identifies an 11-digit individual taxpayer number.
	KindCPF Kind = "cpf"
	// KindCNPJ identifies a 14-digit organization taxpayer number.
	KindCNPJ Kind = "cnpj"
)

const (
	cpfLen  = 11
	cnpjLen = 14
)

// Digits strips every non-digit rune from raw.
func Digits(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Validate checks raw against the checksum for the given kind. Punctuation in
// raw is ignored. Unknown kinds are invalid.
func Validate(kind Kind, raw string) bool {
	switch kind {
	case KindCPF:
		return ValidateCPF(Digits(raw))
	case KindCNPJ:
		return ValidateCNPJ(Digits(raw))
	default:
		return false
	}
}

// Format renders raw in the canonical display form for the given kind.
func Format(kind Kind, raw string) string {
	switch kind {
	case KindCPF:
		return FormatCPF(raw)
	case KindCNPJ:
		return FormatCNPJ(raw)
	default:
		return Digits(raw)
	}
}

// ValidateCPF reports whether digits is a checksum-valid CPF. The input must
// already be stripped to bare digits.
func ValidateCPF(digits string) bool {
	if len(digits) != cpfLen || !allDigits(digits) || allSame(digits) {
		return false
	}

	sum := 0
	for i := 0; i < 9; i++ {
		sum += int(digits[i]-'0') * (10 - i)
	}
	if checkDigit11(sum) != int(digits[9]-'0') {
		return false
	}

	sum = 0
	for i := 0; i < 10; i++ {
		sum += int(digits[i]-'0') * (11 - i)
	}
	return checkDigit11(sum) == int(digits[10]-'0')
}

// ValidateCNPJ reports whether digits is a checksum-valid CNPJ. The input
// must already be stripped to bare digits.
func ValidateCNPJ(digits string) bool {
	if len(digits) != cnpjLen || !allDigits(digits) || allSame(digits) {
		return false
	}
	if cnpjCheckDigit(digits[:12]) != int(digits[12]-'0') {
		return false
	}
	return cnpjCheckDigit(digits[:13]) == int(digits[13]-'0')
}

// FormatCPF renders raw as ###.###.###-##. Partial input formats as far as
// the entered digits reach, with no trailing punctuation.
func FormatCPF(raw string) string {
	d := Digits(raw)
	if len(d) > cpfLen {
		d = d[:cpfLen]
	}
	switch {
	case len(d) <= 3:
		return d
	case len(d) <= 6:
		return d[:3] + "." + d[3:]
	case len(d) <= 9:
		return d[:3] + "." + d[3:6] + "." + d[6:]
	default:
		return d[:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:]
	}
}

// FormatCNPJ renders raw as ##.###.###/####-##, progressively for partial
// input.
func FormatCNPJ(raw string) string {
	d := Digits(raw)
	if len(d) > cnpjLen {
		d = d[:cnpjLen]
	}
	switch {
	case len(d) <= 2:
		return d
	case len(d) <= 5:
		return d[:2] + "." + d[2:]
	case len(d) <= 8:
		return d[:2] + "." + d[2:5] + "." + d[5:]
	case len(d) <= 12:
		return d[:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:]
	default:
		return d[:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:12] + "-" + d[12:]
	}
}

// checkDigit11 applies the CPF remainder rule: 11 - (sum mod 11), collapsing
// 10 and 11 to 0.
func checkDigit11(sum int) int {
	d := 11 - sum%11
	if d >= 10 {
		return 0
	}
	return d
}

// cnpjCheckDigit computes the CNPJ check digit over prefix using positional
// weights that cycle 2..9 from the rightmost digit.
func cnpjCheckDigit(prefix string) int {
	weight := 2
	sum := 0
	for i := len(prefix) - 1; i >= 0; i-- {
		sum += int(prefix[i]-'0') * weight
		weight++
		if weight > 9 {
			weight = 2
		}
	}
	if sum%11 < 2 {
		return 0
	}
	return 11 - sum%11
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func allSame(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}
