package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateCPF(t *testing.T) {
	require.True(t, ValidateCPF("52998224725"))
	// Tampered last digit.
	require.False(t, ValidateCPF("52998224724"))
	// Tampered first check digit.
	require.False(t, ValidateCPF("52998224735"))

	require.False(t, ValidateCPF(""))
	require.False(t, ValidateCPF("5299822472"))
	require.False(t, ValidateCPF("529982247255"))
	require.False(t, ValidateCPF("5299822472a"))

	for d := '0'; d <= '9'; d++ {
		repeated := strings.Repeat(string(d), 11)
		require.False(t, ValidateCPF(repeated), "repeated digit %s", repeated)
	}
}

func TestValidateCNPJ(t *testing.T) {
	require.True(t, ValidateCNPJ("11222333000181"))
	// Mutated trailing check digits.
	require.False(t, ValidateCNPJ("11222333000182"))
	require.False(t, ValidateCNPJ("11222333000191"))

	require.False(t, ValidateCNPJ(""))
	require.False(t, ValidateCNPJ("1122233300018"))
	require.False(t, ValidateCNPJ("112223330001811"))

	for d := '0'; d <= '9'; d++ {
		repeated := strings.Repeat(string(d), 14)
		require.False(t, ValidateCNPJ(repeated), "repeated digit %s", repeated)
	}
}

func TestValidateByKind(t *testing.T) {
	require.True(t, Validate(KindCPF, "529.982.247-25"))
	require.True(t, Validate(KindCNPJ, "11.222.333/0001-81"))
	require.False(t, Validate(KindCPF, "11.222.333/0001-81"))
	require.False(t, Validate(Kind("passport"), "52998224725"))
}

func TestFormatCPF(t *testing.T) {
	cases := map[string]string{
		"":               "",
		"1":              "1",
		"123":            "123",
		"1234":           "123.4",
		"123456":         "123.456",
		"1234567":        "123.456.7",
		"123456789":      "123.456.789",
		"1234567890":     "123.456.789-0",
		"12345678900":    "123.456.789-00",
		"123456789001":   "123.456.789-00",
		"123.456.789-00": "123.456.789-00",
	}
	for in, want := range cases {
		require.Equal(t, want, FormatCPF(in), "input %q", in)
	}
}

func TestFormatCNPJ(t *testing.T) {
	cases := map[string]string{
		"":                   "",
		"11":                 "11",
		"112":                "11.2",
		"11222":              "11.222",
		"11222333":           "11.222.333",
		"112223330":          "11.222.333/0",
		"112223330001":       "11.222.333/0001",
		"1122233300018":      "11.222.333/0001-8",
		"11222333000181":     "11.222.333/0001-81",
		"112223330001819":    "11.222.333/0001-81",
		"11.222.333/0001-81": "11.222.333/0001-81",
	}
	for in, want := range cases {
		require.Equal(t, want, FormatCNPJ(in), "input %q", in)
	}
}

func TestDigits(t *testing.T) {
	require.Equal(t, "52998224725", Digits("529.982.247-25"))
	require.Equal(t, "", Digits("abc-"))
}
