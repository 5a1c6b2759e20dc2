// Package textutil holds the small string helpers shared by the data pipeline.
package textutil

import (
	"math/rand/v2"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FallbackColor is used for rows that carry no filter value.
const FallbackColor = "#3333FF"

const hexDigits = "0123456789ABCDEF"

var isoPrefix = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})T(\d{2}):(\d{2}):(\d{2})`)

// CapitalizeWords uppercases the first letter of every space separated
// word and lowercases the rest: "mountain VALLEY" -> "Mountain Valley".
func CapitalizeWords(s string) string {
	// Casers carry state and must not be shared across goroutines.
	upper, lower := cases.Upper(language.Und), cases.Lower(language.Und)
	words := strings.Split(s, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		words[i] = upper.String(string(r)) + lower.String(w[size:])
	}
	return strings.Join(words, " ")
}

// CapitalizeFirst uppercases only the first character of s.
func CapitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	if unicode.IsUpper(r) {
		return s
	}
	return cases.Upper(language.Und).String(string(r)) + s[size:]
}

// RandomColor returns a random "#RRGGBB" color.
func RandomColor() string {
	var b strings.Builder
	b.Grow(7)
	b.WriteByte('#')
	for i := 0; i < 6; i++ {
		b.WriteByte(hexDigits[rand.IntN(16)])
	}
	return b.String()
}

// FormatDate rewrites a value starting with "YYYY-MM-DDTHH:MM:SS" as a
// short date ("3/9/2024"). Values without that prefix are returned as is.
func FormatDate(s string) string {
	m := isoPrefix.FindString(s)
	if m == "" {
		return s
	}
	t, err := time.Parse("2006-01-02T15:04:05", m)
	if err != nil {
		return s
	}
	return t.Format("1/2/2006")
}
