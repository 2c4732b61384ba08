// Package labels maps free-text category, colour and embroidery values in
// Arabic, French or English to canonical keys and display labels. Nothing in
// this package returns an error: unknown input degrades to a placeholder.
package labels

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks drops Unicode combining marks (category M) once NFD has split
// them from their base letters.
var stripMarks = runes.Remove(runes.In(unicode.M))

// Lower trims and lower-cases s.
func Lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Fold lower-cases s, strips accents and collapses whitespace. Arabic
// diacritics and hamza marks are dropped as well, so "أطفال" folds to "اطفال".
func Fold(s string) string {
	s = Lower(s)
	if s == "" {
		return ""
	}

	t := transform.Chain(norm.NFD, stripMarks, norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}
	return strings.Join(strings.Fields(result), " ")
}

// IsArabic reports whether s contains a rune from the Arabic block.
func IsArabic(s string) bool {
	for _, r := range s {
		if r >= 0x0600 && r <= 0x06FF {
			return true
		}
	}
	return false
}

var numericLike = regexp.MustCompile(`^\d+(\.\d+)?$`)

func isNumericLike(s string) bool {
	return numericLike.MatchString(strings.TrimSpace(s))
}

// Capitalize upper-cases the first rune of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// alias is one entry of an ordered lookup table.
type alias struct {
	key   string
	value string
}

// table is an ordered alias table with a folded exact-match index.
type table struct {
	entries []alias
	index   map[string]string
}

func newTable(entries []alias) table {
	t := table{entries: make([]alias, 0, len(entries)), index: make(map[string]string, len(entries))}
	for _, e := range entries {
		k := Fold(e.key)
		t.entries = append(t.entries, alias{key: k, value: e.value})
		if _, dup := t.index[k]; !dup {
			t.index[k] = e.value
		}
	}
	return t
}

func (t table) exact(s string) (string, bool) {
	v, ok := t.index[Fold(s)]
	return v, ok
}

// lookup tries an exact match, then the first entry (in table order) whose
// key is contained in s.
func (t table) lookup(s string) (string, bool) {
	k := Fold(s)
	if k == "" {
		return "", false
	}
	if v, ok := t.index[k]; ok {
		return v, true
	}
	for _, e := range t.entries {
		if strings.Contains(k, e.key) {
			return e.value, true
		}
	}
	return "", false
}
