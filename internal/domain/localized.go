package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Lang is a storefront display language.
type Lang string

const (
	LangAR Lang = "ar"
	LangFR Lang = "fr"
	LangEN Lang = "en"
)

// ParseLang maps a query/header value to a supported language, defaulting to Arabic.
func ParseLang(raw string) Lang {
	switch Lang(strings.ToLower(strings.TrimSpace(raw))) {
	case LangFR:
		return LangFR
	case LangEN:
		return LangEN
	default:
		return LangAR
	}
}

// LocalizedText is a value that arrives either as a plain string or as an
// object keyed by language ({"en": ..., "fr": ..., "ar": ...}).
type LocalizedText struct {
	Plain string
	EN    string
	FR    string
	AR    string
	// Extra keeps any other language keys (e.g. "ar-SA").
	Extra map[string]string

	localized bool
}

// PlainText wraps a plain string.
func PlainText(s string) LocalizedText {
	return LocalizedText{Plain: s}
}

// Localize builds the language-keyed form.
func Localize(en, fr, ar string) LocalizedText {
	return LocalizedText{EN: en, FR: fr, AR: ar, localized: true}
}

// IsLocalized reports whether the value carries the language-keyed form.
func (t LocalizedText) IsLocalized() bool {
	return t.localized
}

// IsZero reports whether no language holds a non-blank value.
func (t LocalizedText) IsZero() bool {
	return len(t.Values()) == 0
}

// In returns the value for lang. A plain value answers for every language.
func (t LocalizedText) In(lang Lang) string {
	if !t.localized {
		return t.Plain
	}
	switch lang {
	case LangEN:
		return t.EN
	case LangFR:
		return t.FR
	case LangAR:
		return t.AR
	}
	return t.Extra[string(lang)]
}

// Values returns every non-blank value, en/fr/ar first, then extra keys in
// key order.
func (t LocalizedText) Values() []string {
	var out []string
	add := func(v string) {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}

	if !t.localized {
		add(t.Plain)
		return out
	}

	add(t.EN)
	add(t.FR)
	add(t.AR)

	keys := make([]string, 0, len(t.Extra))
	for k := range t.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		add(t.Extra[k])
	}
	return out
}

// First returns the first non-blank value in the given language order, or "".
func (t LocalizedText) First(order ...Lang) string {
	for _, lang := range order {
		if v := strings.TrimSpace(t.In(lang)); v != "" {
			return v
		}
	}
	return ""
}

// String returns a single representative value (en, fr, ar, then extras).
func (t LocalizedText) String() string {
	if vs := t.Values(); len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// UnmarshalJSON accepts a string, a number, or a language-keyed object.
func (t *LocalizedText) UnmarshalJSON(data []byte) error {
	*t = LocalizedText{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		return json.Unmarshal(data, &t.Plain)
	case '{':
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("localized text: %w", err)
		}
		t.localized = true
		for key, value := range raw {
			var s string
			if err := json.Unmarshal(value, &s); err != nil {
				// non-string members are ignored
				continue
			}
			switch Lang(key) {
			case LangEN:
				t.EN = s
			case LangFR:
				t.FR = s
			case LangAR:
				t.AR = s
			default:
				if t.Extra == nil {
					t.Extra = make(map[string]string)
				}
				t.Extra[key] = s
			}
		}
		return nil
	default:
		// numbers and booleans are kept verbatim as plain text
		t.Plain = string(data)
		return nil
	}
}

// MarshalJSON emits a string for plain values and an object otherwise.
func (t LocalizedText) MarshalJSON() ([]byte, error) {
	if !t.localized {
		if t.Plain == "" {
			return []byte("null"), nil
		}
		return json.Marshal(t.Plain)
	}

	out := make(map[string]string, 3+len(t.Extra))
	for k, v := range t.Extra {
		out[k] = v
	}
	out[string(LangEN)] = t.EN
	out[string(LangFR)] = t.FR
	out[string(LangAR)] = t.AR
	return json.Marshal(out)
}
