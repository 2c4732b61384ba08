package labels

import (
	"strings"

	"wahret-zmen/internal/domain"
)

var colorArabic = newTable([]alias{
	{"noir", "أسود"}, {"black", "أسود"},
	{"blanc", "أبيض"}, {"white", "أبيض"},
	{"rouge", "أحمر"}, {"red", "أحمر"},
	{"bordeaux", "خمري"},
	{"vert", "أخضر"}, {"green", "أخضر"},
	{"bleu", "أزرق"}, {"blue", "أزرق"},
	{"navy", "أزرق داكن"},
	{"turquoise", "فيروزي"},
	{"jaune", "أصفر"}, {"yellow", "أصفر"},
	{"orange", "برتقالي"},
	{"violet", "بنفسجي"}, {"purple", "بنفسجي"},
	{"rose", "وردي"}, {"pink", "وردي"},
	{"marron", "بني"}, {"brown", "بني"},
	{"beige", "بيج"},
	{"gris", "رمادي"}, {"gray", "رمادي"},
	{"argent", "فضي"}, {"silver", "فضي"},
	{"doré", "ذهبي"}, {"gold", "ذهبي"},
	{"multicolore", "متعدد الألوان"}, {"multicolor", "متعدد الألوان"},
})

var defaultColor = map[domain.Lang]string{
	domain.LangAR: "افتراضي",
	domain.LangFR: "Par défaut",
	domain.LangEN: "Default",
}

// OriginalColorName is the synthetic colour used when a product has none.
func OriginalColorName() domain.LocalizedText {
	return domain.Localize("Original", "Original", "أصلي")
}

// ArabicColor returns the Arabic name of a colour alias on an exact match.
func ArabicColor(s string) (string, bool) {
	return colorArabic.exact(s)
}

// ColorLabel picks the display label of a colour name in lang. Arabic output
// translates known French/English colours; other languages return the picked
// value as is.
func ColorLabel(name domain.LocalizedText, lang domain.Lang) string {
	raw := pickLabel(name, lang)
	if raw == "" {
		return placeholder(defaultColor, lang)
	}
	if lang != domain.LangAR || IsArabic(raw) {
		return raw
	}
	if ar, ok := colorArabic.lookup(raw); ok {
		return ar
	}
	return raw
}

// CanonicalizeColorName converts any colour name into the localized shape.
// Blank names become the synthetic "Original" colour.
func CanonicalizeColorName(name domain.LocalizedText) domain.LocalizedText {
	if name.IsLocalized() {
		if name.IsZero() {
			return OriginalColorName()
		}
		return name
	}

	s := strings.TrimSpace(name.Plain)
	if s == "" {
		return OriginalColorName()
	}
	if IsArabic(s) {
		return domain.Localize(s, s, s)
	}
	ar, ok := ArabicColor(s)
	if !ok {
		ar = s
	}
	return domain.Localize(s, s, ar)
}

// ColorKeys returns the distinct folded values of a colour name.
func ColorKeys(name domain.LocalizedText) []string {
	var keys []string
	seen := make(map[string]struct{})
	for _, v := range name.Values() {
		k := Fold(v)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}

// SameColor reports whether two colour names share a folded value in any
// language.
func SameColor(a, b domain.LocalizedText) bool {
	ka := ColorKeys(a)
	if len(ka) == 0 {
		ka = ColorKeys(OriginalColorName())
	}
	kb := ColorKeys(b)
	if len(kb) == 0 {
		kb = ColorKeys(OriginalColorName())
	}
	for _, x := range ka {
		for _, y := range kb {
			if x == y {
				return true
			}
		}
	}
	return false
}

// PrimaryColorName is en || fr || ar || "Original".
func PrimaryColorName(name domain.LocalizedText) string {
	if !name.IsLocalized() {
		if s := strings.TrimSpace(name.Plain); s != "" {
			return s
		}
		return "Original"
	}
	if s := name.First(domain.LangEN, domain.LangFR, domain.LangAR); s != "" {
		return s
	}
	return "Original"
}

func pickLabel(name domain.LocalizedText, lang domain.Lang) string {
	usable := func(v string) bool {
		v = strings.TrimSpace(v)
		return v != "" && !isNumericLike(v)
	}

	if !name.IsLocalized() {
		if usable(name.Plain) {
			return strings.TrimSpace(name.Plain)
		}
		return ""
	}

	for _, l := range []domain.Lang{lang, domain.LangAR, domain.LangFR, domain.LangEN} {
		if v := name.In(l); usable(v) {
			return strings.TrimSpace(v)
		}
	}
	for _, v := range name.Values() {
		if usable(v) {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
