package labels

import (
	"strings"

	"wahret-zmen/internal/domain"
)

var embroideryArabic = newTable([]alias{
	{"broderie", "تطريز"},
	{"broderie traditionnelle", "تطريز تقليدي"},
	{"broderie moderne", "تطريز عصري"},
	{"broderie main", "تطريز يدوي"},
	{"broderie à la main", "تطريز يدوي"},
	{"point de croix", "غرز متقاطعة"},
	{"broderie machine", "تطريز آلي"},

	{"embroidery", "تطريز"},
	{"handmade embroidery", "تطريز يدوي"},
	{"machine embroidery", "تطريز آلي"},
	{"traditional embroidery", "تطريز تقليدي"},
	{"modern embroidery", "تطريز عصري"},
})

// EmbroideryLabel picks the display label of an embroidery category.
func EmbroideryLabel(value domain.LocalizedText, lang domain.Lang) string {
	raw := pickLabel(value, lang)
	if raw == "" {
		return placeholder(uncategorized, lang)
	}
	if lang != domain.LangAR || IsArabic(raw) {
		return raw
	}
	if ar, ok := embroideryArabic.lookup(raw); ok {
		return ar
	}
	return raw
}

// EmbroideryText joins every language value, for substring search.
func EmbroideryText(value domain.LocalizedText) string {
	return strings.Join(value.Values(), " ")
}

// EmbroideryKey is the folded ar || fr || en value used to group similar
// products.
func EmbroideryKey(value domain.LocalizedText) string {
	if !value.IsLocalized() {
		return Fold(value.Plain)
	}
	return Fold(value.First(domain.LangAR, domain.LangFR, domain.LangEN))
}
