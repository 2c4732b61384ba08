package labels

import (
	"strings"

	"wahret-zmen/internal/domain"
)

// Canonical category keys.
const (
	CategoryAll      = "All"
	CategoryMen      = "Men"
	CategoryWomen    = "Women"
	CategoryChildren = "Children"
)

var categoryAliases = newTable([]alias{
	{"all", CategoryAll}, {"tous", CategoryAll}, {"الكل", CategoryAll},

	{"men", CategoryMen}, {"man", CategoryMen}, {"male", CategoryMen},
	{"hommes", CategoryMen}, {"homme", CategoryMen}, {"رجال", CategoryMen},

	{"women", CategoryWomen}, {"woman", CategoryWomen}, {"female", CategoryWomen},
	{"femmes", CategoryWomen}, {"femme", CategoryWomen}, {"نساء", CategoryWomen},

	{"children", CategoryChildren}, {"child", CategoryChildren},
	{"kids", CategoryChildren}, {"kid", CategoryChildren},
	{"enfants", CategoryChildren}, {"enfant", CategoryChildren},
	{"أطفال", CategoryChildren},
})

var categoryLabels = map[string]map[domain.Lang]string{
	CategoryAll:      {domain.LangAR: "الكل", domain.LangFR: "Tous", domain.LangEN: "All"},
	CategoryMen:      {domain.LangAR: "رجال", domain.LangFR: "Hommes", domain.LangEN: "Men"},
	CategoryWomen:    {domain.LangAR: "نساء", domain.LangFR: "Femmes", domain.LangEN: "Women"},
	CategoryChildren: {domain.LangAR: "أطفال", domain.LangFR: "Enfants", domain.LangEN: "Children"},
}

// Categories outside the closed set that still have an Arabic display name.
var otherCategoriesArabic = newTable([]alias{
	{"couffin", "قفّة"}, {"panier", "قفّة"},
	{"vetement", "ملابس"}, {"vetements", "ملابس"}, {"clothing", "ملابس"}, {"clothes", "ملابس"},
	{"accessoires", "إكسسوارات"}, {"accessoire", "إكسسوارات"},
	{"accessories", "إكسسوارات"}, {"accessory", "إكسسوارات"},
})

var uncategorized = map[domain.Lang]string{
	domain.LangAR: "غير مصنّف",
	domain.LangFR: "Non classé",
	domain.LangEN: "Uncategorized",
}

// NormalizeCategory maps any alias to its canonical key. Unknown values are
// returned lower-cased and capitalised; blank input gives "".
func NormalizeCategory(raw string) string {
	lowered := Lower(raw)
	if lowered == "" {
		return ""
	}
	if key, ok := categoryAliases.exact(raw); ok {
		return key
	}
	return Capitalize(lowered)
}

// CategoryOf canonicalises a product category given as a string or object.
func CategoryOf(v domain.LocalizedText) string {
	if !v.IsLocalized() {
		return NormalizeCategory(v.Plain)
	}
	if s := v.First(domain.LangEN, domain.LangFR, domain.LangAR); s != "" {
		return NormalizeCategory(s)
	}
	return NormalizeCategory(v.String())
}

// CategoryLabel returns the display label of a category in lang.
func CategoryLabel(key string, lang domain.Lang) string {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return placeholder(uncategorized, lang)
	}

	if labels, ok := categoryLabels[NormalizeCategory(trimmed)]; ok {
		if l, ok := labels[lang]; ok {
			return l
		}
		return labels[domain.LangAR]
	}

	if lang == domain.LangAR && !IsArabic(trimmed) {
		if ar, ok := otherCategoriesArabic.exact(trimmed); ok {
			return ar
		}
	}
	return trimmed
}

// AllLabel is the label of the "All" filter option.
func AllLabel(lang domain.Lang) string {
	return CategoryLabel(CategoryAll, lang)
}

// IsAll reports whether a filter selection is the "All" sentinel (or blank).
func IsAll(sel string) bool {
	if strings.TrimSpace(sel) == "" {
		return true
	}
	return NormalizeCategory(sel) == CategoryAll
}

func placeholder(m map[domain.Lang]string, lang domain.Lang) string {
	if v, ok := m[lang]; ok {
		return v
	}
	return m[domain.LangAR]
}
