package catalog

import (
	"wahret-zmen/internal/domain"
	"wahret-zmen/internal/labels"
)

// SimilarLimit is the number of related products shown on a product page.
const SimilarLimit = 6

// SimilarByCategory returns up to limit other products sharing p's category.
func SimilarByCategory(all []domain.Product, p *domain.Product, limit int) []domain.Product {
	want := labels.CategoryOf(p.Category)
	if want == "" {
		return nil
	}
	return similar(all, p, limit, func(q *domain.Product) bool {
		return labels.CategoryOf(q.Category) == want
	})
}

// SimilarByEmbroidery returns up to limit other products with the same
// embroidery type.
func SimilarByEmbroidery(all []domain.Product, p *domain.Product, limit int) []domain.Product {
	want := labels.EmbroideryKey(p.EmbroideryCategory)
	if want == "" {
		return nil
	}
	return similar(all, p, limit, func(q *domain.Product) bool {
		return labels.EmbroideryKey(q.EmbroideryCategory) == want
	})
}

func similar(all []domain.Product, p *domain.Product, limit int, keep func(*domain.Product) bool) []domain.Product {
	if limit <= 0 {
		limit = SimilarLimit
	}
	var out []domain.Product
	for i := range all {
		q := &all[i]
		if q.ID == p.ID || !keep(q) {
			continue
		}
		out = append(out, *q)
		if len(out) == limit {
			break
		}
	}
	return out
}
