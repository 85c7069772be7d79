package service

import (
	"strings"

	"github.com/ridloal/e-commerce-go-storefront/internal/catalog/domain"
)

// FilterByCategory keeps products whose category equals category, ignoring
// case. An empty category returns products unchanged.
func FilterByCategory(products []domain.Product, category string) []domain.Product {
	if category == "" {
		return products
	}
	out := []domain.Product{}
	for _, p := range products {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out
}

// MatchKeyword is the client-side search fallback: a case-insensitive
// substring match over name, description, brand and category.
func MatchKeyword(products []domain.Product, keyword string) []domain.Product {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if kw == "" {
		return products
	}
	out := []domain.Product{}
	for _, p := range products {
		if containsFold(p.Name, kw) || containsFold(p.Description, kw) ||
			containsFold(p.Brand, kw) || containsFold(p.Category, kw) {
			out = append(out, p)
		}
	}
	return out
}

func containsFold(field, lowerKeyword string) bool {
	return strings.Contains(strings.ToLower(field), lowerKeyword)
}
