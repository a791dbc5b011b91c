// internal/core/domain/catalog.go
package domain

import "github.com/shopspring/decimal"

// StarterCatalog returns the default products a freshly provisioned account
// is seeded with. Seeding is idempotent: it only runs against an empty
// product collection.
func StarterCatalog() []Product {
	price := decimal.NewFromInt(200)
	specs := []struct {
		sku, name, category string
		photo               string
	}{
		{"KC-001", "Grey mouse keychain", "Keychains", "https://placehold.co/400x400/94a3b8/FFFFFF/png?text=KC-001"},
		{"KC-002", "Frog in a dress keychain", "Keychains", "https://placehold.co/400x400/4ade80/FFFFFF/png?text=KC-002"},
		{"KC-003", "Glitter panda keychain", "Keychains", "https://placehold.co/400x400/64748b/FFFFFF/png?text=KC-003"},
		{"KC-004", "Unicorn with pink mane keychain", "Keychains", "https://placehold.co/400x400/f472b6/FFFFFF/png?text=KC-004"},
		{"KC-005", "Ginger cat keychain", "Keychains", "https://placehold.co/400x400/fb923c/FFFFFF/png?text=KC-005"},
		{"KC-006", "Husky puppy keychain", "Keychains", "https://placehold.co/400x400/60a5fa/FFFFFF/png?text=KC-006"},
		{"PL-001", "Octopus plush", "Plush toys", "https://placehold.co/400x400/7c3aed/FFFFFF/png?text=PL-001"},
		{"PL-002", "Squirrel in an acorn plush", "Plush toys", "https://placehold.co/400x400/a16207/FFFFFF/png?text=PL-002"},
		{"PL-003", "White kitten plush", "Plush toys", "https://placehold.co/400x400/e2e8f0/334155/png?text=PL-003"},
		{"PL-004", "Green T-Rex plush", "Plush toys", "https://placehold.co/400x400/22c55e/FFFFFF/png?text=PL-004"},
		{"PL-005", "Small brown beaver plush", "Plush toys", "https://placehold.co/400x400/b45309/FFFFFF/png?text=PL-005"},
		{"PL-006", "Round tiger cub plush", "Plush toys", "https://placehold.co/400x400/f59e0b/FFFFFF/png?text=PL-006"},
	}

	products := make([]Product, 0, len(specs))
	for _, s := range specs {
		p := Product{
			SKU:      s.sku,
			Name:     s.name,
			Category: s.category,
			Quantity: 30,
			Price:    price,
			Photos:   []string{s.photo},
		}
		p.PrepareForStorage()
		products = append(products, p)
	}
	return products
}
