package catalog

import (
	"fmt"
	"math/rand/v2"

	"github.com/utafrali/catalog-widget/internal/domain"
)

type generatedCategory struct {
	Name   string
	Weight int // percent of the feed, weights sum to 100
	Types  []string
	Specs  []string
}

var generatedCategories = []generatedCategory{
	{
		Name:   "Hair Oil",
		Weight: 35,
		Types:  []string{"Coconut Oil", "Almond Hair Oil", "Onion Hair Oil", "Amla Hair Oil", "Argan Oil"},
		Specs:  []string{"Non-sticky", "Cold pressed", "With vitamin E", "Ayurvedic formula"},
	},
	{
		Name:   "Shampoo",
		Weight: 30,
		Types:  []string{"Anti-Dandruff Shampoo", "Repair Shampoo", "Mild Shampoo", "Volume Shampoo"},
		Specs:  []string{"Sulphate free", "Paraben free", "pH balanced", "For daily use"},
	},
	{
		Name:   "Conditioner",
		Weight: 20,
		Types:  []string{"Daily Conditioner", "Smoothing Conditioner", "Hydrating Conditioner"},
		Specs:  []string{"Silicone free", "Detangling", "With keratin"},
	},
	{
		Name:   "Hair Serum",
		Weight: 15,
		Types:  []string{"Frizz Control Serum", "Shine Serum", "Heat Protect Serum"},
		Specs:  []string{"Lightweight", "Heat protection up to 230C", "With argan oil"},
	},
}

var generatedBrands = []string{
	"Parachute", "Bajaj", "Indulekha", "Dove", "Himalaya",
	"Mamaearth", "L'Oréal Paris", "Tresemme", "Livon", "Biotique",
}

var generatedPrefixes = []string{"Classic", "Advanced", "Herbal", "Intense", "Daily", "Nourishing"}

var generatedSizes = []string{"100ml", "200ml", "300ml", "400ml"}

// Generate builds a deterministic feed of n products spread across the
// haircare categories by weight. The same seed always yields the same feed.
// Roughly a third of the products carry an explicit MRP and discount.
func Generate(n int, seed uint64) []domain.Product {
	if n < 1 {
		return []domain.Product{}
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	counts := make([]int, len(generatedCategories))
	remaining := n
	for i, gc := range generatedCategories {
		if i == len(generatedCategories)-1 {
			counts[i] = remaining
			break
		}
		c := n * gc.Weight / 100
		counts[i] = c
		remaining -= c
	}

	products := make([]domain.Product, 0, n)
	id := 1
	for i, gc := range generatedCategories {
		for j := 0; j < counts[i]; j++ {
			brand := generatedBrands[(id-1)%len(generatedBrands)]
			productType := gc.Types[rng.IntN(len(gc.Types))]
			prefix := generatedPrefixes[rng.IntN(len(generatedPrefixes))]
			size := generatedSizes[rng.IntN(len(generatedSizes))]

			// 99-999, rounded down to the nearest 10 then ending in 9.
			price := int64(99+rng.IntN(900))/10*10 + 9

			p := domain.Product{
				ID:             id,
				Name:           fmt.Sprintf("%s %s %s", brand, prefix, productType),
				Description:    fmt.Sprintf("%s %s for everyday hair care.", prefix, productType),
				Brand:          brand,
				Category:       gc.Name,
				Specifications: fmt.Sprintf("%s, %s", gc.Specs[rng.IntN(len(gc.Specs))], size),
				Image:          fmt.Sprintf("images/generated/%d.jpg", id),
				Price:          price,
			}

			if rng.IntN(3) == 0 {
				discount := 10 + rng.IntN(31)
				mrp := price * 100 / int64(100-discount)
				p.MRP = &mrp
				p.DiscountPercent = &discount
			}

			products = append(products, p)
			id++
		}
	}

	return products
}
