package domain

import "math"

// listPriceRatio is the share of the list price a product sells at when the
// feed carries no explicit mrp.
const listPriceRatio = 0.85

// Product is a single catalog record. It is never mutated after load.
type Product struct {
	ID              int    `json:"id" validate:"gt=0"`
	Name            string `json:"name" validate:"required"`
	Description     string `json:"description"`
	Brand           string `json:"brand"`
	Category        string `json:"category" validate:"required"`
	Specifications  string `json:"specifications"`
	Image           string `json:"image"`
	Price           int64  `json:"price" validate:"gte=0"`
	MRP             *int64 `json:"mrp,omitempty" validate:"omitempty,gte=0"`
	DiscountPercent *int   `json:"discountPercent,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// PricingView is the display pricing of a product with every optional field
// resolved.
type PricingView struct {
	Price           int64 `json:"price"`
	MRP             int64 `json:"mrp"`
	DiscountPercent int   `json:"discount_percent"`
	YouSave         int64 `json:"you_save"`
}

// Price derives the display pricing. A missing mrp is price/0.85 rounded; a
// missing discount is the rounded percentage between mrp and price.
func Price(price int64, mrp *int64, discount *int) PricingView {
	v := PricingView{Price: price}

	if mrp != nil {
		v.MRP = *mrp
	} else {
		v.MRP = int64(math.Round(float64(price) / listPriceRatio))
	}

	switch {
	case discount != nil:
		v.DiscountPercent = *discount
	case v.MRP != 0:
		v.DiscountPercent = int(math.Round(float64(v.MRP-price) / float64(v.MRP) * 100))
	}

	v.YouSave = v.MRP - price
	return v
}

// Pricing returns the product's derived display pricing.
func (p Product) Pricing() PricingView {
	return Price(p.Price, p.MRP, p.DiscountPercent)
}
