package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// SampleProducts returns the starter catalog. Creation dates are spaced one
// minute apart in listing order so "newest first" is deterministic.
func SampleProducts(now time.Time) []Product {
	seed := []struct {
		name, desc, price, img string
		catID                  int
		cat, brand, unit       string
		featured, organic      bool
		dietary                DietaryType
	}{
		{"Fresh Bananas", "Sweet and ripe bananas perfect for snacking", "45.99", "https://images.pexels.com/photos/2872755/pexels-photo-2872755.jpeg?w=400", 1, "Fruits", "Fresh Farm", "per dozen", true, true, Vegan},
		{"Organic Apples", "Crisp and juicy organic apples", "120.50", "https://images.pexels.com/photos/102104/pexels-photo-102104.jpeg?w=400", 1, "Fruits", "Organic Valley", "per kg", true, true, Vegan},
		{"Fresh Milk", "Pure and fresh dairy milk", "65.00", "https://images.pexels.com/photos/236010/pexels-photo-236010.jpeg?w=400", 2, "Dairy", "Pure Dairy", "per liter", true, false, Vegetarian},
		{"Whole Wheat Bread", "Healthy whole wheat bread", "35.00", "https://images.pexels.com/photos/209206/pexels-photo-209206.jpeg?w=400", 3, "Bakery", "Healthy Bakes", "per loaf", true, false, Vegetarian},
		{"Fresh Tomatoes", "Red ripe tomatoes perfect for cooking", "40.00", "https://images.pexels.com/photos/533280/pexels-photo-533280.jpeg?w=400", 4, "Vegetables", "Garden Fresh", "per kg", false, true, Vegan},
		{"Chicken Breast", "Fresh chicken breast meat", "250.00", "https://images.pexels.com/photos/616354/pexels-photo-616354.jpeg?w=400", 5, "Meat", "Fresh Meat Co", "per kg", false, false, NonVegetarian},
		{"Basmati Rice", "Premium quality basmati rice", "180.00", "https://images.pexels.com/photos/723198/pexels-photo-723198.jpeg?w=400", 6, "Grains", "Premium Grains", "per kg", true, false, Vegan},
		{"Greek Yogurt", "Creamy Greek yogurt with probiotics", "85.00", "https://images.pexels.com/photos/1435735/pexels-photo-1435735.jpeg?w=400", 2, "Dairy", "Greek Delight", "per 500g", false, true, Vegetarian},
	}

	out := make([]Product, 0, len(seed))
	for i, s := range seed {
		desc, img, brand := s.desc, s.img, s.brand
		out = append(out, Product{
			ID:            i + 1,
			Name:          s.name,
			Description:   &desc,
			Price:         decimal.RequireFromString(s.price),
			ImageURL:      &img,
			CategoryID:    s.catID,
			CategoryName:  s.cat,
			Brand:         &brand,
			Unit:          s.unit,
			StockQuantity: DefaultStock,
			IsActive:      true,
			IsFeatured:    s.featured,
			IsOrganic:     s.organic,
			DietaryType:   s.dietary,
			CreatedDate:   now.Add(-time.Duration(i) * time.Minute),
		})
	}
	return out
}
