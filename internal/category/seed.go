package category

import "time"

// SampleCategories returns the default storefront sections used to seed an
// empty store.
func SampleCategories(now time.Time) []Category {
	seed := []struct{ name, desc, img string }{
		{"Fruits", "Fresh seasonal fruits", "https://images.pexels.com/photos/1132047/pexels-photo-1132047.jpeg?w=400"},
		{"Dairy", "Fresh dairy products", "https://images.pexels.com/photos/236010/pexels-photo-236010.jpeg?w=400"},
		{"Bakery", "Fresh baked goods", "https://images.pexels.com/photos/209206/pexels-photo-209206.jpeg?w=400"},
		{"Vegetables", "Fresh vegetables", "https://images.pexels.com/photos/533280/pexels-photo-533280.jpeg?w=400"},
		{"Meat", "Fresh meat products", "https://images.pexels.com/photos/616354/pexels-photo-616354.jpeg?w=400"},
		{"Grains", "Rice, wheat and other grains", "https://images.pexels.com/photos/723198/pexels-photo-723198.jpeg?w=400"},
	}
	out := make([]Category, 0, len(seed))
	for i, s := range seed {
		desc, img := s.desc, s.img
		out = append(out, Category{
			ID:          i + 1,
			Name:        s.name,
			Description: &desc,
			ImageURL:    &img,
			IsFeatured:  true,
			SortOrder:   i + 1,
			CreatedDate: now,
		})
	}
	return out
}
