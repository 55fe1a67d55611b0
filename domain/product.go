package domain

// Product is a catalog entry describing a distributable good.
type Product struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DefaultProducts seeds the catalog on first access from an empty store.
func DefaultProducts() []Product {
	return []Product{
		{ID: "p1", Name: "کالای اساسی نوع ۱"},
		{ID: "p2", Name: "بسته معیشتی رمضان"},
	}
}

// UnknownProductName is the snapshot placeholder used when a selected
// product has been removed from the catalog before commit.
const UnknownProductName = "کالای نامشخص"
