package domain

// CartItem is one persisted cart entry. The same shape is used for the
// buy-now record.
type CartItem struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

// CartLine is a cart entry resolved against the catalog.
type CartLine struct {
	Product  ProductDetail `json:"product"`
	Quantity int           `json:"quantity"`
	Subtotal int64         `json:"subtotal"`
}

// ProductLookup resolves a product id to its catalog detail.
type ProductLookup interface {
	Product(id int) (ProductDetail, bool)
}
