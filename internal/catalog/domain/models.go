package domain

// Order is a storefront order as seen by the reconciliation core. The catalog
// owns this data; the core only reads it.
type Order struct {
	ID         string
	BuyerEmail string
	LineItems  []LineItem
}

// LineItem references a purchased product.
type LineItem struct {
	ProductID int64
}
