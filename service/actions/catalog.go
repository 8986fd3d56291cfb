package actions

// CatalogItem is a purchasable item. Prices are in SOL.
type CatalogItem struct {
	Name     string
	PriceSOL float64
}

var catalog = map[string]CatalogItem{
	"coffee":  {Name: "Drift Coffee", PriceSOL: 0.015},
	"sticker": {Name: "Blink Sticker Pack", PriceSOL: 0.006},
	"hoodie":  {Name: "Validator Hoodie", PriceSOL: 0.08},
}

// Lookup returns the catalog item for sku. Matching is exact.
func Lookup(sku string) (CatalogItem, bool) {
	item, ok := catalog[sku]
	return item, ok
}

// SKUs lists the catalog in display order.
func SKUs() []string {
	return []string{"coffee", "sticker", "hoodie"}
}
