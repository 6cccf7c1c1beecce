package domain

// Product is a catalog entry. Prices are whole pesos (COP), the unit the
// backend uses everywhere.
type Product struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Stock         int    `json:"stock"`
	Price         int    `json:"price"`
	ImageFilename string `json:"image_filename,omitempty"`
	Category      string `json:"category,omitempty"`
}

// Category groups catalog entries.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// PriceComparison is the result of scraping a competitor store for the
// price of one of our products. StorePrice is the raw scraped text (it may
// include currency symbols and separators).
type PriceComparison struct {
	Product       string `json:"producto"`
	InternalPrice int    `json:"precio_interno"`
	StorePrice    string `json:"precio_rebaja"`
	URL           string `json:"url"`
}
