package model

// ProductInfo holds the structured product data scraped from the product URL.
// It is produced once per pipeline run and never mutated; Brand and Category
// drive all downstream search query construction.
type ProductInfo struct {
	Title        string   `json:"title"`
	Price        string   `json:"price,omitempty"`
	Currency     string   `json:"currency,omitempty"`
	Rating       float64  `json:"rating,omitempty"`
	ReviewCount  int      `json:"review_count,omitempty"`
	Availability string   `json:"availability,omitempty"`
	Description  string   `json:"description,omitempty"`
	Features     []string `json:"features,omitempty"`
	Brand        string   `json:"brand,omitempty"`
	Category     string   `json:"category,omitempty"`
	ImageURL     string   `json:"image_url,omitempty"`
	ImageURLs    []string `json:"image_urls,omitempty"`
}
