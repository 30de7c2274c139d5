package model

// Holding is one portfolio row as provided by the external portfolio store.
type Holding struct {
	Ticker        string  `json:"ticker" yaml:"ticker"`
	PurchasePrice float64 `json:"purchase_price" yaml:"purchase_price"`
	Quantity      float64 `json:"quantity" yaml:"quantity"`
	AssetType     string  `json:"asset_type" yaml:"asset_type"`
	PurchaseDate  string  `json:"purchase_date,omitempty" yaml:"purchase_date,omitempty"`
	Notes         string  `json:"notes,omitempty" yaml:"notes,omitempty"`
}
