package models

import "time"

// PriceRange is a day's min/max/modal price for one crop in one market.
type PriceRange struct {
	Min   float64 `json:"min" binding:"gte=0"`
	Max   float64 `json:"max" binding:"gte=0"`
	Modal float64 `json:"modal" binding:"gte=0"`
	Unit  string  `json:"unit" binding:"omitempty,max=30"`
}

type MarketPrice struct {
	ID        int64      `json:"id"`
	Crop      string     `json:"crop"`
	Variety   string     `json:"variety,omitempty"`
	Market    string     `json:"market"`
	State     string     `json:"state"`
	District  string     `json:"district"`
	Price     PriceRange `json:"price"`
	Date      time.Time  `json:"date"`
	Source    string     `json:"source"`
	CreatedAt time.Time  `json:"createdAt"`
}

type MarketPriceInput struct {
	Crop     string     `json:"crop" binding:"required,max=100"`
	Variety  string     `json:"variety" binding:"omitempty,max=100"`
	Market   string     `json:"market" binding:"required,max=150"`
	State    string     `json:"state" binding:"required,max=100"`
	District string     `json:"district" binding:"required,max=100"`
	Price    PriceRange `json:"price"`
	Date     time.Time  `json:"date" binding:"required"`
	Source   string     `json:"source" binding:"omitempty,max=50"`
}

// PriceFilters are the distinct values offered to clients for filtering.
type PriceFilters struct {
	Crops  []string `json:"crops"`
	States []string `json:"states"`
}

// PricePoint is one entry of a crop's price trend.
type PricePoint struct {
	Date     time.Time  `json:"date"`
	Price    PriceRange `json:"price"`
	Market   string     `json:"market"`
	State    string     `json:"state"`
	District string     `json:"district"`
}
