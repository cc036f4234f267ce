package models

import "time"

// Listing statuses.
const (
	ListingActive  = "active"
	ListingSold    = "sold"
	ListingExpired = "expired"
	ListingRemoved = "removed"
)

// ListingLifetime is how long a new listing stays visible before it expires.
const ListingLifetime = 30 * 24 * time.Hour

type Listing struct {
	ID            int64      `json:"id"`
	SellerID      int64      `json:"sellerId"`
	Seller        *Owner     `json:"seller,omitempty"`
	CropType      string     `json:"cropType"`
	Variety       string     `json:"variety,omitempty"`
	Category      string     `json:"category"`
	Quantity      float64    `json:"quantity"`
	Unit          string     `json:"unit"`
	Quality       string     `json:"quality"`
	ExpectedPrice float64    `json:"expectedPrice"`
	Negotiable    bool       `json:"negotiable"`
	Description   string     `json:"description,omitempty"`
	HarvestDate   *time.Time `json:"harvestDate,omitempty"`
	Location      Location   `json:"location"`
	Images        []string   `json:"images"`
	Status        string     `json:"status"`
	Views         int64      `json:"views"`
	ContactCount  int64      `json:"contactCount"`
	ExpiryDate    *time.Time `json:"expiryDate,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// ListingInput is the request schema for creating or replacing a listing.
type ListingInput struct {
	CropType      string     `json:"cropType" binding:"required,max=100"`
	Variety       string     `json:"variety" binding:"omitempty,max=100"`
	Category      string     `json:"category" binding:"omitempty,oneof=crop tool labor storage"`
	Quantity      float64    `json:"quantity" binding:"required,gte=0.1"`
	Unit          string     `json:"unit" binding:"omitempty,oneof=kg quintal ton"`
	Quality       string     `json:"quality" binding:"required,oneof='Grade A' 'Grade B' 'Grade C'"`
	ExpectedPrice *float64   `json:"expectedPrice" binding:"required,gte=0"`
	Negotiable    *bool      `json:"negotiable"`
	Description   string     `json:"description" binding:"omitempty,max=1000"`
	HarvestDate   *time.Time `json:"harvestDate"`
	Location      Location   `json:"location"`
	Status        string     `json:"status" binding:"omitempty,oneof=active sold expired removed"`
}

// SellerContact is returned to buyers who contact a seller.
type SellerContact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}
