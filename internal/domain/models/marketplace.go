package models

import "time"

type MandiPrice struct {
	ID         int64     `json:"id"`
	MandiName  string    `json:"mandiName"`
	Location   string    `json:"location,omitempty"`
	Crop       string    `json:"crop"`
	Grade      string    `json:"grade,omitempty"`
	Unit       string    `json:"unit"`
	MinPrice   float64   `json:"minPrice"`
	MaxPrice   float64   `json:"maxPrice"`
	ModalPrice float64   `json:"modalPrice"`
	Date       time.Time `json:"date"`
	CreatedAt  time.Time `json:"createdAt"`
}

type MandiPriceInput struct {
	MandiName  string   `json:"mandiName" binding:"required,max=150"`
	Location   string   `json:"location" binding:"omitempty,max=150"`
	Crop       string   `json:"crop" binding:"required,max=100"`
	Grade      string   `json:"grade" binding:"omitempty,max=30"`
	Unit       string   `json:"unit" binding:"omitempty,max=30"`
	MinPrice   *float64 `json:"minPrice" binding:"omitempty,gte=0"`
	MaxPrice   *float64 `json:"maxPrice" binding:"omitempty,gte=0"`
	ModalPrice *float64 `json:"modalPrice" binding:"omitempty,gte=0"`
}

// Farmer listing statuses.
const (
	FarmerListingActive  = "ACTIVE"
	FarmerListingSold    = "SOLD"
	FarmerListingExpired = "EXPIRED"
)

type FarmerListing struct {
	ID           int64     `json:"id"`
	SellerName   string    `json:"sellerName,omitempty"`
	Crop         string    `json:"crop"`
	Grade        string    `json:"grade,omitempty"`
	Quantity     float64   `json:"quantity"`
	Unit         string    `json:"unit"`
	PricePerUnit float64   `json:"pricePerUnit"`
	Description  string    `json:"description,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

type FarmerListingInput struct {
	SellerName   string   `json:"sellerName" binding:"omitempty,max=100"`
	Crop         string   `json:"crop" binding:"required,max=100"`
	Grade        string   `json:"grade" binding:"omitempty,max=30"`
	Quantity     *float64 `json:"quantity" binding:"required,gt=0"`
	Unit         string   `json:"unit" binding:"omitempty,max=30"`
	PricePerUnit *float64 `json:"pricePerUnit" binding:"required,gte=0"`
	Description  string   `json:"description" binding:"omitempty,max=1000"`
}

// Buyer requirement statuses.
const (
	RequirementOpen      = "OPEN"
	RequirementFulfilled = "FULFILLED"
	RequirementExpired   = "EXPIRED"
)

type BuyerRequirement struct {
	ID              int64     `json:"id"`
	BuyerName       string    `json:"buyerName,omitempty"`
	Crop            string    `json:"crop"`
	Grade           string    `json:"grade,omitempty"`
	MinQty          float64   `json:"minQty"`
	Unit            string    `json:"unit"`
	MaxPricePerUnit float64   `json:"maxPricePerUnit"`
	Notes           string    `json:"notes,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}

type BuyerRequirementInput struct {
	BuyerName       string   `json:"buyerName" binding:"omitempty,max=100"`
	Crop            string   `json:"crop" binding:"required,max=100"`
	Grade           string   `json:"grade" binding:"omitempty,max=30"`
	MinQty          *float64 `json:"minQty" binding:"required,gt=0"`
	Unit            string   `json:"unit" binding:"omitempty,max=30"`
	MaxPricePerUnit *float64 `json:"maxPricePerUnit" binding:"required,gte=0"`
	Notes           string   `json:"notes" binding:"omitempty,max=1000"`
}
