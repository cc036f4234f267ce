package models

import "time"

type ToolSpecs struct {
	Brand string `json:"brand,omitempty" binding:"omitempty,max=100"`
	Model string `json:"model,omitempty" binding:"omitempty,max=100"`
	Year  int    `json:"year,omitempty" binding:"omitempty,gte=1900,lte=2100"`
	Power string `json:"power,omitempty" binding:"omitempty,max=50"`
}

type Tool struct {
	ID             int64     `json:"id"`
	OwnerID        int64     `json:"ownerId"`
	Owner          *Owner    `json:"owner,omitempty"`
	ToolName       string    `json:"toolName"`
	Category       string    `json:"category"`
	ToolType       string    `json:"toolType"`
	Price          float64   `json:"price"`
	PriceUnit      string    `json:"priceUnit"`
	Description    string    `json:"description,omitempty"`
	Images         []string  `json:"images"`
	Condition      string    `json:"condition"`
	Availability   bool      `json:"availability"`
	Location       Location  `json:"location"`
	Specifications ToolSpecs `json:"specifications"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type ToolInput struct {
	ToolName       string    `json:"toolName" binding:"required,max=100"`
	Category       string    `json:"category" binding:"required,oneof=tractor harvester plough sprayer other"`
	ToolType       string    `json:"toolType" binding:"required,oneof=rent sale"`
	Price          *float64  `json:"price" binding:"required,gte=0"`
	PriceUnit      string    `json:"priceUnit" binding:"omitempty,oneof=per_hour per_day total"`
	Description    string    `json:"description" binding:"omitempty,max=1000"`
	Images         []string  `json:"images" binding:"omitempty,max=5,dive,max=500"`
	Condition      string    `json:"condition" binding:"required,oneof=new good fair poor"`
	Availability   *bool     `json:"availability"`
	Location       Location  `json:"location"`
	Specifications ToolSpecs `json:"specifications"`
}
