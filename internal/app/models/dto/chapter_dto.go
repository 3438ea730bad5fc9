package dto

// CreateChapterRequest represents a request to create a chapter
type CreateChapterRequest struct {
	Name       string `json:"name" binding:"required,min=2,max=100"`
	City       string `json:"city" binding:"required"`
	IsNational bool   `json:"isNational"`
}

// UpdateChapterRequest represents a request to update a chapter
type UpdateChapterRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
	City string `json:"city" binding:"required"`
}

// CreateVerticalRequest represents a request to add a vertical to a chapter
type CreateVerticalRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}

// CreateIndustryRequest represents a request to register an industry partner
type CreateIndustryRequest struct {
	Name         string  `json:"name" binding:"required,min=2,max=150"`
	ContactEmail string  `json:"contactEmail" binding:"required,email"`
	City         *string `json:"city,omitempty"`
}
