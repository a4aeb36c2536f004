package models

import "time"

// Product mirrors the commerce API's product resource. Prices are in
// cents to avoid floating point drift when subtotals are computed.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Brand       string    `json:"brand"`
	CategoryID  string    `json:"categoryId"`
	PriceCents  int64     `json:"priceCents"`
	Stock       int       `json:"stock"`
	Images      []Image   `json:"images"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Image struct {
	ID  string `json:"id"`
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	ParentID string `json:"parentId,omitempty"`
}

// ProductListRequest carries the client-side filter and pagination
// parameters. Filtering happens over the cached full catalog.
type ProductListRequest struct {
	Page       int    `json:"page" form:"page"`
	Limit      int    `json:"limit" form:"limit"`
	CategoryID string `json:"categoryId" form:"categoryId"`
	Search     string `json:"search" form:"search"`
	Brand      string `json:"brand" form:"brand"`
}

type ProductListResponse struct {
	Products   []*Product `json:"products"`
	TotalCount int        `json:"totalCount"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"totalPages"`
}

// ProductInput is the admin create/update payload forwarded to the
// commerce API.
type ProductInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Brand       string `json:"brand"`
	CategoryID  string `json:"categoryId" binding:"required"`
	PriceCents  int64  `json:"priceCents" binding:"required"`
	Stock       int    `json:"stock"`
	Active      *bool  `json:"active,omitempty"`
}

type CategoryInput struct {
	Name     string `json:"name" binding:"required"`
	Slug     string `json:"slug"`
	ParentID string `json:"parentId,omitempty"`
}
