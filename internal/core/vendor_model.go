package core

import (
	"context"
	"time"
)

// Vendor represents a third-party goods provider on the marketplace.
// Orders are placed against exactly one vendor.
type Vendor struct {
	ID           int       `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	ContactEmail string    `json:"contact_email"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// VendorInput holds the fields required to create a new vendor.
type VendorInput struct {
	Code         string
	Name         string
	ContactEmail string
}

// VendorService provides vendor master data operations.
type VendorService interface {
	// CreateVendor creates a new vendor record.
	CreateVendor(ctx context.Context, input VendorInput) (*Vendor, error)

	// GetVendors returns all vendors ordered by code.
	GetVendors(ctx context.Context) ([]Vendor, error)

	// GetVendorByCode returns a specific vendor by its code.
	GetVendorByCode(ctx context.Context, code string) (*Vendor, error)

	// SetVendorActive toggles whether a vendor can receive new orders.
	SetVendorActive(ctx context.Context, code string, active bool) error
}
