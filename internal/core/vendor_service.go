package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type vendorService struct {
	pool *pgxpool.Pool
}

// NewVendorService constructs a VendorService backed by PostgreSQL.
func NewVendorService(pool *pgxpool.Pool) VendorService {
	return &vendorService{pool: pool}
}

// CreateVendor inserts a new vendor record.
func (s *vendorService) CreateVendor(ctx context.Context, input VendorInput) (*Vendor, error) {
	if input.Code == "" || input.Name == "" {
		return nil, fmt.Errorf("vendor code and name are required")
	}

	v := &Vendor{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO vendors (code, name, contact_email)
		VALUES ($1, $2, $3)
		RETURNING id, code, name, contact_email, is_active, created_at`,
		input.Code, input.Name, input.ContactEmail,
	).Scan(&v.ID, &v.Code, &v.Name, &v.ContactEmail, &v.IsActive, &v.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create vendor %q: %w", input.Code, err)
	}
	return v, nil
}

// GetVendors returns all vendors ordered by code.
func (s *vendorService) GetVendors(ctx context.Context) ([]Vendor, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, code, name, contact_email, is_active, created_at
		FROM vendors
		ORDER BY code`,
	)
	if err != nil {
		return nil, fmt.Errorf("get vendors: %w", err)
	}
	defer rows.Close()

	var vendors []Vendor
	for rows.Next() {
		var v Vendor
		if err := rows.Scan(&v.ID, &v.Code, &v.Name, &v.ContactEmail, &v.IsActive, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		vendors = append(vendors, v)
	}
	return vendors, nil
}

// GetVendorByCode returns a vendor by code.
func (s *vendorService) GetVendorByCode(ctx context.Context, code string) (*Vendor, error) {
	v := &Vendor{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, code, name, contact_email, is_active, created_at
		FROM vendors
		WHERE code = $1`,
		code,
	).Scan(&v.ID, &v.Code, &v.Name, &v.ContactEmail, &v.IsActive, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("vendor %q: %w", code, ErrVendorNotFound)
		}
		return nil, fmt.Errorf("fetch vendor %q: %w", code, err)
	}
	return v, nil
}

// SetVendorActive toggles whether a vendor can receive new orders.
func (s *vendorService) SetVendorActive(ctx context.Context, code string, active bool) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE vendors SET is_active = $1 WHERE code = $2",
		active, code,
	)
	if err != nil {
		return fmt.Errorf("update vendor %q: %w", code, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("vendor %q: %w", code, ErrVendorNotFound)
	}
	return nil
}
