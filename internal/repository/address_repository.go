package repository

import (
	"context"
	"database/sql"

	appErrors "github.com/unclebandit/customer-records/internal/errors"
	"github.com/unclebandit/customer-records/internal/model"
)

type AddressRepositoryInterface interface {
	Create(ctx context.Context, a *model.Address) error
	ListByCustomer(ctx context.Context, customerID int) ([]model.Address, error)
	GetByID(ctx context.Context, id int) (*model.Address, error)
	Update(ctx context.Context, a *model.Address) (int64, error)
	Delete(ctx context.Context, a *model.Address) (int64, error)
}

type AddressRepository struct {
	DB *sql.DB
}

// Create inserts the address and sets its generated ID. The customer must
// exist; the foreign key rejects the insert otherwise.
func (r *AddressRepository) Create(ctx context.Context, a *model.Address) error {
	query := `
        INSERT INTO addresses (customer_id, address_details, city, state, pin_code)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `
	err := r.DB.QueryRowContext(ctx, query, a.CustomerID, a.AddressDetails, a.City, a.State, a.PinCode).Scan(&a.ID)
	return appErrors.FromStorage("insert address", err)
}

func (r *AddressRepository) ListByCustomer(ctx context.Context, customerID int) ([]model.Address, error) {
	query := `
        SELECT id, customer_id, address_details, city, state, pin_code
        FROM addresses
        WHERE customer_id = $1
        ORDER BY id
    `
	rows, err := r.DB.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, appErrors.FromStorage("list addresses", err)
	}
	defer rows.Close()

	addresses := []model.Address{}
	for rows.Next() {
		var a model.Address
		if err := rows.Scan(&a.ID, &a.CustomerID, &a.AddressDetails, &a.City, &a.State, &a.PinCode); err != nil {
			return nil, appErrors.FromStorage("scan address", err)
		}
		addresses = append(addresses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, appErrors.FromStorage("list addresses", err)
	}
	return addresses, nil
}

func (r *AddressRepository) GetByID(ctx context.Context, id int) (*model.Address, error) {
	query := `
        SELECT id, customer_id, address_details, city, state, pin_code
        FROM addresses
        WHERE id = $1
    `
	var a model.Address
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.CustomerID, &a.AddressDetails, &a.City, &a.State, &a.PinCode)
	if err != nil {
		if appErrors.IsNoRows(err) {
			return nil, appErrors.NewNotFound("address", id)
		}
		return nil, appErrors.FromStorage("get address", err)
	}
	return &a, nil
}

// Update replaces the four text fields. customer_id is fixed at creation and
// read back so the caller gets the whole row. Returns 0 when no row has a.ID.
func (r *AddressRepository) Update(ctx context.Context, a *model.Address) (int64, error) {
	query := `
        UPDATE addresses
        SET address_details=$1, city=$2, state=$3, pin_code=$4
        WHERE id=$5
        RETURNING customer_id
    `
	err := r.DB.QueryRowContext(ctx, query, a.AddressDetails, a.City, a.State, a.PinCode, a.ID).Scan(&a.CustomerID)
	if err != nil {
		if appErrors.IsNoRows(err) {
			return 0, nil
		}
		return 0, appErrors.FromStorage("update address", err)
	}
	return 1, nil
}

// Delete removes the row with a.ID and fills a.CustomerID from it. Returns 0
// when no row has a.ID.
func (r *AddressRepository) Delete(ctx context.Context, a *model.Address) (int64, error) {
	err := r.DB.QueryRowContext(ctx, `DELETE FROM addresses WHERE id=$1 RETURNING customer_id`, a.ID).Scan(&a.CustomerID)
	if err != nil {
		if appErrors.IsNoRows(err) {
			return 0, nil
		}
		return 0, appErrors.FromStorage("delete address", err)
	}
	return 1, nil
}

var _ AddressRepositoryInterface = (*AddressRepository)(nil)
