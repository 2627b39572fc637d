package repository

import (
	"context"
	"database/sql"
	"strings"

	sq "github.com/Masterminds/squirrel"

	appErrors "github.com/unclebandit/customer-records/internal/errors"
	"github.com/unclebandit/customer-records/internal/model"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// CustomerRepositoryInterface defines methods used by service
type CustomerRepositoryInterface interface {
	Create(ctx context.Context, c *model.Customer) error
	List(ctx context.Context, search string) ([]model.Customer, error)
	GetByID(ctx context.Context, id int) (*model.Customer, error)
	Update(ctx context.Context, c *model.Customer) (int64, error)
	Delete(ctx context.Context, id int) (int64, error)
}

// CustomerRepository is the concrete implementation
type CustomerRepository struct {
	DB *sql.DB
}

// Create inserts the customer and sets its generated ID.
func (r *CustomerRepository) Create(ctx context.Context, c *model.Customer) error {
	query := `
        INSERT INTO customers (first_name, last_name, phone_number)
        VALUES ($1, $2, $3)
        RETURNING id
    `
	err := r.DB.QueryRowContext(ctx, query, c.FirstName, c.LastName, c.PhoneNumber).Scan(&c.ID)
	return appErrors.FromStorage("insert customer", err)
}

// List returns customers sorted by first name. A non-blank search keeps only
// customers whose first or last name contains it, ignoring case.
func (r *CustomerRepository) List(ctx context.Context, search string) ([]model.Customer, error) {
	q := psql.Select("id", "first_name", "last_name", "phone_number").From("customers")

	if strings.TrimSpace(search) != "" {
		pattern := "%" + escapeLike(search) + "%"
		q = q.Where(sq.Or{
			sq.ILike{"first_name": pattern},
			sq.ILike{"last_name": pattern},
		})
	}

	query, args, err := q.OrderBy("first_name").ToSql()
	if err != nil {
		return nil, appErrors.NewStorage("build customer search", err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, appErrors.FromStorage("list customers", err)
	}
	defer rows.Close()

	customers := []model.Customer{}
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.PhoneNumber); err != nil {
			return nil, appErrors.FromStorage("scan customer", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, appErrors.FromStorage("list customers", err)
	}
	return customers, nil
}

// GetByID fetches a customer by ID
func (r *CustomerRepository) GetByID(ctx context.Context, id int) (*model.Customer, error) {
	query := `
        SELECT id, first_name, last_name, phone_number
        FROM customers
        WHERE id = $1
    `
	var c model.Customer
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.FirstName, &c.LastName, &c.PhoneNumber)
	if err != nil {
		if appErrors.IsNoRows(err) {
			return nil, appErrors.NewNotFound("customer", id)
		}
		return nil, appErrors.FromStorage("get customer", err)
	}
	return &c, nil
}

// Update replaces every mutable field and reports how many rows changed.
func (r *CustomerRepository) Update(ctx context.Context, c *model.Customer) (int64, error) {
	query := `
        UPDATE customers
        SET first_name=$1, last_name=$2, phone_number=$3
        WHERE id=$4
    `
	res, err := r.DB.ExecContext(ctx, query, c.FirstName, c.LastName, c.PhoneNumber, c.ID)
	if err != nil {
		return 0, appErrors.FromStorage("update customer", err)
	}
	return rowsAffected(res)
}

// Delete removes the customer; its addresses go with it through the
// ON DELETE CASCADE constraint.
func (r *CustomerRepository) Delete(ctx context.Context, id int) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM customers WHERE id=$1`, id)
	if err != nil {
		return 0, appErrors.FromStorage("delete customer", err)
	}
	return rowsAffected(res)
}

func rowsAffected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, appErrors.NewStorage("rows affected", err)
	}
	return n, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in s match literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var _ CustomerRepositoryInterface = (*CustomerRepository)(nil)
