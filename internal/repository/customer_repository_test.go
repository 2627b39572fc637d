package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/customer-records/internal/errors"
	"github.com/unclebandit/customer-records/internal/model"
	"github.com/unclebandit/customer-records/internal/repository"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	return db, mock
}

var customerColumns = []string{"id", "first_name", "last_name", "phone_number"}

func TestCustomerRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := &repository.CustomerRepository{DB: db}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO customers (first_name, last_name, phone_number)")).
		WithArgs("Asha", "Rao", "9990001111").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	c := &model.Customer{FirstName: "Asha", LastName: "Rao", PhoneNumber: "9990001111"}
	require.NoError(t, repo.Create(context.Background(), c))

	assert.Equal(t, 1, c.ID)
}

func TestCustomerRepository_Create_DuplicatePhone(t *testing.T) {
	db, mock := newMock(t)
	repo := &repository.CustomerRepository{DB: db}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO customers")).
		WithArgs("Bala", "Rao", "9990001111").
		WillReturnError(&pq.Error{Code: "23505", Table: "customers", Constraint: "customers_phone_number_key"})

	c := &model.Customer{FirstName: "Bala", LastName: "Rao", PhoneNumber: "9990001111"}
	err := repo.Create(context.Background(), c)

	var conflict *appErrors.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "phone_number", conflict.Field)
	assert.Zero(t, c.ID)
}

func TestCustomerRepository_List_All(t *testing.T) {
	db, mock := newMock(t)
	repo := &repository.CustomerRepository{DB: db}

	mock.ExpectQuery(`^SELECT id, first_name, last_name, phone_number FROM customers ORDER BY first_name$`).
		WillReturnRows(sqlmock.NewRows(customerColumns).
			AddRow(2, "Alice", "Zed", "1").
			AddRow(1, "Bob", "Young", "2"))

	customers, err := repo.List(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, []model.Customer{
		{ID: 2, FirstName: "Alice", LastName: "Zed", PhoneNumber: "1"},
		{ID: 1, FirstName: "Bob", LastName: "Young", PhoneNumber: "2"},
	}, customers)
}

func TestCustomerRepository_List_BlankSearchReturnsAll(t *testing.T) {
	db, mock := newMock(t)
	repo := &repository.CustomerRepository{DB: db}

	mock.ExpectQuery(`^SELECT id, first_name, last_name, phone_number FROM customers ORDER BY first_name$`).
		WillReturnRows(sqlmock.NewRows(customerColumns))

	customers, err := repo.List(context.Background(), "   ")
	require.NoError(t, err)

	assert.NotNil(t, customers)
	assert.Empty(t, customers)
}

func TestCustomerRepository_List_Search(t *testing.T) {
	db, mock := newMock(t)
	repo := &repository.CustomerRepository{DB: db}

	mock.ExpectQuery(`FROM customers WHERE \(first_name ILIKE \$1 OR last_name ILIKE \$2\) ORDER BY first_name`).
		WithArgs("%ali%", "%ali%").
		WillReturnRows(sqlmock.NewRows(customerColumns).AddRow(3, "Alice", "Smith", "3"))

	customers, err := repo.List(context.Background(), "ali")
	require.NoError(t, err)

	require.Len(t, customers, 1)
	assert.Equal(t, "Alice", customers[0].FirstName)
}

func TestCustomerRepository_List_SearchEscapesWildcards(t *testing.T) {
	db, mock := newMock(t)
	repo := &repository.CustomerRepository{DB: db}

	mock.ExpectQuery(`ILIKE`).
		WithArgs(`%50\%\_off\\%`, `%50\%\_off\\%`).
		WillReturnRows(sqlmock.NewRows(customerColumns))

	_, err := repo.List(context.Background(), `50%_off\`)
	require.NoError(t, err)
}

func TestCustomerRepository_List_StorageError(t *testing.T) {
	db, mock := newMock(t)
	repo := &repository.CustomerRepository{DB: db}

	mock.ExpectQuery(`FROM customers`).WillReturnError(errors.New("connection reset"))

	_, err := repo.List(context.Background(), "")

	var storage *appErrors.StorageError
	assert.True(t, errors.As(err, &storage))
}

func TestCustomerRepository_GetByID(t *testing.T) {
	db, mock := newMock(t)
	repo := &repository.CustomerRepository{DB: db}

	mock.ExpectQuery(regexp.QuoteMeta("FROM customers")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(customerColumns).AddRow(1, "Asha", "Rao", "9990001111"))

	c, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, &model.Customer{ID: 1, FirstName: "Asha", LastName: "Rao", PhoneNumber: "9990001111"}, c)
}

func TestCustomerRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := &repository.CustomerRepository{DB: db}

	mock.ExpectQuery(regexp.QuoteMeta("FROM customers")).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows(customerColumns))

	c, err := repo.GetByID(context.Background(), 42)

	assert.Nil(t, c)
	assert.Equal(t, appErrors.NewNotFound("customer", 42), err)
}

func TestCustomerRepository_Update(t *testing.T) {
	testCases := []struct {
		scenario        string
		affected        int64
		expectedChanges int64
	}{
		{scenario: "existing row", affected: 1, expectedChanges: 1},
		{scenario: "missing row", affected: 0, expectedChanges: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.scenario, func(t *testing.T) {
			db, mock := newMock(t)
			repo := &repository.CustomerRepository{DB: db}

			mock.ExpectExec(regexp.QuoteMeta("UPDATE customers")).
				WithArgs("Asha", "Iyer", "9990002222", 1).
				WillReturnResult(sqlmock.NewResult(0, tc.affected))

			changes, err := repo.Update(context.Background(), &model.Customer{
				ID: 1, FirstName: "Asha", LastName: "Iyer", PhoneNumber: "9990002222",
			})
			require.NoError(t, err)

			assert.Equal(t, tc.expectedChanges, changes)
		})
	}
}

func TestCustomerRepository_Update_DuplicatePhone(t *testing.T) {
	db, mock := newMock(t)
	repo := &repository.CustomerRepository{DB: db}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE customers")).
		WillReturnError(&pq.Error{Code: "23505", Table: "customers", Constraint: "customers_phone_number_key"})

	changes, err := repo.Update(context.Background(), &model.Customer{ID: 2, FirstName: "B", LastName: "R", PhoneNumber: "1"})

	var conflict *appErrors.ConflictError
	assert.True(t, errors.As(err, &conflict))
	assert.Zero(t, changes)
}

func TestCustomerRepository_Delete(t *testing.T) {
	db, mock := newMock(t)
	repo := &repository.CustomerRepository{DB: db}

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM customers WHERE id=$1")).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	changes, err := repo.Delete(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, int64(1), changes)
}

func TestCustomerRepository_Delete_RowsAffectedError(t *testing.T) {
	db, mock := newMock(t)
	repo := &repository.CustomerRepository{DB: db}

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM customers")).
		WillReturnResult(sqlmock.NewErrorResult(errors.New("not supported")))

	_, err := repo.Delete(context.Background(), 1)

	var storage *appErrors.StorageError
	assert.True(t, errors.As(err, &storage))
}
