package service_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	appErrors "github.com/unclebandit/customer-records/internal/errors"
	"github.com/unclebandit/customer-records/internal/model"
)

// store mimics the Postgres constraints: unique phone numbers, the address
// foreign key and cascading deletes.
type store struct {
	mu        sync.Mutex
	nextID    map[string]int
	customers map[int]model.Customer
	addresses map[int]model.Address
	fail      error
}

func newStore() *store {
	return &store{
		nextID:    map[string]int{},
		customers: map[int]model.Customer{},
		addresses: map[int]model.Address{},
	}
}

func (s *store) id(table string) int {
	s.nextID[table]++
	return s.nextID[table]
}

func (s *store) phoneTaken(phone string, except int) bool {
	for id, c := range s.customers {
		if id != except && c.PhoneNumber == phone {
			return true
		}
	}
	return false
}

type customerRepo struct{ *store }

func (r customerRepo) Create(_ context.Context, c *model.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	if r.phoneTaken(c.PhoneNumber, 0) {
		return &appErrors.ConflictError{Field: "phone_number"}
	}
	c.ID = r.id("customers")
	r.customers[c.ID] = *c
	return nil
}

func (r customerRepo) List(_ context.Context, search string) ([]model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	all := strings.TrimSpace(search) == ""
	needle := strings.ToLower(search)
	out := []model.Customer{}
	for _, c := range r.customers {
		if all ||
			strings.Contains(strings.ToLower(c.FirstName), needle) ||
			strings.Contains(strings.ToLower(c.LastName), needle) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].FirstName == out[j].FirstName {
			return out[i].ID < out[j].ID
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out, nil
}

func (r customerRepo) GetByID(_ context.Context, id int) (*model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, appErrors.NewNotFound("customer", id)
	}
	return &c, nil
}

func (r customerRepo) Update(_ context.Context, c *model.Customer) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phoneTaken(c.PhoneNumber, c.ID) {
		return 0, &appErrors.ConflictError{Field: "phone_number"}
	}
	if _, ok := r.customers[c.ID]; !ok {
		return 0, nil
	}
	r.customers[c.ID] = *c
	return 1, nil
}

func (r customerRepo) Delete(_ context.Context, id int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[id]; !ok {
		return 0, nil
	}
	delete(r.customers, id)
	for aid, a := range r.addresses {
		if a.CustomerID == id {
			delete(r.addresses, aid)
		}
	}
	return 1, nil
}

type addressRepo struct{ *store }

func (r addressRepo) Create(_ context.Context, a *model.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[a.CustomerID]; !ok {
		return &appErrors.ReferenceError{Field: "customer_id"}
	}
	a.ID = r.id("addresses")
	r.addresses[a.ID] = *a
	return nil
}

func (r addressRepo) ListByCustomer(_ context.Context, customerID int) ([]model.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	out := []model.Address{}
	for _, a := range r.addresses {
		if a.CustomerID == customerID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r addressRepo) GetByID(_ context.Context, id int) (*model.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.addresses[id]
	if !ok {
		return nil, appErrors.NewNotFound("address", id)
	}
	return &a, nil
}

func (r addressRepo) Update(_ context.Context, a *model.Address) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.addresses[a.ID]
	if !ok {
		return 0, nil
	}
	a.CustomerID = existing.CustomerID
	r.addresses[a.ID] = *a
	return 1, nil
}

func (r addressRepo) Delete(_ context.Context, a *model.Address) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.addresses[a.ID]
	if !ok {
		return 0, nil
	}
	a.CustomerID = existing.CustomerID
	delete(r.addresses, a.ID)
	return 1, nil
}

// recordingQueue captures published payloads.
type recordingQueue struct {
	mu        sync.Mutex
	published []any
	err       error
}

func (q *recordingQueue) Publish(_ string, payload any) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.published = append(q.published, payload)
	return nil
}

func (q *recordingQueue) Subscribe(string, func(any) error) error {
	return errors.New("not supported")
}
