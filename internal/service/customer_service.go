package service

import (
	"context"

	appErrors "github.com/unclebandit/customer-records/internal/errors"
	"github.com/unclebandit/customer-records/internal/model"
	"github.com/unclebandit/customer-records/internal/queue"
	"github.com/unclebandit/customer-records/internal/repository"
)

type CustomerService struct {
	CustomerRepo repository.CustomerRepositoryInterface
	Events       *EventPublisher
}

// CustomerInput is the full set of writable customer fields.
type CustomerInput struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
}

func (in CustomerInput) validate() error {
	return requireFields(
		field{"first_name", in.FirstName},
		field{"last_name", in.LastName},
		field{"phone_number", in.PhoneNumber},
	)
}

func (s *CustomerService) CreateCustomer(ctx context.Context, in CustomerInput) (*model.Customer, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	c := &model.Customer{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		PhoneNumber: in.PhoneNumber,
	}
	if err := s.CustomerRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.Events.publish(queue.NewEvent(queue.CustomerCreated, "customer", c.ID, c.ID))
	return c, nil
}

// ListCustomers returns every customer, or only those matching search, ordered by first name.
func (s *CustomerService) ListCustomers(ctx context.Context, search string) ([]model.Customer, error) {
	return s.CustomerRepo.List(ctx, search)
}

func (s *CustomerService) GetCustomer(ctx context.Context, id int) (*model.Customer, error) {
	return s.CustomerRepo.GetByID(ctx, id)
}

// UpdateCustomer replaces all fields of customer id. Every field must be
// supplied even when unchanged.
func (s *CustomerService) UpdateCustomer(ctx context.Context, id int, in CustomerInput) (*model.CustomerUpdate, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	c := model.Customer{
		ID:          id,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		PhoneNumber: in.PhoneNumber,
	}
	changes, err := s.CustomerRepo.Update(ctx, &c)
	if err != nil {
		return nil, err
	}
	if changes == 0 {
		return nil, appErrors.NewNotFound("customer", id)
	}

	s.Events.publish(queue.NewEvent(queue.CustomerUpdated, "customer", id, id))
	return &model.CustomerUpdate{Customer: c, MutationResult: model.MutationResult{Changes: changes}}, nil
}

// DeleteCustomer removes customer id together with its addresses.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id int) (*model.MutationResult, error) {
	changes, err := s.CustomerRepo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if changes == 0 {
		return nil, appErrors.NewNotFound("customer", id)
	}

	s.Events.publish(queue.NewEvent(queue.CustomerDeleted, "customer", id, id))
	return &model.MutationResult{Changes: changes}, nil
}
