package service

import (
	"context"

	appErrors "github.com/unclebandit/customer-records/internal/errors"
	"github.com/unclebandit/customer-records/internal/model"
	"github.com/unclebandit/customer-records/internal/queue"
	"github.com/unclebandit/customer-records/internal/repository"
)

type AddressService struct {
	AddressRepo repository.AddressRepositoryInterface
	Events      *EventPublisher
}

// AddressInput is the full set of writable address fields. The owning
// customer comes from the route and cannot be changed later.
type AddressInput struct {
	AddressDetails string `json:"address_details"`
	City           string `json:"city"`
	State          string `json:"state"`
	PinCode        string `json:"pin_code"`
}

func (in AddressInput) validate() error {
	return requireFields(
		field{"address_details", in.AddressDetails},
		field{"city", in.City},
		field{"state", in.State},
		field{"pin_code", in.PinCode},
	)
}

// CreateAddress adds an address to customerID. Customer existence is left to
// the foreign key, which surfaces as a ReferenceError.
func (s *AddressService) CreateAddress(ctx context.Context, customerID int, in AddressInput) (*model.Address, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	a := &model.Address{
		CustomerID:     customerID,
		AddressDetails: in.AddressDetails,
		City:           in.City,
		State:          in.State,
		PinCode:        in.PinCode,
	}
	if err := s.AddressRepo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.Events.publish(queue.NewEvent(queue.AddressCreated, "address", a.ID, customerID))
	return a, nil
}

func (s *AddressService) ListAddresses(ctx context.Context, customerID int) ([]model.Address, error) {
	return s.AddressRepo.ListByCustomer(ctx, customerID)
}

func (s *AddressService) GetAddress(ctx context.Context, id int) (*model.Address, error) {
	return s.AddressRepo.GetByID(ctx, id)
}

func (s *AddressService) UpdateAddress(ctx context.Context, id int, in AddressInput) (*model.AddressUpdate, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	a := model.Address{
		ID:             id,
		AddressDetails: in.AddressDetails,
		City:           in.City,
		State:          in.State,
		PinCode:        in.PinCode,
	}
	changes, err := s.AddressRepo.Update(ctx, &a)
	if err != nil {
		return nil, err
	}
	if changes == 0 {
		return nil, appErrors.NewNotFound("address", id)
	}

	s.Events.publish(queue.NewEvent(queue.AddressUpdated, "address", id, a.CustomerID))
	return &model.AddressUpdate{Address: a, MutationResult: model.MutationResult{Changes: changes}}, nil
}

func (s *AddressService) DeleteAddress(ctx context.Context, id int) (*model.MutationResult, error) {
	a := model.Address{ID: id}
	changes, err := s.AddressRepo.Delete(ctx, &a)
	if err != nil {
		return nil, err
	}
	if changes == 0 {
		return nil, appErrors.NewNotFound("address", id)
	}

	s.Events.publish(queue.NewEvent(queue.AddressDeleted, "address", id, a.CustomerID))
	return &model.MutationResult{Changes: changes}, nil
}
