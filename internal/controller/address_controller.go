package controller

import (
	"fmt"
	"net/http"

	"github.com/unclebandit/customer-records/internal/service"
)

type AddressController struct {
	AddressService *service.AddressService
}

func (c *AddressController) CreateAddress(w http.ResponseWriter, r *http.Request) {
	customerID, ok := pathID(r, "id")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	var body service.AddressInput
	if !decodeBody(w, r, &body) {
		return
	}

	address, err := c.AddressService.CreateAddress(r.Context(), customerID, body)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Address added successfully",
		"data":    address,
	})
}

func (c *AddressController) ListAddresses(w http.ResponseWriter, r *http.Request) {
	customerID, ok := pathID(r, "id")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	addresses, err := c.AddressService.ListAddresses(r.Context(), customerID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "success",
		"data":    addresses,
	})
}

func (c *AddressController) GetAddress(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "addressId")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid address id")
		return
	}

	address, err := c.AddressService.GetAddress(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "success",
		"data":    address,
	})
}

func (c *AddressController) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "addressId")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid address id")
		return
	}

	var body service.AddressInput
	if !decodeBody(w, r, &body) {
		return
	}

	updated, err := c.AddressService.UpdateAddress(r.Context(), id, body)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Address %d updated successfully.", id),
		"data":    updated.Address,
		"changes": updated.Changes,
	})
}

func (c *AddressController) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "addressId")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid address id")
		return
	}

	res, err := c.AddressService.DeleteAddress(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Address %d deleted", id),
		"changes": res.Changes,
	})
}
