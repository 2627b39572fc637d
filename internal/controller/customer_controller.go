package controller

import (
	"fmt"
	"net/http"

	"github.com/unclebandit/customer-records/internal/service"
)

type CustomerController struct {
	CustomerService *service.CustomerService
}

func (c *CustomerController) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var body service.CustomerInput
	if !decodeBody(w, r, &body) {
		return
	}

	customer, err := c.CustomerService.CreateCustomer(r.Context(), body)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "success",
		"data":    customer,
	})
}

func (c *CustomerController) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := c.CustomerService.ListCustomers(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "success",
		"data":    customers,
	})
}

func (c *CustomerController) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	customer, err := c.CustomerService.GetCustomer(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "success",
		"data":    customer,
	})
}

func (c *CustomerController) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	var body service.CustomerInput
	if !decodeBody(w, r, &body) {
		return
	}

	updated, err := c.CustomerService.UpdateCustomer(r.Context(), id, body)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Customer %d updated successfully.", id),
		"data":    updated.Customer,
		"changes": updated.Changes,
	})
}

func (c *CustomerController) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	res, err := c.CustomerService.DeleteCustomer(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Customer %d deleted", id),
		"changes": res.Changes,
	})
}
