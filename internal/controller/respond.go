package controller

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	appErrors "github.com/unclebandit/customer-records/internal/errors"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Println("⚠️ failed to write response:", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeError maps the error kind to a status without looking at its text.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation *appErrors.ValidationError
		conflict   *appErrors.ConflictError
		notFound   *appErrors.NotFoundError
		reference  *appErrors.ReferenceError
	)

	switch {
	case errors.As(err, &validation):
		writeMessage(w, http.StatusBadRequest, "Missing required fields: "+strings.Join(validation.MissingFields, ", "))
	case errors.As(err, &conflict):
		writeMessage(w, http.StatusConflict, err.Error())
	case errors.As(err, &notFound):
		writeMessage(w, http.StatusNotFound, err.Error())
	case errors.As(err, &reference):
		writeMessage(w, http.StatusUnprocessableEntity, err.Error())
	default:
		log.Printf("❌ %s %s: %v", r.Method, r.URL.Path, err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
	}
}

// pathID reads a positive URL parameter that fits a Postgres INTEGER.
func pathID(r *http.Request, name string) (int, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 32)
	if err != nil || id < 1 {
		return 0, false
	}
	return int(id), true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid body")
		return false
	}
	return true
}
