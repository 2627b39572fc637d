package service

import (
	"strings"

	appErrors "github.com/unclebandit/customer-records/internal/errors"
)

type field struct {
	name  string
	value string
}

// requireFields returns a ValidationError naming every blank field, in the
// order given, or nil when all are present.
func requireFields(fields ...field) error {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return appErrors.NewValidation(missing...)
	}
	return nil
}
