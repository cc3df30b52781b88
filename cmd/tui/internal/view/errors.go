package view

import (
	"errors"

	"github.com/MrJamesThe3rd/facturacion/internal/invoice"
)

// describe turns a service error into the text shown to the operator.
func describe(err error) string {
	var invErr *invoice.Error
	if errors.As(err, &invErr) {
		return invErr.Message
	}

	switch {
	case errors.Is(err, invoice.ErrNotFound):
		return "No cancellation request found at the PAC"
	case errors.Is(err, invoice.ErrPACUnavailable):
		return "PAC unavailable: " + err.Error()
	}

	return "Error: " + err.Error()
}
