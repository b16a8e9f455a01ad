package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/surveypool/search-api/pkg/errors"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperrors.EmptyQuery(), http.StatusBadRequest},
		{apperrors.UnknownPackage("points_999"), http.StatusBadRequest},
		{apperrors.RoleDenied("user"), http.StatusForbidden},
		{apperrors.AccountInactive(), http.StatusForbidden},
		{apperrors.InsufficientBalance(), http.StatusPaymentRequired},
		{apperrors.UnknownSession("SES-1"), http.StatusNotFound},
		{apperrors.CheckoutCreationFailed(fmt.Errorf("down")), http.StatusBadGateway},
		{apperrors.Configuration("missing credentials"), http.StatusServiceUnavailable},
		{apperrors.NotFound("account", nil), http.StatusNotFound},
		{apperrors.Unauthorized(fmt.Errorf("invalid credentials")), http.StatusUnauthorized},
		{fmt.Errorf("plain failure"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusFor(tc.err), "error: %v", tc.err)
	}
}

func TestStatusForWrappedError(t *testing.T) {
	wrapped := fmt.Errorf("failed to debit: %w", apperrors.InsufficientBalance())
	assert.Equal(t, http.StatusPaymentRequired, StatusFor(wrapped))
}
