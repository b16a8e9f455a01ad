package handler

import (
	"net/http"

	apperrors "github.com/surveypool/search-api/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// StatusFor maps a domain error to the HTTP status it is surfaced with.
func StatusFor(err error) int {
	switch apperrors.CodeOf(err) {
	case apperrors.ErrNotFound:
		return http.StatusNotFound
	case apperrors.ErrBadRequest, apperrors.ErrEmptyQuery, apperrors.ErrUnknownPackage:
		return http.StatusBadRequest
	case apperrors.ErrUnauthorized:
		return http.StatusUnauthorized
	case apperrors.ErrForbidden, apperrors.ErrRoleDenied, apperrors.ErrAccountInactive:
		return http.StatusForbidden
	case apperrors.ErrInsufficientBalance:
		return http.StatusPaymentRequired
	case apperrors.ErrUnknownSession:
		return http.StatusNotFound
	case apperrors.ErrCheckoutCreationFailed:
		return http.StatusBadGateway
	case apperrors.ErrConfiguration:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
