package problem

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

type InvalidParam struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// APIError is the structured error every handler reports. Stack is only
// filled in outside production.
type APIError struct {
	Title         string         `json:"title"`
	Status        int            `json:"status"`
	Message       string         `json:"message"`
	InvalidParams []InvalidParam `json:"invalidParams,omitempty"`
	Stack         string         `json:"stack,omitempty"`
}

func (e APIError) Error() string { return e.Message }

// Envelope is the JSON body written for API calls.
type Envelope struct {
	Error APIError `json:"error"`
}

func newError(status int, message string, params []InvalidParam) APIError {
	return APIError{
		Title:         http.StatusText(status),
		Status:        status,
		Message:       message,
		InvalidParams: params,
	}
}

func NewBadRequest(message string, params ...InvalidParam) APIError {
	return newError(http.StatusBadRequest, message, params)
}

func NewUnauthorized(message string) APIError {
	return newError(http.StatusUnauthorized, message, nil)
}

func NewNotFound(message string) APIError {
	return newError(http.StatusNotFound, message, nil)
}

func NewConflict(message string) APIError {
	return newError(http.StatusConflict, message, nil)
}

func NewInternalServerError(message string) APIError {
	return newError(http.StatusInternalServerError, message, nil)
}

// From classifies err. Anything that is not an APIError becomes a 500.
func From(err error) APIError {
	var apiErr APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return NewInternalServerError(err.Error())
}

// Render converts err into the status and body written for API calls.
func Render(err error, withStack bool) (int, Envelope) {
	apiErr := From(err)
	if withStack {
		apiErr.Stack = fmt.Sprintf("%+v", err)
	}
	return apiErr.Status, Envelope{Error: apiErr}
}

// Messages lists the human readable reasons carried by err, used for
// flash messages in the CMS.
func Messages(err error) []string {
	apiErr := From(err)
	if len(apiErr.InvalidParams) == 0 {
		return []string{apiErr.Message}
	}
	out := make([]string, 0, len(apiErr.InvalidParams))
	for _, p := range apiErr.InvalidParams {
		out = append(out, p.Reason)
	}
	return out
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
