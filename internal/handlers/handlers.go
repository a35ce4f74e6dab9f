// Package handlers holds what the v1 huma handlers share: the error body,
// error mapping and caller identity lookup.
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"

	"github.com/phatch9/Financial-Cloud-Management/internal/access"
	"github.com/phatch9/Financial-Cloud-Management/internal/apperr"
	"github.com/phatch9/Financial-Cloud-Management/internal/logging"
)

// Bearer marks an operation as requiring a bearer token.
var Bearer = []map[string][]string{{access.SecurityScheme: {}}}

// ErrorBody is the body of every error response.
type ErrorBody struct {
	status  int
	Message string `json:"message" doc:"Human readable error message"`
}

func (e *ErrorBody) Error() string {
	return e.Message
}

func (e *ErrorBody) GetStatus() int {
	return e.status
}

// UseMessageErrors makes huma render every error, including its own
// request validation failures, as ErrorBody. Schema violations are
// reported as 400.
func UseMessageErrors() {
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		if status == http.StatusUnprocessableEntity {
			status = http.StatusBadRequest
		}
		details := make([]string, 0, len(errs))
		for _, err := range errs {
			if err != nil && status < http.StatusInternalServerError {
				details = append(details, err.Error())
			}
		}
		if len(details) > 0 {
			msg = msg + ": " + strings.Join(details, "; ")
		}
		return &ErrorBody{status: status, Message: msg}
	}
}

// Error converts a service error into an HTTP error. Unexpected errors are
// logged and reported as fallback with a 500.
func Error(ctx context.Context, err error, fallback string) error {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		if logData := logging.GetLogData(ctx); logData != nil {
			logData.Log().WithError(err).Error(fallback)
		} else {
			logrus.WithError(err).Error(fallback)
		}
	}
	return huma.NewError(status, apperr.Message(err, fallback))
}

// OwnerID returns the authenticated caller's user id.
func OwnerID(ctx context.Context) (uuid.UUID, error) {
	identity, ok := access.FromContext(ctx)
	if !ok || identity.UserID == uuid.Nil {
		return uuid.Nil, huma.NewError(http.StatusUnauthorized, "missing bearer token")
	}
	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("ownerID", identity.UserID.String())
	}
	return identity.UserID, nil
}

// ParseID parses a path or body UUID, naming field in the error.
func ParseID(field, value string) (uuid.UUID, error) {
	id, err := uuid.FromString(value)
	if err != nil {
		return uuid.Nil, huma.NewError(http.StatusBadRequest, "invalid "+field)
	}
	return id, nil
}

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// ParseTime accepts RFC3339 as well as zone-less date-times and plain
// dates, which are read as UTC.
func ParseTime(field, value string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, huma.NewError(http.StatusBadRequest, "invalid "+field)
}

// FormatTime renders times the way every response does.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
