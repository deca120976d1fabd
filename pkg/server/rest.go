package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
)

type codedError struct {
	err  error
	code int
}

func (e *codedError) Error() string {
	return e.err.Error()
}

func (e *codedError) Unwrap() error {
	return e.err
}

// CodedError attaches an HTTP status code to err.
func CodedError(code int, err error) error {
	return &codedError{err: err, code: code}
}

// CodedErrorf is CodedError with a format string.
func CodedErrorf(code int, format string, args ...any) error {
	return &codedError{err: fmt.Errorf(format, args...), code: code}
}

// ParseRequest decodes a JSON request body into T.
func ParseRequest[T any](r *http.Request) (T, error) {
	var data T
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		return data, CodedErrorf(http.StatusBadRequest, "unable to parse request body: %v", err)
	}
	return data, nil
}

// RestHandler adapts a handler returning (response, error) to http.HandlerFunc.
// Coded errors keep their status; anything else is a 500.
func RestHandler(logger *logrus.Logger, handler func(r *http.Request) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := handler(r)
		if err != nil {
			code := http.StatusInternalServerError
			var cerr *codedError
			if errors.As(err, &cerr) {
				code = cerr.code
			}
			if code >= http.StatusInternalServerError {
				logger.WithError(err).WithField("path", r.URL.Path).Error("Internal error in endpoint")
			}
			WriteJSONResponse(w, code, map[string]string{"error": err.Error()})
			return
		}

		if res == nil {
			res = struct{}{}
		}
		WriteJSONResponse(w, http.StatusOK, res)
	}
}

// WriteJSONResponse writes data as JSON with the given status.
func WriteJSONResponse(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}
