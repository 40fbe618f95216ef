// Package handlers implements the HTTP handlers of the board API.
package handlers

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/turtacn/ProjectPulse/internal/interfaces/http/middleware"
	"github.com/turtacn/ProjectPulse/pkg/errors"
	"github.com/turtacn/ProjectPulse/pkg/types/common"
)

// validate is safe for concurrent use and caches struct metadata.
var validate = validator.New()

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// writeJSON writes data with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeData wraps data in the standard success envelope.
func writeData[T any](w http.ResponseWriter, r *http.Request, status int, data T) {
	resp := common.NewSuccessResponse(data)
	resp.RequestID = middleware.RequestIDFrom(r.Context())
	writeJSON(w, status, resp)
}

// writeAppError maps err to its status through the error-code table.  Server
// errors are masked to the code's default message.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == errors.CodeUnknown {
		code = errors.ErrCodeInternal
	}
	status := errors.HTTPStatusForCode(code)

	resp := ErrorResponse{Code: code.String(), RequestID: middleware.RequestIDFrom(r.Context())}
	var ae *errors.AppError
	if status < http.StatusInternalServerError && errors.As(err, &ae) {
		resp.Message = ae.Message
		resp.Detail = ae.Detail
	} else {
		resp.Message = errors.DefaultMessageForCode(code)
	}
	writeJSON(w, status, resp)
}

// validateStruct runs the validator tags on v and folds violations into one
// validation error.
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.Wrap(err, errors.ErrCodeValidation, "invalid request")
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", strings.ToLower(fe.Field()), fe.Tag(), fe.Param()))
	}
	return errors.New(errors.ErrCodeValidation, "invalid request parameters").WithDetail(strings.Join(msgs, "; "))
}

//Personal.AI order the ending
