package handlers

import (
	"errors"
	"net/http"

	"github.com/Rakhulsr/go-storefront/app/helpers"
	"github.com/Rakhulsr/go-storefront/app/services"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type errorBody struct {
	Kind    string `json:"kind"`
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// responder is embedded by every handler.
type responder struct {
	render *render.Render
	log    *zap.Logger
}

func (h responder) json(w http.ResponseWriter, status int, v interface{}) {
	if err := h.render.JSON(w, status, v); err != nil {
		h.log.Error("failed to render response", zap.Error(err))
	}
}

func statusFor(kind services.ErrorKind) int {
	switch kind {
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindValidation:
		return http.StatusUnprocessableEntity
	case services.KindInvariantViolation:
		return http.StatusConflict
	case services.KindUpstreamUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h responder) fail(w http.ResponseWriter, r *http.Request, err error) {
	var e *services.Error
	if !errors.As(err, &e) {
		h.log.Error("unhandled error", zap.String("path", r.URL.Path), zap.Error(err))
		h.json(w, http.StatusInternalServerError, errorEnvelope{Error: errorBody{
			Kind:    "INTERNAL",
			Code:    "Internal",
			Message: "internal server error",
		}})
		return
	}

	status := statusFor(e.Kind)
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", zap.String("path", r.URL.Path), zap.String("code", e.Code), zap.Error(err))
	}

	h.json(w, status, errorEnvelope{Error: errorBody{
		Kind:    e.Kind.String(),
		Code:    e.Code,
		Field:   e.Field,
		ID:      e.ID,
		Message: e.Message,
	}})
}

func (h responder) badRequest(w http.ResponseWriter, r *http.Request, field string, err error) {
	h.fail(w, r, services.Invalid(services.ErrInvalidRequest, field, err.Error()))
}

func cartID(r *http.Request) string {
	id, _ := helpers.CartIDFromContext(r.Context())
	return id
}

func pathID(r *http.Request, name string) (uint, error) {
	return helpers.ParseUint(mux.Vars(r)[name])
}
