package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Rakhulsr/go-storefront/app/helpers"
	"github.com/Rakhulsr/go-storefront/app/services"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	responder
	reviews *services.ReviewService
}

func NewReviewHandler(reviews *services.ReviewService, render *render.Render, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		responder: responder{render: render, log: log},
		reviews:   reviews,
	}
}

func (h *ReviewHandler) Submit(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "id")
	if err != nil {
		h.badRequest(w, r, "id", err)
		return
	}
	var input services.ReviewInput
	if err := helpers.DecodeJSON(w, r, &input); err != nil {
		h.fail(w, r, invalidReviewBody(err))
		return
	}

	review, err := h.reviews.SubmitReview(r.Context(), productID, input)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, http.StatusCreated, review)
}

// invalidReviewBody reports a malformed review body, naming the field when the
// decoder knows it (e.g. "stars": 4.5).
func invalidReviewBody(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return services.Invalid(services.ErrInvalidReview, typeErr.Field,
			fmt.Sprintf("%s must be of type %s.", typeErr.Field, typeErr.Type))
	}
	return services.Invalid(services.ErrInvalidReview, "body", err.Error())
}
