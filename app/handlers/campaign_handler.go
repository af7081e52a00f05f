package handlers

import (
	"net/http"

	"github.com/Rakhulsr/go-storefront/app/helpers"
	"github.com/Rakhulsr/go-storefront/app/services"
	"github.com/shopspring/decimal"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type applyCampaignRequest struct {
	ProductID uint            `json:"product_id"`
	NewPrice  decimal.Decimal `json:"new_price"`
}

type CampaignHandler struct {
	responder
	campaigns *services.CampaignService
}

func NewCampaignHandler(campaigns *services.CampaignService, render *render.Render, log *zap.Logger) *CampaignHandler {
	return &CampaignHandler{
		responder: responder{render: render, log: log},
		campaigns: campaigns,
	}
}

func (h *CampaignHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req applyCampaignRequest
	if err := helpers.DecodeJSON(w, r, &req); err != nil {
		h.badRequest(w, r, "body", err)
		return
	}
	if req.ProductID == 0 {
		h.fail(w, r, services.Invalid(services.ErrInvalidRequest, "product_id", "product_id is required."))
		return
	}

	product, err := h.campaigns.ApplyCampaign(r.Context(), req.ProductID, req.NewPrice)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, http.StatusOK, newProductView(*product))
}

// List feeds the campaign carousel.
func (h *CampaignHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.campaigns.ListCampaignItems(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, http.StatusOK, map[string]interface{}{"items": items})
}
