package handlers

import (
	"errors"
	"net/http"

	"github.com/Rakhulsr/go-storefront/app/helpers"
	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/Rakhulsr/go-storefront/app/services"
	"github.com/Rakhulsr/go-storefront/app/utils/calc"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

// ProductView is a catalog product with its derived pricing fields.
type ProductView struct {
	models.Product
	EffectivePrice  decimal.Decimal `json:"effective_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	AverageRating   float64         `json:"average_rating"`
	ReviewCount     int             `json:"review_count"`
}

func newProductView(p models.Product) ProductView {
	price, err := calc.ResolvePrice(p)
	if err != nil {
		price = p.BasePrice
	}
	if p.Reviews == nil {
		p.Reviews = []models.Review{}
	}
	return ProductView{
		Product:         p,
		EffectivePrice:  price,
		DiscountPercent: calc.CalculateDiscountPercent(p.BasePrice, price),
		AverageRating:   services.AverageRating(p),
		ReviewCount:     len(p.Reviews),
	}
}

type ProductHandler struct {
	responder
	catalog  *services.CatalogService
	validate *validator.Validate
}

func NewProductHandler(catalog *services.CatalogService, validate *validator.Validate, render *render.Render, log *zap.Logger) *ProductHandler {
	return &ProductHandler{
		responder: responder{render: render, log: log},
		catalog:   catalog,
		validate:  validate,
	}
}

// filterFromQuery reads ?category=&search=&sort=.
func (h *ProductHandler) filterFromQuery(r *http.Request) (services.CatalogFilter, error) {
	q := r.URL.Query()
	filter := services.CatalogFilter{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Sort:     q.Get("sort"),
	}
	if err := h.validate.Struct(filter); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			field, msg := helpers.FirstField(helpers.FormatValidationErrors(verrs))
			return filter, services.Invalid(services.ErrInvalidSort, field, msg)
		}
		return filter, services.Invalid(services.ErrInvalidRequest, "", err.Error())
	}
	return filter, nil
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := h.filterFromQuery(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	products, err := h.catalog.GetCatalog(r.Context(), filter)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, newProductView(p))
	}
	h.json(w, http.StatusOK, map[string]interface{}{
		"products": views,
		"count":    len(views),
	})
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.badRequest(w, r, "id", err)
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, http.StatusOK, newProductView(*product))
}

func (h *ProductHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.GetProductBySlug(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, http.StatusOK, newProductView(*product))
}

func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.json(w, http.StatusOK, map[string]interface{}{"categories": categories})
}
