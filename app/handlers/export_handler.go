package handlers

import (
	"fmt"
	"net/http"

	"github.com/Rakhulsr/go-storefront/app/services"
	"github.com/tealeg/xlsx"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

var exportHeaders = []string{
	"ID", "Title", "Category", "BasePrice", "IsCampaign", "EffectivePrice", "AverageRating", "ReviewCount",
}

type ExportHandler struct {
	responder
	catalog *services.CatalogService
}

func NewExportHandler(catalog *services.CatalogService, render *render.Render, log *zap.Logger) *ExportHandler {
	return &ExportHandler{
		responder: responder{render: render, log: log},
		catalog:   catalog,
	}
}

// BuildCatalogWorkbook lays the catalog out as one sheet, one row per product.
func BuildCatalogWorkbook(views []ProductView) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, h := range exportHeaders {
		headerRow.AddCell().SetValue(h)
	}

	for _, v := range views {
		row := sheet.AddRow()
		row.AddCell().SetValue(v.ID)
		row.AddCell().SetValue(v.Title)
		row.AddCell().SetValue(v.Category)
		row.AddCell().SetValue(v.BasePrice.StringFixed(2))
		row.AddCell().SetValue(v.IsCampaign)
		row.AddCell().SetValue(v.EffectivePrice.StringFixed(2))
		row.AddCell().SetValue(fmt.Sprintf("%.2f", v.AverageRating))
		row.AddCell().SetValue(v.ReviewCount)
	}
	return file, nil
}

func (h *ExportHandler) Products(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.GetCatalog(r.Context(), services.CatalogFilter{})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, newProductView(p))
	}

	file, err := BuildCatalogWorkbook(views)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename=products.xlsx")
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Transfer-Encoding", "binary")
	w.Header().Set("Expires", "0")

	if err := file.Write(w); err != nil {
		h.log.Error("failed to write workbook", zap.Error(err))
	}
}
