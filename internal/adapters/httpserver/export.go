package httpserver

import (
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/hemantajax/connectclo/internal/domain"
)

const exportSheet = "Products"

var exportHeader = []string{"ID", "Title", "Creator", "Category", "Pricing", "Price", "Rating", "Reviews", "Image"}

func (s *Server) apiExportXLSX(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	c := s.catalog(w, r)
	if c == nil {
		return
	}
	view := s.engine.View(c, filterState(r.URL.Query()))

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=products.xlsx")
	if err := WriteXLSX(w, view.Items); err != nil {
		log.Error().Err(err).Msg("xlsx export")
		http.Error(w, "export failed", http.StatusInternalServerError)
	}
}

// WriteXLSX writes products as a single-sheet workbook, one row per product in order.
func WriteXLSX(out io.Writer, products []domain.Product) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return err
	}
	for i, h := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(exportSheet, cell, h); err != nil {
			return err
		}
	}
	for i, p := range products {
		row := []any{
			p.ID,
			p.Title,
			p.Creator,
			p.Category,
			p.PricingOption.Label(),
			nil,
			nil,
			p.ReviewCount(),
			p.ImagePath,
		}
		if p.PricingOption == domain.PricingPaid && p.Price != nil {
			row[5] = *p.Price
		}
		if p.Rating != nil {
			row[6] = p.Rating.Rate
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	return f.Write(out)
}
