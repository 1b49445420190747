package pdf

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	"github.com/foodgram/foodgram-api/internal/repository"
	"github.com/go-pdf/fpdf"
)

const fontFamily = "DejaVuSerif"

// Column widths in mm for the three-column shopping-list table.
var colWidths = [3]float64{150, 30, 50}

var colHeaders = [3]string{"Продукт", "Ед.изм.", "Кол-во"}

// ShoppingListRenderer renders a user's aggregated shopping list as a PDF
// table on a landscape A4 page.
type ShoppingListRenderer struct {
	fontPath string
}

// NewShoppingListRenderer creates a renderer using the TTF font at
// fontPath. The font must support Cyrillic; a missing font file is a
// startup error, not a per-request one.
func NewShoppingListRenderer(fontPath string) (*ShoppingListRenderer, error) {
	if _, err := os.Stat(fontPath); err != nil {
		return nil, fmt.Errorf("shopping list font not found at %s: %w", fontPath, err)
	}
	return &ShoppingListRenderer{fontPath: fontPath}, nil
}

// Render produces the PDF document bytes for the given aggregated items.
// An empty item list yields a table with the header row only.
func (r *ShoppingListRenderer) Render(items []repository.ShoppingCartItem) ([]byte, error) {
	doc := fpdf.New("L", "mm", "A4", "")
	doc.AddUTF8Font(fontFamily, "", r.fontPath)
	doc.SetAutoPageBreak(true, 15)
	doc.AddPage()

	// Title
	doc.SetFont(fontFamily, "", 24)
	doc.SetTextColor(0, 0, 0)
	doc.CellFormat(0, 14, "Список покупок", "", 1, "L", false, 0, "")
	doc.Ln(4)

	// Header row: black background, white text.
	doc.SetFont(fontFamily, "", 18)
	doc.SetFillColor(0, 0, 0)
	doc.SetTextColor(255, 255, 255)
	doc.SetDrawColor(0, 0, 0)
	for i, header := range colHeaders {
		align := "L"
		if i > 0 {
			align = "C"
		}
		doc.CellFormat(colWidths[i], 12, header, "1", 0, align, true, 0, "")
	}
	doc.Ln(-1)

	// Data rows alternate between white and light grey backgrounds.
	doc.SetFont(fontFamily, "", 14)
	doc.SetTextColor(0, 0, 0)
	for i, item := range items {
		if i%2 == 0 {
			doc.SetFillColor(255, 255, 255)
		} else {
			doc.SetFillColor(210, 210, 210)
		}
		doc.CellFormat(colWidths[0], 10, item.Name, "1", 0, "L", true, 0, "")
		doc.CellFormat(colWidths[1], 10, item.MeasurementUnit, "1", 0, "C", true, 0, "")
		doc.CellFormat(colWidths[2], 10, strconv.Itoa(item.Total), "1", 0, "C", true, 0, "")
		doc.Ln(-1)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render shopping list: %w", err)
	}
	return buf.Bytes(), nil
}
