// Package export renders catalog data as downloadable spreadsheets.
package export

import (
	"fmt"
	"io"
	"strings"

	catalogapp "github.com/marketplace/backend/internal/application/catalog"
	"github.com/tealeg/xlsx"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	productSheet    = "Products"
	timeLayout      = "2006-01-02 15:04:05"
)

var productHeaders = []string{
	"ID", "SKU", "Name", "Status", "Price", "Compare At", "Currency",
	"Stock", "Weight (kg)", "Category ID", "Images", "Created At", "Updated At",
}

// XLSXProductExporter writes products to an Excel workbook
type XLSXProductExporter struct{}

// NewXLSXProductExporter creates an XLSXProductExporter
func NewXLSXProductExporter() *XLSXProductExporter {
	return &XLSXProductExporter{}
}

// ContentType implements catalogapp.ProductExporter
func (e *XLSXProductExporter) ContentType() string { return xlsxContentType }

// FileExtension implements catalogapp.ProductExporter
func (e *XLSXProductExporter) FileExtension() string { return ".xlsx" }

// WriteProducts writes one header row and one row per product
func (e *XLSXProductExporter) WriteProducts(w io.Writer, products []catalogapp.ProductResponse) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(productSheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range productHeaders {
		header.AddCell().SetString(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetString(p.ID.String())
		row.AddCell().SetString(p.SKU)
		row.AddCell().SetString(p.Name)
		row.AddCell().SetString(p.Status)
		row.AddCell().SetFloat(p.Price.InexactFloat64())
		if p.CompareAtPrice != nil {
			row.AddCell().SetFloat(p.CompareAtPrice.InexactFloat64())
		} else {
			row.AddCell().SetString("")
		}
		row.AddCell().SetString(p.Currency)
		row.AddCell().SetInt(p.Stock)
		row.AddCell().SetFloat(p.Weight.InexactFloat64())
		if p.CategoryID != nil {
			row.AddCell().SetString(p.CategoryID.String())
		} else {
			row.AddCell().SetString("")
		}
		urls := make([]string, 0, len(p.Images))
		for _, img := range p.Images {
			if img.URL != "" {
				urls = append(urls, img.URL)
			} else {
				urls = append(urls, img.Key)
			}
		}
		row.AddCell().SetString(strings.Join(urls, ","))
		row.AddCell().SetString(p.CreatedAt.UTC().Format(timeLayout))
		row.AddCell().SetString(p.UpdatedAt.UTC().Format(timeLayout))
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

var _ catalogapp.ProductExporter = (*XLSXProductExporter)(nil)
