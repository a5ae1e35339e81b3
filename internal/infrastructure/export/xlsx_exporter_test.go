package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	catalogapp "github.com/marketplace/backend/internal/application/catalog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

func TestXLSXProductExporter_WriteProducts(t *testing.T) {
	categoryID := uuid.New()
	compareAt := decimal.RequireFromString("15.00")
	created := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	products := []catalogapp.ProductResponse{
		{
			ID: uuid.New(), SKU: "MUG-1", Name: "Blue Mug", Status: "active",
			Price: decimal.RequireFromString("12.50"), CompareAtPrice: &compareAt, Currency: "USD",
			Stock: 7, Weight: decimal.RequireFromString("0.4"), CategoryID: &categoryID,
			Images:    []catalogapp.ProductImage{{Key: "a.jpg", URL: "https://cdn/a.jpg"}, {Key: "b.jpg"}},
			CreatedAt: created, UpdatedAt: created,
		},
		{ID: uuid.New(), SKU: "TEA-2", Name: "Green Tea", Status: "draft", Price: decimal.NewFromInt(3), Currency: "USD"},
	}

	exporter := NewXLSXProductExporter()
	var buf bytes.Buffer
	require.NoError(t, exporter.WriteProducts(&buf, products))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	sheet, ok := file.Sheet[productSheet]
	require.True(t, ok)
	require.Len(t, sheet.Rows, 3)

	header := sheet.Rows[0].Cells
	assert.Equal(t, "ID", header[0].Value)
	assert.Equal(t, "Updated At", header[len(header)-1].Value)

	first := sheet.Rows[1].Cells
	assert.Equal(t, "MUG-1", first[1].Value)
	assert.Equal(t, "12.5", first[4].Value)
	assert.Equal(t, "15", first[5].Value)
	assert.Equal(t, "7", first[7].Value)
	assert.Equal(t, categoryID.String(), first[9].Value)
	assert.Equal(t, "https://cdn/a.jpg,b.jpg", first[10].Value)
	assert.Equal(t, "2026-03-01 10:30:00", first[11].Value)

	second := sheet.Rows[2].Cells
	assert.Equal(t, "Green Tea", second[2].Value)
	assert.Equal(t, "", second[5].Value)

	assert.Equal(t, ".xlsx", exporter.FileExtension())
	assert.Contains(t, exporter.ContentType(), "spreadsheetml")
}

func TestXLSXProductExporter_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewXLSXProductExporter().WriteProducts(&buf, nil))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	assert.Len(t, file.Sheet[productSheet].Rows, 1)
}
