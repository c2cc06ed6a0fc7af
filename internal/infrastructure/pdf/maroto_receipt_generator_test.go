package pdf

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/samokat-api/internal/application/rental"
	"github.com/jhoicas/samokat-api/internal/domain/entity"
)

func TestFormatRub(t *testing.T) {
	assert.Equal(t, "0,00", formatRub(decimal.Zero))
	assert.Equal(t, "82,50", formatRub(decimal.RequireFromString("82.5")))
	assert.Equal(t, "150,00", formatRub(decimal.NewFromInt(150)))

	big := formatRub(decimal.RequireFromString("1234.5"))
	assert.True(t, strings.HasPrefix(big, "1"), big)
	assert.True(t, strings.HasSuffix(big, "234,50"), "miles agrupados: %q", big)
}

func TestGenerate_DevuelvePDF(t *testing.T) {
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	data := rental.ReceiptData{
		RentalID:      7,
		UserPhone:     "+79001234567",
		Model:         "Xiaomi M365",
		Frame:         "A1",
		TariffName:    "Per minute",
		CostType:      entity.CostTypePerMinute,
		Price:         decimal.RequireFromString("7.50"),
		StartTime:     start,
		EndTime:       start.Add(11 * time.Minute),
		StartLocation: "55.751244, 37.618423",
		EndLocation:   "55.752220, 37.615560",
		Minutes:       11,
		Total:         decimal.RequireFromString("82.50"),
	}

	out, err := NewMarotoReceiptGenerator("samokat").Generate(data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "cabecera PDF")
}
