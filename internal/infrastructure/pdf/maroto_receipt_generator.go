// Package pdf genera el recibo A4 de un alquiler cerrado.
//
//	┌─────────────────────────────────────────────────────┐
//	│  HEADER: servicio + N° de alquiler + fecha          │
//	│  PATINETE: modelo / frame     TARIFA: nombre/precio │
//	│  VIAJE: inicio, fin, ubicaciones, minutos           │
//	│  TOTAL                                   QR         │
//	└─────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jhoicas/samokat-api/internal/application/rental"
	"github.com/jhoicas/samokat-api/internal/domain/entity"
)

var _ rental.ReceiptGenerator = (*MarotoReceiptGenerator)(nil)

const receiptTimeLayout = "02.01.2006 15:04 MST"

// Hora de Moscú, igual que el historial.
var receiptLocation = time.FixedZone("MSK", 3*60*60)

var rubPrinter = message.NewPrinter(language.Russian)

var (
	colorPrimary = &props.Color{Red: 20, Green: 120, Blue: 70}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoReceiptGenerator implementa rental.ReceiptGenerator con Maroto v2.
type MarotoReceiptGenerator struct {
	serviceName string
}

// NewMarotoReceiptGenerator construye el generador; serviceName va en la cabecera.
func NewMarotoReceiptGenerator(serviceName string) *MarotoReceiptGenerator {
	return &MarotoReceiptGenerator{serviceName: serviceName}
}

// Generate devuelve los bytes del PDF.
func (g *MarotoReceiptGenerator) Generate(data rental.ReceiptData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(fmt.Sprintf("Recibo alquiler #%d", data.RentalID), true).
		WithAuthor(g.serviceName, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(g.headerRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(scooterTariffRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.2}))
	m.AddRows(tripRows(data)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(data))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar recibo: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *MarotoReceiptGenerator) headerRow(d rental.ReceiptData) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.serviceName, props.Text{Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1}),
			text.New("Cliente: "+d.UserPhone, props.Text{Size: 9, Top: 10, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("RECIBO DE ALQUILER", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("#%d", d.RentalID), props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7}),
			text.New("Fecha: "+d.EndTime.In(receiptLocation).Format("02.01.2006"), props.Text{Size: 8, Align: align.Right, Top: 14, Color: colorGray}),
		),
	)
}

func scooterTariffRow(d rental.ReceiptData) core.Row {
	return row.New(16).Add(
		col.New(6).Add(
			text.New("PATINETE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("%s  |  frame %s", d.Model, d.Frame), props.Text{Size: 9, Top: 7}),
		),
		col.New(6).Add(
			text.New("TARIFA", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("%s  |  %s", d.TariffName, tariffLabel(d)), props.Text{Size: 9, Top: 7}),
		),
	)
}

func tripRows(d rental.ReceiptData) []core.Row {
	item := func(label, value string) core.Row {
		return row.New(6).Add(
			col.New(4).Add(text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Top: 1})),
			col.New(8).Add(text.New(value, props.Text{Size: 8, Top: 1})),
		)
	}
	return []core.Row{
		item("Inicio", d.StartTime.In(receiptLocation).Format(receiptTimeLayout)),
		item("Fin", d.EndTime.In(receiptLocation).Format(receiptTimeLayout)),
		item("Desde", nonEmpty(d.StartLocation, "-")),
		item("Hasta", nonEmpty(d.EndLocation, "-")),
		item("Minutos facturados", fmt.Sprintf("%d", d.Minutes)),
	}
}

func totalRow(d rental.ReceiptData) core.Row {
	return row.New(40).Add(
		col.New(8).Add(
			text.New("TOTAL", props.Text{Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 4}),
			text.New(formatRub(d.Total)+" RUB", props.Text{Style: fontstyle.Bold, Size: 16, Top: 11}),
		),
		col.New(4).Add(code.NewQr(fmt.Sprintf("samokat:rental:%d:%s", d.RentalID, d.Total.StringFixed(2)), props.Rect{
			Percent: 90,
			Center:  true,
		})),
	)
}

func tariffLabel(d rental.ReceiptData) string {
	if d.CostType == entity.CostTypePerMinute {
		return formatRub(d.Price) + " RUB/min"
	}
	return formatRub(d.Price) + " RUB fijo"
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatRub formato ruso con dos decimales: "1 234,50".
func formatRub(d decimal.Decimal) string {
	return rubPrinter.Sprint(number.Decimal(d.Round(2).InexactFloat64(), number.Scale(2)))
}
