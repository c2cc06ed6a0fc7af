package rental

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jhoicas/samokat-api/internal/application/dto"
	"github.com/jhoicas/samokat-api/internal/domain/entity"
	domainrental "github.com/jhoicas/samokat-api/internal/domain/rental"
)

const historyTimeLayout = "02.01.2006 15:04"

// Las horas del historial se muestran en hora de Moscú.
var historyLocation = time.FixedZone("MSK", 3*60*60)

var rubPrinter = message.NewPrinter(language.Russian)

// History alquileres cerrados del usuario como filas localizadas, más recientes primero.
func (uc *RentalUseCase) History(ctx context.Context, user *entity.User) ([]dto.RentalHistoryRow, error) {
	summaries, err := uc.rentals.HistoryByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	rows := make([]dto.RentalHistoryRow, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, historyRow(s))
	}
	return rows, nil
}

func historyRow(s *entity.RentalSummary) dto.RentalHistoryRow {
	return dto.RentalHistoryRow{
		Frame:           s.Frame,
		StartTime:       s.StartTime.In(historyLocation).Format(historyTimeLayout),
		EndTime:         s.EndTime.In(historyLocation).Format(historyTimeLayout),
		DurationMinutes: domainrental.BilledMinutes(s.StartTime, s.EndTime),
		Amount:          formatRubles(s.TotalCost),
		Tariff:          s.TariffName,
	}
}

// formatRubles "1 234,50". Sin importe (alquileres antiguos) -> "-".
func formatRubles(amount *decimal.Decimal) string {
	if amount == nil {
		return "-"
	}
	return rubPrinter.Sprint(number.Decimal(amount.Round(2).InexactFloat64(), number.Scale(2)))
}
