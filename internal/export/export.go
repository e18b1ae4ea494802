package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"tennisclub/internal/models"
	"tennisclub/internal/service"
)

// Exporter writes the insolvency list and the weekly booking grid to
// xlsx files under the configured exports directory.
type Exporter struct {
	path     string
	bookings *service.BookingService
	insoluti *service.InsolutiService
	logger   *zerolog.Logger
}

func NewExporter(path string, bookings *service.BookingService, insoluti *service.InsolutiService, logger *zerolog.Logger) *Exporter {
	return &Exporter{path: path, bookings: bookings, insoluti: insoluti, logger: logger}
}

// InsolutiXLSX exports the outstanding debts grouped per client and
// returns the written file path.
func (e *Exporter) InsolutiXLSX(ctx context.Context, until time.Time) (string, error) {
	if err := os.MkdirAll(e.path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	groups, err := e.insoluti.List(ctx, until)
	if err != nil {
		return "", fmt.Errorf("error getting insoluti: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Insoluti"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1",
		fmt.Sprintf("Insoluti al %s", until.Format("02.01.2006")))
	_ = f.MergeCell(sheetName, "A1", "F1")
	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	headers := []string{"Cliente", "Tipo", "Data", "Ora", "Campo", "Importo"}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, h)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	boldStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	row := 3
	var totale float64
	for _, g := range groups {
		for _, p := range g.Prenotazioni {
			setRow(f, sheetName, row,
				g.Cognome+" "+g.Nome, g.TipoCliente,
				p.Data.Format("02.01.2006"),
				p.OraInizio+" - "+p.OraFine,
				p.Campo, p.Importo)
			row++
		}
		setRow(f, sheetName, row, "Totale "+g.Cognome+" "+g.Nome, "", "", "", "", g.Totale)
		first, _ := excelize.CoordinatesToCellName(1, row)
		last, _ := excelize.CoordinatesToCellName(6, row)
		_ = f.SetCellStyle(sheetName, first, last, boldStyle)
		totale = models.RoundCents(totale + g.Totale)
		row++
	}
	setRow(f, sheetName, row, "Totale generale", "", "", "", "", totale)
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(6, row)
	_ = f.SetCellStyle(sheetName, first, last, boldStyle)

	_ = f.SetColWidth(sheetName, "A", "A", 30)
	_ = f.SetColWidth(sheetName, "B", "F", 15)
	_ = f.DeleteSheet("Sheet1")

	filePath := filepath.Join(e.path,
		fmt.Sprintf("insoluti_%s.xlsx", until.Format("2006-01-02")))
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}

	e.logger.Info().Str("file_path", filePath).Msg("Insoluti export created")
	return filePath, nil
}

// WeekXLSX exports the booking grid of the week containing anyDay,
// one sheet per court, and returns the written file path.
func (e *Exporter) WeekXLSX(ctx context.Context, anyDay time.Time) (string, error) {
	if err := os.MkdirAll(e.path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	week, err := e.bookings.GetWeek(ctx, anyDay)
	if err != nil {
		return "", fmt.Errorf("error getting week: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	for campo := 1; campo <= models.Courts; campo++ {
		if err := e.writeCourtSheet(f, week, campo); err != nil {
			return "", err
		}
	}
	_ = f.DeleteSheet("Sheet1")

	filePath := filepath.Join(e.path,
		fmt.Sprintf("settimana_%s.xlsx", week.Monday.Format("2006-01-02")))
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}

	e.logger.Info().Str("file_path", filePath).Msg("Week export created")
	return filePath, nil
}

func (e *Exporter) writeCourtSheet(f *excelize.File, week *service.WeekView, campo int) error {
	sheetName := fmt.Sprintf("Campo %d", campo)
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("error creating sheet: %w", err)
	}
	if campo == 1 {
		f.SetActiveSheet(index)
	}

	sunday := week.Monday.AddDate(0, 0, 6)
	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Settimana %s - %s",
		week.Monday.Format("02.01.2006"), sunday.Format("02.01.2006")))
	_ = f.MergeCell(sheetName, "A1", "H1")
	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, day := range week.Days {
		cell, _ := excelize.CoordinatesToCellName(i+2, 2)
		_ = f.SetCellValue(sheetName, cell, day.Format("Mon 02.01"))
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for r, hour := range week.Hours {
		rowCell, _ := excelize.CoordinatesToCellName(1, r+3)
		_ = f.SetCellValue(sheetName, rowCell, models.HourLabel(hour))
		for c, day := range week.Days {
			p, continuation := service.Occupant(week.Prenotazioni, day, hour, campo)
			if p == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+2, r+3)
			switch {
			case p.AnnullataPioggia:
				_ = f.SetCellValue(sheetName, cell, "PIOGGIA")
			case continuation:
				_ = f.SetCellValue(sheetName, cell, p.ClienteLabel()+" (segue)")
			default:
				_ = f.SetCellValue(sheetName, cell,
					fmt.Sprintf("%s (%.2f)", p.ClienteLabel(), p.Importo))
			}
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 10)
	_ = f.SetColWidth(sheetName, "B", "H", 22)
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values ...interface{}) {
	for i, v := range values {
		if v == "" {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}
