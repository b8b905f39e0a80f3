package export

import (
	"eventdesk/internal/model"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

var xlsxHeader = []any{
	"Ticket ID", "Student Name", "Email", "Course", "Branch", "Mobile",
	"Registration Date", "Event", "Event Date", "Venue",
}

// XLSX writes a workbook with one sheet per event.
func XLSX(w io.Writer, regs []model.Registration) error {
	gs, err := groups(FormatXLSX, regs)
	if err != nil {
		return err
	}
	return track(FormatXLSX, writeXLSX(w, gs))
}

func writeXLSX(w io.Writer, gs []model.EventGroup) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	names := sheetNames(gs)
	for i, g := range gs {
		sheet := names[i]
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("add sheet %q: %w", sheet, err)
		}

		if err := f.SetSheetRow(sheet, "A1", &xlsxHeader); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
			return fmt.Errorf("style header: %w", err)
		}
		for j, r := range g.Registrations {
			row := []any{
				r.TicketID, r.Name, r.Email, r.Course, r.Branch, r.Mobile,
				r.Timestamp, r.EventName, r.EventDate, r.EventVenue,
			}
			cell, err := excelize.CoordinatesToCellName(1, j+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				return fmt.Errorf("write row %d of %q: %w", j+2, sheet, err)
			}
		}
		if err := f.SetColWidth(sheet, "A", "J", 20); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
