package export

import (
	_ "embed"
	"eventdesk/internal/model"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	pdfTitle = "Event Registrations Report"
	pdfFont  = "DejaVu"
)

// Attendee names are not limited to Latin-1, so the report embeds a UTF-8
// font instead of the core Helvetica.
var (
	//go:embed fonts/DejaVuSansCondensed.ttf
	fontRegular []byte
	//go:embed fonts/DejaVuSansCondensed-Bold.ttf
	fontBold []byte
)

var (
	pdfHeader = []string{"Ticket ID", "Name", "Email", "Course", "Branch", "Mobile", "Registration Date"}
	pdfWidths = []float64{32, 45, 62, 30, 30, 30, 48}
)

// PDF writes a landscape A4 report with one table per event.
func PDF(w io.Writer, regs []model.Registration, now time.Time) error {
	gs, err := groups(FormatPDF, regs)
	if err != nil {
		return err
	}
	return track(FormatPDF, writePDF(w, gs, now))
}

func writePDF(w io.Writer, gs []model.EventGroup, now time.Time) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.AddUTF8FontFromBytes(pdfFont, "", fontRegular)
	pdf.AddUTF8FontFromBytes(pdfFont, "B", fontBold)
	generated := "Generated on " + now.Format("2006-01-02 15:04:05")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(pdfFont, "", 8)
		pdf.CellFormat(0, 10, generated, "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont(pdfFont, "B", 16)
	pdf.CellFormat(0, 12, pdfTitle, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	for _, g := range gs {
		pdf.SetFont(pdfFont, "B", 12)
		pdf.CellFormat(0, 8, g.EventName+" - "+g.EventDate, "", 1, "L", false, 0, "")

		pdf.SetFont(pdfFont, "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for i, h := range pdfHeader {
			pdf.CellFormat(pdfWidths[i], 7, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont(pdfFont, "", 9)
		for _, r := range g.Registrations {
			cells := []string{r.TicketID, r.Name, r.Email, r.Course, r.Branch, r.Mobile, r.Timestamp}
			for i, c := range cells {
				pdf.CellFormat(pdfWidths[i], 6, c, "1", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(6)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
