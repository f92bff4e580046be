package notify

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
	"github.com/sardarhouse/guesthouse/internal/kafka"
)

// ReceiptGenerator renders a booking receipt and stores it at a
// retrievable location, returning the generated filename.
type ReceiptGenerator interface {
	Generate(event kafka.ConfirmationEvent) (string, error)
}

type PDFReceiptGenerator struct {
	dir          string
	propertyName string
}

func NewPDFReceiptGenerator(dir, propertyName string) *PDFReceiptGenerator {
	return &PDFReceiptGenerator{dir: dir, propertyName: propertyName}
}

func (g *PDFReceiptGenerator) Generate(event kafka.ConfirmationEvent) (string, error) {
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", fmt.Errorf("create receipts dir: %w", err)
	}

	filename := fmt.Sprintf("booking-%s.pdf", event.BookingID)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, g.propertyName, "", 1, "C", false, 0, "")
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 12)

	line := func(text string) {
		pdf.CellFormat(0, 8, text, "", 1, "L", false, 0, "")
	}
	line(fmt.Sprintf("Booking confirmation for %s", event.GuestName))
	line(fmt.Sprintf("Room: %d", event.RoomID))
	line(fmt.Sprintf("Check-in: %s", event.CheckIn.Format("2006-01-02")))
	line(fmt.Sprintf("Check-out: %s", event.CheckOut.Format("2006-01-02")))
	line(fmt.Sprintf("Guests: %d", event.Guests))
	line(fmt.Sprintf("Email: %s", event.Email))

	if err := pdf.OutputFileAndClose(filepath.Join(g.dir, filename)); err != nil {
		return "", fmt.Errorf("write receipt: %w", err)
	}
	return filename, nil
}

var _ ReceiptGenerator = (*PDFReceiptGenerator)(nil)
