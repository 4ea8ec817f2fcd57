// Package report renders the visible leave list to a PDF file, the
// console equivalent of the web client's export button.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"crmdesk/internal/leave"
)

// LeaveHistoryPDF writes the given requests to a PDF under dir and
// returns the file path.
func LeaveHistoryPDF(dir, owner string, requests []leave.Request) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	filePath := filepath.Join(dir, fmt.Sprintf("leave-history-%s.pdf", time.Now().Format("20060102-150405")))

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Leave History")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Exported for: %s", owner))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Exported at: %s", time.Now().Format("2006-01-02 15:04")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	headers := []struct {
		label string
		width float64
	}{
		{"Requester", 38},
		{"From", 24},
		{"To", 24},
		{"Type", 30},
		{"Status", 24},
		{"Reason", 50},
	}
	for _, header := range headers {
		pdf.CellFormat(header.width, 8, header.label, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, request := range requests {
		cells := []string{
			request.Name,
			request.StartDate,
			request.EndDate,
			request.LeaveType,
			string(request.Status),
			request.Reason,
		}
		for i, cell := range cells {
			pdf.CellFormat(headers[i].width, 8, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	if len(requests) == 0 {
		pdf.Cell(0, 8, "No leave requests.")
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}
	return filePath, nil
}
