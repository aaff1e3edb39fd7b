package reports

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"npsportal/internal/domain/attendance"
)

type Service struct {
	Store StoreAPI

	Now func() time.Time
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store, Now: time.Now}
}

func (s *Service) DailySummary(ctx context.Context, date time.Time, departmentID string) ([]SummaryRow, error) {
	return s.Store.DailySummary(ctx, date, departmentID)
}

// Detail returns attendance rows with worked hours derived at read time, so
// open records show a live value.
func (s *Service) Detail(ctx context.Context, from, to time.Time, departmentID string) ([]DetailRow, error) {
	rows, err := s.Store.DetailRows(ctx, from, to, departmentID)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	for i := range rows {
		if rows[i].TimeIn != nil {
			worked := attendance.WorkedDuration(*rows[i].TimeIn, rows[i].TimeOut, now)
			rows[i].WorkedHours = attendance.FormatWorked(worked)
		}
	}
	return rows, nil
}

// RenderPDF renders detail rows as an A4 attendance report.
func RenderPDF(title string, rows []DetailRow) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Attendance Report")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 8, title)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 9)
	headers := []string{"Emp No", "Name", "Department", "Date", "In", "Out", "Hours"}
	widths := []float64{18, 45, 35, 24, 16, 16, 22}
	for i, header := range headers {
		pdf.CellFormat(widths[i], 7, header, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range rows {
		cells := []string{
			row.EmployeeNumber,
			fmt.Sprintf("%s, %s", row.LastName, row.FirstName),
			row.DepartmentName,
			row.Date.Format("2006-01-02"),
			formatClock(row.TimeIn),
			formatClock(row.TimeOut),
			row.WorkedHours,
		}
		for i, cell := range cells {
			pdf.CellFormat(widths[i], 6, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatClock(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("15:04")
}
