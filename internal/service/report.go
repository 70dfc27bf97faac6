package service

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"openhms/api/internal/model"
)

// ReportService builds exportable PMC reports
type ReportService struct {
	db *gorm.DB
}

// NewReportService creates a new report service
func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// ExportBookings renders bookings (optionally filtered by status) into
// an Excel workbook.
func (s *ReportService) ExportBookings(ctx context.Context, status model.BookingStatus) (*excelize.File, error) {
	db := s.db.WithContext(ctx).Preload("Hoarding").Order("created_at DESC")
	if status != "" {
		db = db.Where("status = ?", status)
	}

	var bookings []model.Booking
	if err := db.Find(&bookings).Error; err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Bookings"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{
		"Booking ID", "Hoarding", "Location", "Display Name", "Customer",
		"Type", "Start Date", "End Date", "Days", "Total Rent",
		"Approved Amount", "Status", "Created At",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, b := range bookings {
		approved := ""
		if b.ApprovedAmount != nil {
			approved = fmt.Sprintf("%.2f", *b.ApprovedAmount)
		}
		values := []interface{}{
			b.BookingID,
			b.Hoarding.HoardingID,
			b.Hoarding.Location,
			b.DisplayName,
			b.CustomerName,
			string(b.HoardingType),
			b.StartDate.Format("2006-01-02"),
			b.EndDate.Format("2006-01-02"),
			b.DurationDays,
			b.TotalRent,
			approved,
			string(b.Status),
			b.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	return f, nil
}
