package repository

import (
	"time"

	"gokuldairy/models"
)

// PDFRepository gathers everything the invoice PDF needs: the bill, the
// customer, the month's delivery records, and the dairy letterhead.
type PDFRepository struct {
	BillRepo     BillRepository
	CustomerRepo CustomerRepository
	DeliveryRepo DeliveryRepository
	ProfileRepo  ProfileRepository
}

func NewPDFRepository(bills BillRepository, customers CustomerRepository,
	deliveries DeliveryRepository, profiles ProfileRepository) *PDFRepository {
	return &PDFRepository{
		BillRepo:     bills,
		CustomerRepo: customers,
		DeliveryRepo: deliveries,
		ProfileRepo:  profiles,
	}
}

// GetBillForPDF fetches the bill with its customer attached.
func (r *PDFRepository) GetBillForPDF(id int64) (*models.Bill, error) {
	bill, err := r.BillRepo.GetBillByID(id)
	if err != nil || bill == nil {
		return bill, err
	}
	customer, err := r.CustomerRepo.GetCustomer(bill.CustomerID)
	if err != nil {
		return nil, err
	}
	bill.Customer = customer
	return bill, nil
}

// GetDeliveriesForPDF fetches the bill's month of delivery records.
func (r *PDFRepository) GetDeliveriesForPDF(bill *models.Bill) ([]*models.DeliveryRecord, error) {
	start := time.Date(bill.PeriodYear, time.Month(bill.PeriodMonth), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return r.DeliveryRepo.ListDeliveries(bill.CustomerID, start, end)
}

// GetProfileForPDF fetches the dairy letterhead details.
func (r *PDFRepository) GetProfileForPDF() (*models.DairyProfile, error) {
	return r.ProfileRepo.GetProfile()
}
