package repository

import (
	"time"

	"gokuldairy/models"
)

// DeliveryRepository stores daily attendance records. SaveDelivery upserts
// on (customer_id, date); implementations must reject writes for a month
// that already has a bill (ErrPeriodBilled).
type DeliveryRepository interface {
	SaveDelivery(d *models.DeliveryRecord) error
	ListDeliveries(customerID int64, from, to time.Time) ([]*models.DeliveryRecord, error)
}
