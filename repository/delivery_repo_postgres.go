package repository

import (
	"database/sql"
	"time"

	"gokuldairy/models"
)

type PostgresDeliveryRepo struct {
	DB *sql.DB
}

func NewPostgresDeliveryRepo(db *sql.DB) *PostgresDeliveryRepo {
	return &PostgresDeliveryRepo{DB: db}
}

// SaveDelivery upserts the day's record and its product lines in one
// transaction. Writes into an already-billed month are rejected.
func (r *PostgresDeliveryRepo) SaveDelivery(d *models.DeliveryRecord) error {
	d.Date = d.Date.UTC().Truncate(24 * time.Hour)
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}

	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var billed int
	err = tx.QueryRow(`
		SELECT COUNT(1) FROM bill
		WHERE customer_id=$1 AND period_year=$2 AND period_month=$3
	`, d.CustomerID, d.Date.Year(), int(d.Date.Month())).Scan(&billed)
	if err != nil {
		return err
	}
	if billed > 0 {
		return ErrPeriodBilled
	}

	err = tx.QueryRow(`
		INSERT INTO delivery_record (customer_id, date, status, quantity, unit_price, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (customer_id, date)
		DO UPDATE SET status=EXCLUDED.status, quantity=EXCLUDED.quantity, unit_price=EXCLUDED.unit_price
		RETURNING id
	`, d.CustomerID, d.Date, d.Status, d.Quantity, d.UnitPrice, d.CreatedAt).Scan(&d.ID)
	if err != nil {
		return err
	}

	// Replace product lines wholesale; the day's record is the unit of edit.
	if _, err := tx.Exec(`DELETE FROM delivery_product WHERE delivery_id=$1`, d.ID); err != nil {
		return err
	}
	for _, p := range d.AdditionalProducts {
		_, err := tx.Exec(`
			INSERT INTO delivery_product (delivery_id, product_type, quantity, unit_price, total_amount)
			VALUES ($1,$2,$3,$4,$5)
		`, d.ID, p.ProductType, p.Quantity, p.UnitPrice, p.TotalAmount)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PostgresDeliveryRepo) ListDeliveries(customerID int64, from, to time.Time) ([]*models.DeliveryRecord, error) {
	rows, err := r.DB.Query(`
		SELECT id, customer_id, date, status, quantity, unit_price, created_at
		FROM delivery_record
		WHERE customer_id=$1 AND date BETWEEN $2 AND $3
		ORDER BY date
	`, customerID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.DeliveryRecord
	for rows.Next() {
		d := &models.DeliveryRecord{}
		if err := rows.Scan(&d.ID, &d.CustomerID, &d.Date, &d.Status, &d.Quantity, &d.UnitPrice, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, d := range out {
		if err := r.loadProducts(d); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *PostgresDeliveryRepo) loadProducts(d *models.DeliveryRecord) error {
	rows, err := r.DB.Query(`
		SELECT product_type, quantity, unit_price, total_amount
		FROM delivery_product
		WHERE delivery_id=$1
		ORDER BY id
	`, d.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var p models.AdditionalProduct
		if err := rows.Scan(&p.ProductType, &p.Quantity, &p.UnitPrice, &p.TotalAmount); err != nil {
			return err
		}
		d.AdditionalProducts = append(d.AdditionalProducts, p)
	}
	return rows.Err()
}
