package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"gokuldairy/models"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type PostgresBillRepo struct {
	DB *sql.DB
}

func NewPostgresBillRepo(db *sql.DB) *PostgresBillRepo {
	return &PostgresBillRepo{DB: db}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// CreateBillAndCharge inserts the bill and bumps the customer balance in one
// transaction. The balance moves via an in-database increment, never a
// read-modify-write, so concurrent generation and payments can't lose
// updates.
func (r *PostgresBillRepo) CreateBillAndCharge(bill *models.Bill) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRow(`
		INSERT INTO bill (invoice_number, customer_id, period_year, period_month, billing_type,
		                  total_liters, price_per_liter, milk_amount, extras_amount, total_amount,
		                  due_date, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING id
	`, bill.InvoiceNumber, bill.CustomerID, bill.PeriodYear, bill.PeriodMonth, bill.BillingType,
		bill.TotalLiters, bill.PricePerLiter, bill.MilkAmount, bill.ExtrasAmount, bill.TotalAmount,
		bill.DueDate, bill.Status, bill.CreatedAt).Scan(&bill.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateBill
		}
		return err
	}

	res, err := tx.Exec(`
		UPDATE customer_account SET balance_due = balance_due + $1 WHERE id=$2
	`, bill.TotalAmount, bill.CustomerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

const billColumns = `id, invoice_number, customer_id, period_year, period_month, billing_type,
	total_liters, price_per_liter, milk_amount, extras_amount, total_amount,
	due_date, status, created_at`

func scanBill(row interface{ Scan(...interface{}) error }) (*models.Bill, error) {
	b := &models.Bill{Payments: []models.Payment{}}
	err := row.Scan(&b.ID, &b.InvoiceNumber, &b.CustomerID, &b.PeriodYear, &b.PeriodMonth,
		&b.BillingType, &b.TotalLiters, &b.PricePerLiter, &b.MilkAmount, &b.ExtrasAmount,
		&b.TotalAmount, &b.DueDate, &b.Status, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *PostgresBillRepo) GetBillByID(id int64) (*models.Bill, error) {
	bill, err := scanBill(r.DB.QueryRow(`SELECT `+billColumns+` FROM bill WHERE id=$1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if err := r.loadPayments(bill); err != nil {
		return nil, err
	}
	return bill, nil
}

func (r *PostgresBillRepo) GetBillByPeriod(customerID int64, year, month int) (*models.Bill, error) {
	bill, err := scanBill(r.DB.QueryRow(`
		SELECT `+billColumns+` FROM bill
		WHERE customer_id=$1 AND period_year=$2 AND period_month=$3
	`, customerID, year, month))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if err := r.loadPayments(bill); err != nil {
		return nil, err
	}
	return bill, nil
}

func (r *PostgresBillRepo) ListBills(filter BillFilter) ([]*models.Bill, error) {
	where := []string{}
	args := []interface{}{}

	addCond := func(cond string, val interface{}) {
		args = append(args, val)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if filter.CustomerID != 0 {
		addCond("customer_id=$%d", filter.CustomerID)
	}
	if filter.PeriodYear != 0 {
		addCond("period_year=$%d", filter.PeriodYear)
	}
	if filter.PeriodMonth != 0 {
		addCond("period_month=$%d", filter.PeriodMonth)
	}
	if filter.Status != "" {
		addCond("status=$%d", string(filter.Status))
	}

	query := `SELECT ` + billColumns + ` FROM bill`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY period_year DESC, period_month DESC, customer_id`

	return r.queryBills(query, args...)
}

func (r *PostgresBillRepo) ListBillsByCustomer(customerID int64) ([]*models.Bill, error) {
	return r.queryBills(`
		SELECT `+billColumns+` FROM bill
		WHERE customer_id=$1
		ORDER BY period_year DESC, period_month DESC
	`, customerID)
}

func (r *PostgresBillRepo) queryBills(query string, args ...interface{}) ([]*models.Bill, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Bill
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, bill)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, bill := range out {
		if err := r.loadPayments(bill); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *PostgresBillRepo) loadPayments(bill *models.Bill) error {
	rows, err := r.DB.Query(`
		SELECT id, payment_date, payment_method, amount, transaction_id, notes, recorded_at
		FROM bill_payment
		WHERE bill_id=$1
		ORDER BY recorded_at
	`, bill.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.PaymentDate, &p.Method, &p.Amount,
			&p.TransactionID, &p.Notes, &p.RecordedAt); err != nil {
			return err
		}
		bill.Payments = append(bill.Payments, p)
	}
	return rows.Err()
}

// AppendPayment locks the bill row, appends the payment, flips the status to
// paid once covered, and credits the customer balance, all in one
// transaction.
func (r *PostgresBillRepo) AppendPayment(billID int64, p *models.Payment) (*models.Bill, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var customerID int64
	var total decimal.Decimal
	var status string
	err = tx.QueryRow(`
		SELECT customer_id, total_amount, status FROM bill WHERE id=$1 FOR UPDATE
	`, billID).Scan(&customerID, &total, &status)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}

	_, err = tx.Exec(`
		INSERT INTO bill_payment (id, bill_id, payment_date, payment_method, amount, transaction_id, notes, recorded_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, p.ID, billID, p.PaymentDate, p.Method, p.Amount, p.TransactionID, p.Notes, p.RecordedAt)
	if err != nil {
		return nil, err
	}

	var paid decimal.Decimal
	err = tx.QueryRow(`
		SELECT COALESCE(SUM(amount), 0) FROM bill_payment WHERE bill_id=$1
	`, billID).Scan(&paid)
	if err != nil {
		return nil, err
	}

	// Status only ever moves towards paid here; the sweep owns overdue.
	if status != string(models.BillPaid) && paid.GreaterThanOrEqual(total) {
		if _, err := tx.Exec(`UPDATE bill SET status=$1 WHERE id=$2`, models.BillPaid, billID); err != nil {
			return nil, err
		}
	}

	res, err := tx.Exec(`
		UPDATE customer_account SET balance_due = balance_due - $1 WHERE id=$2
	`, p.Amount, customerID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.GetBillByID(billID)
}

func (r *PostgresBillRepo) UpdateStatus(billID int64, status models.BillStatus) error {
	res, err := r.DB.Exec(`UPDATE bill SET status=$1 WHERE id=$2`, status, billID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresBillRepo) CustomerBalance(customerID int64) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.DB.QueryRow(`
		SELECT balance_due FROM customer_account WHERE id=$1
	`, customerID).Scan(&balance)
	if err != nil {
		if err == sql.ErrNoRows {
			return decimal.Zero, ErrNotFound
		}
		return decimal.Zero, err
	}
	return balance, nil
}
