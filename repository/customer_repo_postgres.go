package repository

import (
	"database/sql"
	"time"

	"gokuldairy/models"
)

type PostgresCustomerRepo struct {
	DB *sql.DB
}

func NewPostgresCustomerRepo(db *sql.DB) *PostgresCustomerRepo {
	return &PostgresCustomerRepo{DB: db}
}

func (r *PostgresCustomerRepo) CreateCustomer(c *models.CustomerAccount) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	return r.DB.QueryRow(`
		INSERT INTO customer_account
			(name, phone, address, active, billing_type, subscription_amount, price_per_liter, balance_due, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id
	`, c.Name, c.Phone, c.Address, c.Active, c.Plan.Type,
		c.Plan.SubscriptionAmount, c.Plan.PricePerLiter, c.BalanceDue, c.CreatedAt).Scan(&c.ID)
}

func (r *PostgresCustomerRepo) GetCustomer(id int64) (*models.CustomerAccount, error) {
	c := &models.CustomerAccount{}
	err := r.DB.QueryRow(`
		SELECT id, name, phone, address, active, billing_type, subscription_amount,
		       price_per_liter, balance_due, created_at, updated_at
		FROM customer_account
		WHERE id=$1
	`, id).Scan(&c.ID, &c.Name, &c.Phone, &c.Address, &c.Active, &c.Plan.Type,
		&c.Plan.SubscriptionAmount, &c.Plan.PricePerLiter, &c.BalanceDue, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (r *PostgresCustomerRepo) ListCustomers(activeOnly bool) ([]*models.CustomerAccount, error) {
	query := `
		SELECT id, name, phone, address, active, billing_type, subscription_amount,
		       price_per_liter, balance_due, created_at, updated_at
		FROM customer_account`
	if activeOnly {
		query += ` WHERE active=true`
	}
	query += ` ORDER BY id`

	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.CustomerAccount
	for rows.Next() {
		c := &models.CustomerAccount{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Address, &c.Active, &c.Plan.Type,
			&c.Plan.SubscriptionAmount, &c.Plan.PricePerLiter, &c.BalanceDue, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpdateCustomer never writes balance_due; the balance only moves through
// the atomic bill/payment statements.
func (r *PostgresCustomerRepo) UpdateCustomer(c *models.CustomerAccount) error {
	now := time.Now().UTC()
	c.UpdatedAt = &now

	res, err := r.DB.Exec(`
		UPDATE customer_account
		SET name=$1, phone=$2, address=$3, active=$4, billing_type=$5,
		    subscription_amount=$6, price_per_liter=$7, updated_at=$8
		WHERE id=$9
	`, c.Name, c.Phone, c.Address, c.Active, c.Plan.Type,
		c.Plan.SubscriptionAmount, c.Plan.PricePerLiter, c.UpdatedAt, c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
