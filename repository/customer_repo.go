package repository

import "gokuldairy/models"

// CustomerRepository manages customer accounts. BalanceDue is deliberately
// not writable here: it only moves through the atomic operations on
// BillRepository so bill generation and payment recording can't race on it.
type CustomerRepository interface {
	CreateCustomer(c *models.CustomerAccount) error
	GetCustomer(id int64) (*models.CustomerAccount, error)
	ListCustomers(activeOnly bool) ([]*models.CustomerAccount, error)
	UpdateCustomer(c *models.CustomerAccount) error
}
