package repository

import "gokuldairy/models"

// UserRepository defines the interface for admin user operations.
type UserRepository interface {
	CreateUser(user *models.AppUser) error
	GetUserByEmail(email string) (*models.AppUser, error)
}
