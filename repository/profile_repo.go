package repository

import "gokuldairy/models"

type ProfileRepository interface {
	SaveProfile(profile *models.DairyProfile) error
	GetProfile() (*models.DairyProfile, error)
}
