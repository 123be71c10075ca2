package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	"gokuldairy/models"
)

type PostgresProfileRepo struct {
	DB *sql.DB
}

func NewPostgresProfileRepo(db *sql.DB) *PostgresProfileRepo {
	return &PostgresProfileRepo{DB: db}
}

// SaveProfile inserts or updates the dairy's own details
func (r *PostgresProfileRepo) SaveProfile(profile *models.DairyProfile) error {
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now().UTC()
	}

	mobileJSON, err := json.Marshal(profile.Mobile)
	if err != nil {
		return err
	}

	// If ID is passed → UPDATE, else INSERT
	if profile.ID > 0 {
		_, err = r.DB.Exec(`
			UPDATE dairy_profile
			SET name=$1, address=$2, city=$3, state=$4, pincode=$5,
			    footnote=$6, mobile=$7, upi_id=$8
			WHERE id=$9
		`, profile.DairyName, profile.Address, profile.City, profile.State,
			profile.Pincode, profile.Footnote, mobileJSON, profile.UPIID, profile.ID)
		return err
	}

	return r.DB.QueryRow(`
		INSERT INTO dairy_profile
			(name, address, city, state, pincode, footnote, mobile, upi_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id
	`, profile.DairyName, profile.Address, profile.City, profile.State,
		profile.Pincode, profile.Footnote, mobileJSON, profile.UPIID, profile.CreatedAt).Scan(&profile.ID)
}

// GetProfile fetches the latest dairy profile
func (r *PostgresProfileRepo) GetProfile() (*models.DairyProfile, error) {
	profile := &models.DairyProfile{}
	var mobileJSON []byte

	err := r.DB.QueryRow(`
		SELECT id, name, address, city, state, pincode, footnote, mobile, upi_id, created_at
		FROM dairy_profile
		ORDER BY id DESC LIMIT 1
	`).Scan(&profile.ID, &profile.DairyName, &profile.Address, &profile.City, &profile.State,
		&profile.Pincode, &profile.Footnote, &mobileJSON, &profile.UPIID, &profile.CreatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if len(mobileJSON) > 0 {
		if err := json.Unmarshal(mobileJSON, &profile.Mobile); err != nil {
			return nil, err
		}
	}

	return profile, nil
}
