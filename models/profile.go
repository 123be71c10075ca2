package models

import "time"

type MobileEntry struct {
	Number string `json:"number" bson:"number" db:"number"`
	Label  string `json:"label" bson:"label" db:"label"`
}

// DairyProfile holds the dairy's own details printed on invoice PDFs.
type DairyProfile struct {
	ID        int64         `json:"id" bson:"_id,omitempty" db:"id"`
	DairyName string        `json:"dairy_name" bson:"name" db:"name"`
	Address   string        `json:"address" bson:"address" db:"address"`
	City      string        `json:"city" bson:"city" db:"city"`
	State     string        `json:"state" bson:"state" db:"state"`
	Pincode   string        `json:"pincode" bson:"pincode" db:"pincode"`
	Footnote  string        `json:"footnote" bson:"footnote" db:"footnote"`
	Mobile    []MobileEntry `json:"mobile" bson:"mobile" db:"mobile"`
	UPIID     string        `json:"upi_id" bson:"upi_id" db:"upi_id"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at" db:"created_at"`
}
