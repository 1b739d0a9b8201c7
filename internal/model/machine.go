package model

import "time"

// Machine is a piece of heavy machinery tracked by the back office.
type Machine struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Code         string    `gorm:"size:64;index" json:"code"`
	Name         string    `gorm:"size:256;not null" json:"name"`
	Type         string    `gorm:"size:128" json:"type"`
	Brand        string    `gorm:"size:128" json:"brand"`
	Model        string    `gorm:"size:128" json:"model"`
	Plate        string    `gorm:"size:32" json:"plate"`
	Status       string    `gorm:"size:32" json:"status"`
	RegisteredOn *string   `gorm:"size:10" json:"registered_on"` // YYYY-MM-DD
	AccruedHours *float64  `json:"accrued_hours"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName pins the table name used by reports and raw queries.
func (Machine) TableName() string { return "machines" }
