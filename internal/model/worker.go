package model

import "time"

// Worker is a mine employee.
type Worker struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	FirstName string    `gorm:"size:128;not null" json:"first_name"`
	LastName  string    `gorm:"size:128;not null" json:"last_name"`
	DNI       string    `gorm:"column:dni;size:16;uniqueIndex;not null" json:"dni"`
	Position  string    `gorm:"size:128" json:"position"`
	Area      string    `gorm:"size:128" json:"area"`
	Phone     string    `gorm:"size:32" json:"phone"`
	Address   string    `gorm:"size:256" json:"address"`
	HiredOn   *string   `gorm:"size:10" json:"hired_on"` // YYYY-MM-DD
	Status    string    `gorm:"size:32" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Documents []WorkerDocument `gorm:"foreignKey:WorkerID;constraint:OnDelete:CASCADE" json:"-"`
}

// WorkerDocument is a file (contract, certificate, ID scan) attached to a worker.
type WorkerDocument struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	WorkerID     int64     `gorm:"index;not null" json:"worker_id"`
	DocumentType string    `gorm:"size:64" json:"document_type"`
	FileName     string    `gorm:"size:256" json:"file_name"`
	FilePath     string    `gorm:"size:512" json:"file_path"`
	UploadedAt   time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

// Role groups users by permission level.
type Role struct {
	ID          int64  `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:64;uniqueIndex;not null" json:"name"`
	Description string `gorm:"size:256" json:"description"`
}

// UserStatusActive is the only status allowed to log in.
const UserStatusActive = "activo"

// User is a back-office account.
type User struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:256" json:"email"`
	PasswordHash string    `gorm:"column:password;size:255;not null" json:"-"`
	RoleID       *int64    `gorm:"index" json:"role_id"`
	Status       string    `gorm:"size:32;not null;default:activo" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Role *Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}
