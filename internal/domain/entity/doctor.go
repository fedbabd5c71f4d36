package entity

import (
	"time"

	"github.com/google/uuid"
)

// Doctor is never hard-deleted: appointments keep pointing at it after exclusion.
type Doctor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null;index" json:"name"`
	Email     string    `gorm:"type:varchar(255);not null" json:"email"`
	Phone     string    `gorm:"type:varchar(20);not null" json:"phone"`
	CRM       string    `gorm:"column:crm;type:varchar(6);not null" json:"crm"`
	Specialty Specialty `gorm:"type:varchar(30);not null" json:"specialty"`
	Address   Address   `gorm:"embedded" json:"address"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// Exclude marks the doctor inactive
func (d *Doctor) Exclude() {
	d.Active = false
}
