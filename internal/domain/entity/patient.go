package entity

import (
	"time"

	"github.com/google/uuid"
)

// Patient represents a registered clinic patient
type Patient struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null;index" json:"name"`
	Email     string    `gorm:"type:varchar(255);not null" json:"email"`
	Phone     string    `gorm:"type:varchar(20);not null" json:"phone"`
	CPF       string    `gorm:"column:cpf;type:char(11);not null" json:"cpf"`
	Address   Address   `gorm:"embedded" json:"address"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Patient) TableName() string {
	return "patients"
}

// Exclude marks the patient inactive
func (p *Patient) Exclude() {
	p.Active = false
}
