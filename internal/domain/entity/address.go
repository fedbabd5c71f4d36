package entity

// Address is embedded into doctors and patients; it has no table of its own.
type Address struct {
	Street       string `gorm:"type:varchar(150);not null" json:"street"`
	Number       string `gorm:"type:varchar(20)" json:"number,omitempty"`
	Complement   string `gorm:"type:varchar(100)" json:"complement,omitempty"`
	Neighborhood string `gorm:"type:varchar(100);not null" json:"neighborhood"`
	City         string `gorm:"type:varchar(100);not null" json:"city"`
	State        string `gorm:"type:char(2);not null" json:"state"`
	PostalCode   string `gorm:"type:char(8);not null" json:"postal_code"`
}

// Merge overwrites the fields that are set in other
func (a *Address) Merge(other Address) {
	if other.Street != "" {
		a.Street = other.Street
	}
	if other.Number != "" {
		a.Number = other.Number
	}
	if other.Complement != "" {
		a.Complement = other.Complement
	}
	if other.Neighborhood != "" {
		a.Neighborhood = other.Neighborhood
	}
	if other.City != "" {
		a.City = other.City
	}
	if other.State != "" {
		a.State = other.State
	}
	if other.PostalCode != "" {
		a.PostalCode = other.PostalCode
	}
}
