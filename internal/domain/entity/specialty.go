package entity

// Specialty is the medical field a doctor is registered under
type Specialty string

const (
	SpecialtyOrthopedics      Specialty = "ORTHOPEDICS"
	SpecialtyCardiology       Specialty = "CARDIOLOGY"
	SpecialtyGastroenterology Specialty = "GASTROENTEROLOGY"
	SpecialtyDermatology      Specialty = "DERMATOLOGY"
	SpecialtyGynecology       Specialty = "GYNECOLOGY"
)

// Specialties lists every specialty the clinic accepts.
var Specialties = []Specialty{
	SpecialtyOrthopedics,
	SpecialtyCardiology,
	SpecialtyGastroenterology,
	SpecialtyDermatology,
	SpecialtyGynecology,
}

// IsValid checks if the specialty is one of the known values
func (s Specialty) IsValid() bool {
	for _, known := range Specialties {
		if s == known {
			return true
		}
	}
	return false
}
