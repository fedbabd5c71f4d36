package dto

type AddressRequest struct {
	Street       string `json:"street" validate:"required"`
	Number       string `json:"number" validate:"omitempty,max=20"`
	Complement   string `json:"complement" validate:"omitempty,max=100"`
	Neighborhood string `json:"neighborhood" validate:"required"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required,uf"`
	PostalCode   string `json:"postal_code" validate:"required,cep"`
}

// UpdateAddressRequest only overwrites the fields that are present.
type UpdateAddressRequest struct {
	Street       string `json:"street" validate:"omitempty"`
	Number       string `json:"number" validate:"omitempty,max=20"`
	Complement   string `json:"complement" validate:"omitempty,max=100"`
	Neighborhood string `json:"neighborhood" validate:"omitempty"`
	City         string `json:"city" validate:"omitempty"`
	State        string `json:"state" validate:"omitempty,uf"`
	PostalCode   string `json:"postal_code" validate:"omitempty,cep"`
}

type AddressResponse struct {
	Street       string `json:"street"`
	Number       string `json:"number,omitempty"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
}
