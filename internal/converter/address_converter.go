package converter

import (
	"strings"

	"medical-appointment-api/internal/delivery/dto"
	"medical-appointment-api/internal/domain/entity"
)

// AddressFromRequest converts an AddressRequest DTO to an Address value
func AddressFromRequest(req dto.AddressRequest) entity.Address {
	return entity.Address{
		Street:       strings.TrimSpace(req.Street),
		Number:       strings.TrimSpace(req.Number),
		Complement:   strings.TrimSpace(req.Complement),
		Neighborhood: strings.TrimSpace(req.Neighborhood),
		City:         strings.TrimSpace(req.City),
		State:        req.State,
		PostalCode:   req.PostalCode,
	}
}

// AddressFromUpdateRequest keeps empty fields empty so Address.Merge skips them
func AddressFromUpdateRequest(req *dto.UpdateAddressRequest) entity.Address {
	if req == nil {
		return entity.Address{}
	}
	return entity.Address{
		Street:       strings.TrimSpace(req.Street),
		Number:       strings.TrimSpace(req.Number),
		Complement:   strings.TrimSpace(req.Complement),
		Neighborhood: strings.TrimSpace(req.Neighborhood),
		City:         strings.TrimSpace(req.City),
		State:        req.State,
		PostalCode:   req.PostalCode,
	}
}

func AddressToResponse(address entity.Address) dto.AddressResponse {
	return dto.AddressResponse{
		Street:       address.Street,
		Number:       address.Number,
		Complement:   address.Complement,
		Neighborhood: address.Neighborhood,
		City:         address.City,
		State:        address.State,
		PostalCode:   address.PostalCode,
	}
}
