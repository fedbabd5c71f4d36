package converter

import (
	"strings"

	"medical-appointment-api/internal/delivery/dto"
	"medical-appointment-api/internal/domain/entity"
)

// DoctorFromRequest builds an active Doctor from a CreateDoctorRequest DTO
func DoctorFromRequest(req *dto.CreateDoctorRequest) *entity.Doctor {
	return &entity.Doctor{
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     strings.TrimSpace(req.Phone),
		CRM:       req.CRM,
		Specialty: entity.Specialty(req.Specialty),
		Address:   AddressFromRequest(req.Address),
		Active:    true,
	}
}

// DoctorToResponse converts a Doctor entity to DoctorResponse DTO
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	return &dto.DoctorResponse{
		ID:        doctor.ID,
		Name:      doctor.Name,
		Email:     doctor.Email,
		Phone:     doctor.Phone,
		CRM:       doctor.CRM,
		Specialty: string(doctor.Specialty),
		Address:   AddressToResponse(doctor.Address),
		Active:    doctor.Active,
		CreatedAt: doctor.CreatedAt,
		UpdatedAt: doctor.UpdatedAt,
	}
}

func DoctorToSummaryResponse(doctor *entity.Doctor) *dto.DoctorSummaryResponse {
	if doctor == nil {
		return nil
	}

	return &dto.DoctorSummaryResponse{
		ID:        doctor.ID,
		Name:      doctor.Name,
		Email:     doctor.Email,
		CRM:       doctor.CRM,
		Specialty: string(doctor.Specialty),
	}
}

// DoctorsToSummaryResponses converts a slice of Doctor entities to slice of DoctorSummaryResponse DTOs
func DoctorsToSummaryResponses(doctors []entity.Doctor) []dto.DoctorSummaryResponse {
	responses := make([]dto.DoctorSummaryResponse, len(doctors))
	for i := range doctors {
		responses[i] = *DoctorToSummaryResponse(&doctors[i])
	}
	return responses
}
