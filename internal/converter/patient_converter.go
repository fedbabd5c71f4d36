package converter

import (
	"strings"

	"medical-appointment-api/internal/delivery/dto"
	"medical-appointment-api/internal/domain/entity"
)

// PatientFromRequest builds an active Patient from a CreatePatientRequest DTO
func PatientFromRequest(req *dto.CreatePatientRequest) *entity.Patient {
	return &entity.Patient{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:   strings.TrimSpace(req.Phone),
		CPF:     req.CPF,
		Address: AddressFromRequest(req.Address),
		Active:  true,
	}
}

// PatientToResponse converts a Patient entity to PatientResponse DTO
func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	return &dto.PatientResponse{
		ID:        patient.ID,
		Name:      patient.Name,
		Email:     patient.Email,
		Phone:     patient.Phone,
		CPF:       patient.CPF,
		Address:   AddressToResponse(patient.Address),
		Active:    patient.Active,
		CreatedAt: patient.CreatedAt,
		UpdatedAt: patient.UpdatedAt,
	}
}

func PatientsToSummaryResponses(patients []entity.Patient) []dto.PatientSummaryResponse {
	responses := make([]dto.PatientSummaryResponse, len(patients))
	for i, patient := range patients {
		responses[i] = dto.PatientSummaryResponse{
			ID:    patient.ID,
			Name:  patient.Name,
			Email: patient.Email,
			CPF:   patient.CPF,
		}
	}
	return responses
}
