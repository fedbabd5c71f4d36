package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Constraint names created by the schema migrations.
const (
	constraintAppointmentSlot = "uq_appointments_doctor_slot"
	constraintDoctorCRM       = "uq_doctors_crm_active"
	constraintPatientCPF      = "uq_patients_cpf_active"
)

// isDuplicateKeyError checks if the error is a PostgreSQL unique violation
// on the constraint with the given name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
