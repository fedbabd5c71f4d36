package repository

import (
	"context"
	"regexp"
	"testing"

	"medical-appointment-api/internal/domain/entity"
	domainRepo "medical-appointment-api/internal/domain/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatientRepository_Create(t *testing.T) {
	tests := []struct {
		name    string
		dbErr   error
		wantErr error
	}{
		{"duplicate cpf", &pgconn.PgError{Code: "23505", ConstraintName: constraintPatientCPF}, domainRepo.ErrDuplicateCPF},
		{"crm constraint is not a cpf clash", &pgconn.PgError{Code: "23505", ConstraintName: constraintDoctorCRM}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewPatientRepository(db)

			mock.ExpectQuery(`INSERT INTO "patients"`).WillReturnError(tt.dbErr)

			err := repo.Create(context.Background(), &entity.Patient{Name: "Davi", CPF: "12345678909", Active: true})
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NotErrorIs(t, err, domainRepo.ErrDuplicateCPF)
		})
	}
}

func TestPatientRepository_MarkInactiveAlreadyExcluded(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPatientRepository(db)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "patients" SET "active"=$1,"updated_at"=$2 WHERE id = $3 AND active = $4`)).
		WithArgs(false, sqlmock.AnyArg(), id, true).
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.MarkInactive(context.Background(), id)
	require.NoError(t, err)
	assert.Zero(t, affected)
}
