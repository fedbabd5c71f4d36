package repository

import (
	"context"
	"errors"
)

// Store-level errors raised when a uniqueness constraint rejects a write.
var (
	ErrSlotTaken    = errors.New("doctor already has an appointment at this time")
	ErrDuplicateCRM = errors.New("crm already registered for an active doctor")
	ErrDuplicateCPF = errors.New("cpf already registered for an active patient")
)

// Transactor runs fn inside a single database transaction. Repositories called
// with the ctx handed to fn take part in that transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
