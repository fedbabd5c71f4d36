package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Appointment event types
const (
	EventAppointmentScheduled = "appointment.scheduled"
	EventAppointmentCancelled = "appointment.cancelled"
)

// AppointmentEvent is published after the transaction that produced it commits.
type AppointmentEvent struct {
	Type               string    `json:"type"`
	AppointmentID      uuid.UUID `json:"appointment_id"`
	DoctorID           uuid.UUID `json:"doctor_id"`
	PatientID          uuid.UUID `json:"patient_id"`
	DateTime           time.Time `json:"date_time"`
	CancellationReason string    `json:"cancellation_reason,omitempty"`
	OccurredAt         time.Time `json:"occurred_at"`
}

type EventPublisher interface {
	PublishAppointmentEvent(ctx context.Context, event AppointmentEvent) error
}

type logEventPublisher struct {
	log *logrus.Logger
}

// NewLogEventPublisher is used when no Kafka brokers are configured.
func NewLogEventPublisher(log *logrus.Logger) EventPublisher {
	return &logEventPublisher{log: log}
}

func (p *logEventPublisher) PublishAppointmentEvent(ctx context.Context, event AppointmentEvent) error {
	p.log.WithFields(logrus.Fields{
		"event":          event.Type,
		"appointment_id": event.AppointmentID,
		"doctor_id":      event.DoctorID,
		"patient_id":     event.PatientID,
		"date_time":      event.DateTime,
	}).Info("Appointment event")
	return nil
}
