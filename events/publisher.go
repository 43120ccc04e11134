// Package events carries appointment lifecycle notifications over the
// embedded NATS bus and fans them out to WebSocket subscribers.
package events

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/medisched/backend/models"
	"github.com/nats-io/nats.go"
)

const (
	SubjectCreated = "appointments.created"
	SubjectUpdated = "appointments.updated"
	SubjectStatus  = "appointments.status"
	SubjectDeleted = "appointments.deleted"
)

// AppointmentEvent is the message published on every appointment mutation.
type AppointmentEvent struct {
	ID            string                   `json:"id"`
	Type          string                   `json:"type"` // created, updated, status, deleted
	AppointmentID uint                     `json:"appointmentId"`
	PatientID     uint                     `json:"patientId"`
	DoctorID      uint                     `json:"doctorId"`
	Status        models.AppointmentStatus `json:"status"`
	StartTime     time.Time                `json:"startTime"`
	Timestamp     time.Time                `json:"timestamp"`
}

// Publisher emits appointment events. A nil Publisher is a no-op so the
// services stay testable without a running bus.
type Publisher struct {
	nc *nats.Conn
}

func NewPublisher(nc *nats.Conn) *Publisher {
	return &Publisher{nc: nc}
}

func (p *Publisher) AppointmentCreated(appt *models.Appointment) {
	p.publish(SubjectCreated, "created", appt)
}

func (p *Publisher) AppointmentUpdated(appt *models.Appointment) {
	p.publish(SubjectUpdated, "updated", appt)
}

func (p *Publisher) AppointmentStatusChanged(appt *models.Appointment) {
	p.publish(SubjectStatus, "status", appt)
}

func (p *Publisher) AppointmentDeleted(appt *models.Appointment) {
	p.publish(SubjectDeleted, "deleted", appt)
}

func (p *Publisher) publish(subject, evType string, appt *models.Appointment) {
	if p == nil || p.nc == nil {
		return
	}
	ev := AppointmentEvent{
		ID:            uuid.NewString(),
		Type:          evType,
		AppointmentID: appt.ID,
		PatientID:     appt.PatientID,
		DoctorID:      appt.DoctorID,
		Status:        appt.Status,
		StartTime:     appt.AppointmentDateTime,
		Timestamp:     time.Now(),
	}
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("event marshal failed: %v", err)
		return
	}
	if err := p.nc.Publish(subject, data); err != nil {
		log.Printf("event publish failed on %s: %v", subject, err)
	}
}
