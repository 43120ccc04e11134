package services

import (
	"errors"
	"log"
	"time"

	"github.com/medisched/backend/apperrors"
	"github.com/medisched/backend/events"
	"github.com/medisched/backend/models"
	"gorm.io/gorm"
)

// AppointmentService enforces the appointment lifecycle rules: referenced
// patient and doctor must exist, the start time must be strictly in the
// future, and updates are patch-style (only supplied fields overwrite).
type AppointmentService struct {
	db  *gorm.DB
	bus *events.Publisher
}

func NewAppointmentService(db *gorm.DB, bus *events.Publisher) *AppointmentService {
	return &AppointmentService{db: db, bus: bus}
}

// CreateAppointmentInput carries the details of a booking request.
type CreateAppointmentInput struct {
	AppointmentDateTime time.Time
	EndDateTime         *time.Time
	Reason              *string
	Notes               *string
}

// AppointmentPatch is a partial update: nil means "leave unchanged".
type AppointmentPatch struct {
	AppointmentDateTime *time.Time
	EndDateTime         *time.Time
	Status              *models.AppointmentStatus
	Reason              *string
	Notes               *string
}

func (s *AppointmentService) All() ([]models.Appointment, error) {
	var appts []models.Appointment
	err := s.db.Order("appointment_datetime").Find(&appts).Error
	return appts, err
}

func (s *AppointmentService) ByID(id uint) (*models.Appointment, error) {
	var appt models.Appointment
	err := s.db.First(&appt, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Appointment", id)
	}
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

func (s *AppointmentService) ByPatient(patientID uint) ([]models.Appointment, error) {
	var appts []models.Appointment
	err := s.db.Where("patient_id = ?", patientID).Order("appointment_datetime").Find(&appts).Error
	return appts, err
}

func (s *AppointmentService) ByDoctor(doctorID uint) ([]models.Appointment, error) {
	var appts []models.Appointment
	err := s.db.Where("doctor_id = ?", doctorID).Order("appointment_datetime").Find(&appts).Error
	return appts, err
}

func (s *AppointmentService) ByStatus(status models.AppointmentStatus) ([]models.Appointment, error) {
	var appts []models.Appointment
	err := s.db.Where("status = ?", status).Order("appointment_datetime").Find(&appts).Error
	return appts, err
}

func (s *AppointmentService) ByDoctorAndRange(doctorID uint, start, end time.Time) ([]models.Appointment, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}
	var appts []models.Appointment
	err := s.db.Where("doctor_id = ? AND appointment_datetime BETWEEN ? AND ?", doctorID, start, end).
		Order("appointment_datetime").Find(&appts).Error
	return appts, err
}

func (s *AppointmentService) ByPatientAndRange(patientID uint, start, end time.Time) ([]models.Appointment, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}
	var appts []models.Appointment
	err := s.db.Where("patient_id = ? AND appointment_datetime BETWEEN ? AND ?", patientID, start, end).
		Order("appointment_datetime").Find(&appts).Error
	return appts, err
}

// Create books an appointment with status SCHEDULED. The patient and doctor
// must exist and the start time must be strictly in the future.
func (s *AppointmentService) Create(patientID, doctorID uint, in CreateAppointmentInput) (*models.Appointment, error) {
	var patient models.Patient
	if err := s.db.First(&patient, patientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Patient", patientID)
		}
		return nil, err
	}
	var doctor models.Doctor
	if err := s.db.First(&doctor, doctorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Doctor", doctorID)
		}
		return nil, err
	}

	if in.AppointmentDateTime.IsZero() || !in.AppointmentDateTime.After(time.Now()) {
		return nil, apperrors.InvalidArgument("Appointment date must be in the future")
	}
	if in.EndDateTime != nil && !in.EndDateTime.After(in.AppointmentDateTime) {
		return nil, apperrors.InvalidArgument("End date must be after appointment date")
	}

	appt := models.Appointment{
		PatientID:           patientID,
		DoctorID:            doctorID,
		AppointmentDateTime: in.AppointmentDateTime,
		EndDateTime:         in.EndDateTime,
		Status:              models.StatusScheduled,
		Reason:              in.Reason,
		Notes:               in.Notes,
	}
	if err := s.db.Create(&appt).Error; err != nil {
		return nil, err
	}

	log.Printf("created appointment %d for patient %d with doctor %d", appt.ID, patientID, doctorID)
	s.bus.AppointmentCreated(&appt)
	return &appt, nil
}

// Update applies a partial update. A supplied date is re-validated against
// the future-date rule; fields left nil keep their stored values.
func (s *AppointmentService) Update(id uint, patch AppointmentPatch) (*models.Appointment, error) {
	appt, err := s.ByID(id)
	if err != nil {
		return nil, err
	}

	if patch.AppointmentDateTime != nil {
		if !patch.AppointmentDateTime.After(time.Now()) {
			return nil, apperrors.InvalidArgument("Appointment date must be in the future")
		}
		appt.AppointmentDateTime = *patch.AppointmentDateTime
	}
	if patch.EndDateTime != nil {
		if !patch.EndDateTime.After(appt.AppointmentDateTime) {
			return nil, apperrors.InvalidArgument("End date must be after appointment date")
		}
		appt.EndDateTime = patch.EndDateTime
	}
	if patch.Status != nil {
		appt.Status = *patch.Status
	}
	if patch.Reason != nil {
		appt.Reason = patch.Reason
	}
	if patch.Notes != nil {
		appt.Notes = patch.Notes
	}

	if err := s.db.Save(appt).Error; err != nil {
		return nil, err
	}
	s.bus.AppointmentUpdated(appt)
	return appt, nil
}

// UpdateStatus overwrites the status without checking the current one;
// there is deliberately no transition graph, any authorized caller may set
// any status.
func (s *AppointmentService) UpdateStatus(id uint, status models.AppointmentStatus) (*models.Appointment, error) {
	appt, err := s.ByID(id)
	if err != nil {
		return nil, err
	}
	appt.Status = status
	if err := s.db.Save(appt).Error; err != nil {
		return nil, err
	}
	log.Printf("appointment %d status -> %s", id, status)
	s.bus.AppointmentStatusChanged(appt)
	return appt, nil
}

// Delete hard-deletes an appointment; missing ids are NotFound.
func (s *AppointmentService) Delete(id uint) error {
	appt, err := s.ByID(id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(appt).Error; err != nil {
		return err
	}
	s.bus.AppointmentDeleted(appt)
	return nil
}

// DeleteCancelled removes every CANCELLED appointment and reports how many
// went away. Used by the cleanup command.
func (s *AppointmentService) DeleteCancelled() (int64, error) {
	res := s.db.Where("status = ?", models.StatusCancelled).Delete(&models.Appointment{})
	return res.RowsAffected, res.Error
}

func validateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return apperrors.InvalidArgument("Start date or end date cannot be null")
	}
	if start.After(end) {
		return apperrors.InvalidArgument("Start date cannot be after end date")
	}
	return nil
}
