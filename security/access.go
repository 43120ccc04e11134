package security

import (
	"errors"
	"log"

	"github.com/medisched/backend/apperrors"
	"github.com/medisched/backend/models"
	"gorm.io/gorm"
)

// Evaluator answers "may principal P act on resource R" for the ownership
// and assignment relations the API guards with. The failure model is
// two-tier throughout: a role or ownership mismatch is a plain false, while
// a missing linked record (an authenticated doctor with no doctor profile,
// an appointment whose patient has no user account) is escalated to an
// integrity error because it indicates a corrupted account, not a
// legitimate denial.
type Evaluator struct {
	db *gorm.DB
}

func NewEvaluator(db *gorm.DB) *Evaluator {
	return &Evaluator{db: db}
}

// Predicate defers an authorization check so composed expressions evaluate
// left-to-right with short-circuit.
type Predicate func() (bool, error)

// Role builds a predicate that passes when the principal holds any of the
// given roles.
func Role(p *Principal, names ...models.RoleName) Predicate {
	return func() (bool, error) {
		return p.HasAnyRole(names...), nil
	}
}

// AnyOf is short-circuit OR over predicates.
func AnyOf(preds ...Predicate) (bool, error) {
	for _, pred := range preds {
		ok, err := pred()
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// AllOf is short-circuit AND over predicates.
func AllOf(preds ...Predicate) Predicate {
	return func() (bool, error) {
		for _, pred := range preds {
			ok, err := pred()
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	}
}

// IsAppointmentOwner checks that the principal is the patient the
// appointment was booked for. Requires ROLE_PATIENT. Resolution path:
// appointment -> patient -> linked user -> compare username.
func (e *Evaluator) IsAppointmentOwner(appointmentID uint, p *Principal) (bool, error) {
	if !p.HasRole(models.RolePatient) {
		log.Printf("user %s lacks ROLE_PATIENT for appointment %d", p.Username, appointmentID)
		return false, nil
	}

	var appt models.Appointment
	err := e.db.Preload("Patient.User").First(&appt, appointmentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, apperrors.Integrity("Appointment not found with ID: %d", appointmentID)
	}
	if err != nil {
		return false, err
	}
	if appt.Patient.ID == 0 || appt.Patient.User == nil {
		return false, apperrors.Integrity("No patient or user associated with appointment ID: %d", appointmentID)
	}

	owns := appt.Patient.User.Username == p.Username
	log.Printf("user %s %s appointment %d", p.Username, ownershipWord(owns), appointmentID)
	return owns, nil
}

// IsPatientOwner checks that the principal's patient profile is the target
// patient. Requires ROLE_PATIENT.
func (e *Evaluator) IsPatientOwner(patientID uint, p *Principal) (bool, error) {
	if !p.HasRole(models.RolePatient) {
		return false, nil
	}
	patient, err := e.patientProfile(p)
	if err != nil {
		return false, err
	}
	return patient.ID == patientID, nil
}

// IsDoctorOwner checks that the principal's doctor profile is the target
// doctor. Requires ROLE_DOCTOR.
func (e *Evaluator) IsDoctorOwner(doctorID uint, p *Principal) (bool, error) {
	if !p.HasRole(models.RoleDoctor) {
		return false, nil
	}
	doctor, err := e.doctorProfile(p)
	if err != nil {
		return false, err
	}
	return doctor.ID == doctorID, nil
}

// IsUserOwner checks that the target user record is the principal's own,
// by exact (case-sensitive) username match. Not role-gated.
func (e *Evaluator) IsUserOwner(userID uint, p *Principal) (bool, error) {
	var user models.User
	err := e.db.First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, apperrors.Integrity("User not found with ID: %d", userID)
	}
	if err != nil {
		return false, err
	}
	return user.Username == p.Username, nil
}

// IsDoctorAssignedToPatient checks that the authenticated doctor has at
// least one appointment with the target patient. Requires ROLE_DOCTOR.
func (e *Evaluator) IsDoctorAssignedToPatient(patientID uint, p *Principal) (bool, error) {
	if !p.HasRole(models.RoleDoctor) {
		log.Printf("user %s lacks ROLE_DOCTOR for patient %d", p.Username, patientID)
		return false, nil
	}

	var patient models.Patient
	err := e.db.First(&patient, patientID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, apperrors.Integrity("Patient not found with ID: %d", patientID)
	}
	if err != nil {
		return false, err
	}

	doctor, err := e.doctorProfile(p)
	if err != nil {
		return false, err
	}
	return e.appointmentExists(patient.ID, doctor.ID)
}

// IsPatientAssignedToDoctor checks that the authenticated patient has at
// least one appointment with the target doctor. Requires ROLE_PATIENT.
func (e *Evaluator) IsPatientAssignedToDoctor(doctorID uint, p *Principal) (bool, error) {
	if !p.HasRole(models.RolePatient) {
		log.Printf("user %s lacks ROLE_PATIENT for doctor %d", p.Username, doctorID)
		return false, nil
	}

	var doctor models.Doctor
	err := e.db.First(&doctor, doctorID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, apperrors.Integrity("Doctor not found with ID: %d", doctorID)
	}
	if err != nil {
		return false, err
	}

	patient, err := e.patientProfile(p)
	if err != nil {
		return false, err
	}
	return e.appointmentExists(patient.ID, doctor.ID)
}

// patientProfile resolves the principal's own patient record via its user
// id. Absence is an integrity fault: a PATIENT-role account should always
// have a profile.
func (e *Evaluator) patientProfile(p *Principal) (*models.Patient, error) {
	var patient models.Patient
	err := e.db.Where("user_id = ?", p.UserID).First(&patient).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Integrity("Patient not found for user ID: %d", p.UserID)
	}
	if err != nil {
		return nil, err
	}
	return &patient, nil
}

func (e *Evaluator) doctorProfile(p *Principal) (*models.Doctor, error) {
	var doctor models.Doctor
	err := e.db.Where("user_id = ?", p.UserID).First(&doctor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Integrity("Doctor not found for user ID: %d", p.UserID)
	}
	if err != nil {
		return nil, err
	}
	return &doctor, nil
}

// appointmentExists is the assignment relation: patient and doctor are
// "assigned" when at least one appointment joins them.
func (e *Evaluator) appointmentExists(patientID, doctorID uint) (bool, error) {
	var count int64
	err := e.db.Model(&models.Appointment{}).
		Where("patient_id = ? AND doctor_id = ?", patientID, doctorID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func ownershipWord(owns bool) string {
	if owns {
		return "owns"
	}
	return "does not own"
}
