package models

import (
	"fmt"
	"strings"
	"time"
)

// RoleName enum - fixed authority vocabulary
type RoleName string

const (
	RoleAdmin   RoleName = "ROLE_ADMIN"
	RoleDoctor  RoleName = "ROLE_DOCTOR"
	RolePatient RoleName = "ROLE_PATIENT"
)

// ParseRoleName maps a short role string ("admin", "doctor", "patient")
// to its authority tag. Matching is case-insensitive.
func ParseRoleName(s string) (RoleName, error) {
	switch RoleName("ROLE_" + strings.ToUpper(s)) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleDoctor:
		return RoleDoctor, nil
	case RolePatient:
		return RolePatient, nil
	}
	return "", fmt.Errorf("Invalid role: %s", s)
}

// AllRoleNames lists every role the system knows about, used by the seeder.
func AllRoleNames() []RoleName {
	return []RoleName{RoleAdmin, RoleDoctor, RolePatient}
}

// AppointmentStatus enum
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "SCHEDULED"
	StatusConfirmed AppointmentStatus = "CONFIRMED"
	StatusCompleted AppointmentStatus = "COMPLETED"
	StatusCancelled AppointmentStatus = "CANCELLED"
	StatusNoShow    AppointmentStatus = "NO_SHOW"
)

// ParseAppointmentStatus validates a status string from a request.
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	switch AppointmentStatus(strings.ToUpper(s)) {
	case StatusScheduled:
		return StatusScheduled, nil
	case StatusConfirmed:
		return StatusConfirmed, nil
	case StatusCompleted:
		return StatusCompleted, nil
	case StatusCancelled:
		return StatusCancelled, nil
	case StatusNoShow:
		return StatusNoShow, nil
	}
	return "", fmt.Errorf("Invalid status: %s", s)
}

// Role model - immutable once created
type Role struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      RoleName  `gorm:"uniqueIndex;size:20;not null" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Role) TableName() string {
	return "roles"
}

// Patient model - profile record, optionally linked to one user account
type Patient struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	FirstName      string     `gorm:"column:first_name;not null" json:"firstName"`
	LastName       string     `gorm:"column:last_name;not null" json:"lastName"`
	Email          string     `gorm:"uniqueIndex;not null" json:"email"`
	PhoneNumber    *string    `gorm:"column:phone_number" json:"phoneNumber,omitempty"`
	DateOfBirth    *time.Time `gorm:"column:date_of_birth" json:"dateOfBirth,omitempty"`
	Gender         *string    `gorm:"column:gender" json:"gender,omitempty"`
	Address        *string    `gorm:"column:address" json:"address,omitempty"`
	MedicalHistory *string    `gorm:"column:medical_history" json:"medicalHistory,omitempty"`

	UserID *uint `gorm:"column:user_id;uniqueIndex" json:"userId,omitempty"`
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Appointments []Appointment `gorm:"foreignKey:PatientID" json:"appointments,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Patient) TableName() string {
	return "patients"
}

// Doctor model
type Doctor struct {
	ID                uint    `gorm:"primaryKey" json:"id"`
	FirstName         string  `gorm:"column:first_name;not null" json:"firstName"`
	LastName          string  `gorm:"column:last_name;not null" json:"lastName"`
	Email             string  `gorm:"uniqueIndex;not null" json:"email"`
	PhoneNumber       *string `gorm:"column:phone_number" json:"phoneNumber,omitempty"`
	Specialization    *string `gorm:"column:specialization" json:"specialization,omitempty"`
	Qualifications    *string `gorm:"column:qualifications" json:"qualifications,omitempty"`
	Address           *string `gorm:"column:address" json:"address,omitempty"`
	WorkingHoursStart *string `gorm:"column:working_hours_start" json:"workingHoursStart,omitempty"` // "09:00"
	WorkingHoursEnd   *string `gorm:"column:working_hours_end" json:"workingHoursEnd,omitempty"`

	UserID *uint `gorm:"column:user_id;uniqueIndex" json:"userId,omitempty"`
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Appointments []Appointment `gorm:"foreignKey:DoctorID" json:"appointments,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// Appointment model - jointly owned by its patient and doctor
type Appointment struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	PatientID uint    `gorm:"column:patient_id;not null;index" json:"patientId"`
	Patient   Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	DoctorID  uint    `gorm:"column:doctor_id;not null;index" json:"doctorId"`
	Doctor    Doctor  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`

	AppointmentDateTime time.Time         `gorm:"column:appointment_datetime;not null;index" json:"appointmentDateTime"`
	EndDateTime         *time.Time        `gorm:"column:end_datetime" json:"endDateTime,omitempty"`
	Status              AppointmentStatus `gorm:"size:20;not null;index" json:"status"`
	Reason              *string           `gorm:"column:reason" json:"reason,omitempty"`
	Notes               *string           `gorm:"column:notes" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Appointment) TableName() string {
	return "appointments"
}
