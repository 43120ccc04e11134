package services

import (
	"errors"
	"strings"
	"time"

	"github.com/medisched/backend/apperrors"
	"github.com/medisched/backend/models"
	"gorm.io/gorm"
)

// PatientService provides CRUD over patient profiles.
type PatientService struct {
	db *gorm.DB
}

func NewPatientService(db *gorm.DB) *PatientService {
	return &PatientService{db: db}
}

// PatientPatch is a partial update: nil means "leave unchanged".
type PatientPatch struct {
	FirstName      *string
	LastName       *string
	Email          *string
	PhoneNumber    *string
	DateOfBirth    *time.Time
	Gender         *string
	Address        *string
	MedicalHistory *string
}

func (s *PatientService) All() ([]models.Patient, error) {
	var patients []models.Patient
	err := s.db.Order("id").Find(&patients).Error
	return patients, err
}

func (s *PatientService) ByID(id uint) (*models.Patient, error) {
	var patient models.Patient
	err := s.db.First(&patient, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Patient", id)
	}
	if err != nil {
		return nil, err
	}
	return &patient, nil
}

func (s *PatientService) ByEmail(email string) (*models.Patient, error) {
	if strings.TrimSpace(email) == "" {
		return nil, apperrors.InvalidArgument("Email cannot be null or empty")
	}
	var patient models.Patient
	err := s.db.Where("email = ?", email).First(&patient).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFoundMsg("Patient not found with email: %s", email)
	}
	if err != nil {
		return nil, err
	}
	return &patient, nil
}

func (s *PatientService) ByUserID(userID uint) (*models.Patient, error) {
	var patient models.Patient
	err := s.db.Where("user_id = ?", userID).First(&patient).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFoundMsg("Patient not found for user ID: %d", userID)
	}
	if err != nil {
		return nil, err
	}
	return &patient, nil
}

func (s *PatientService) Create(patient *models.Patient) (*models.Patient, error) {
	if patient.Email != "" {
		var count int64
		if err := s.db.Model(&models.Patient{}).Where("email = ?", patient.Email).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, apperrors.InvalidArgument("Email is already in use")
		}
	}
	if err := s.db.Create(patient).Error; err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *PatientService) Update(id uint, patch PatientPatch) (*models.Patient, error) {
	patient, err := s.ByID(id)
	if err != nil {
		return nil, err
	}

	if patch.FirstName != nil {
		patient.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		patient.LastName = *patch.LastName
	}
	if patch.Email != nil && *patch.Email != patient.Email {
		var count int64
		if err := s.db.Model(&models.Patient{}).Where("email = ?", *patch.Email).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, apperrors.InvalidArgument("Email is already in use")
		}
		patient.Email = *patch.Email
	}
	if patch.PhoneNumber != nil {
		patient.PhoneNumber = patch.PhoneNumber
	}
	if patch.DateOfBirth != nil {
		patient.DateOfBirth = patch.DateOfBirth
	}
	if patch.Gender != nil {
		patient.Gender = patch.Gender
	}
	if patch.Address != nil {
		patient.Address = patch.Address
	}
	if patch.MedicalHistory != nil {
		patient.MedicalHistory = patch.MedicalHistory
	}

	if err := s.db.Save(patient).Error; err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *PatientService) Delete(id uint) error {
	patient, err := s.ByID(id)
	if err != nil {
		return err
	}
	return s.db.Delete(patient).Error
}
