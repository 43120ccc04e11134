package services

import (
	"errors"
	"strings"

	"github.com/medisched/backend/apperrors"
	"github.com/medisched/backend/models"
	"gorm.io/gorm"
)

// DoctorService provides CRUD over doctor profiles.
type DoctorService struct {
	db *gorm.DB
}

func NewDoctorService(db *gorm.DB) *DoctorService {
	return &DoctorService{db: db}
}

// DoctorPatch is a partial update: nil means "leave unchanged".
type DoctorPatch struct {
	FirstName         *string
	LastName          *string
	Email             *string
	PhoneNumber       *string
	Specialization    *string
	Qualifications    *string
	Address           *string
	WorkingHoursStart *string
	WorkingHoursEnd   *string
}

func (s *DoctorService) All() ([]models.Doctor, error) {
	var doctors []models.Doctor
	err := s.db.Order("id").Find(&doctors).Error
	return doctors, err
}

func (s *DoctorService) ByID(id uint) (*models.Doctor, error) {
	var doctor models.Doctor
	err := s.db.First(&doctor, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Doctor", id)
	}
	if err != nil {
		return nil, err
	}
	return &doctor, nil
}

func (s *DoctorService) ByEmail(email string) (*models.Doctor, error) {
	if strings.TrimSpace(email) == "" {
		return nil, apperrors.InvalidArgument("Email cannot be null or empty")
	}
	var doctor models.Doctor
	err := s.db.Where("email = ?", email).First(&doctor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFoundMsg("Doctor not found with email: %s", email)
	}
	if err != nil {
		return nil, err
	}
	return &doctor, nil
}

func (s *DoctorService) ByUserID(userID uint) (*models.Doctor, error) {
	var doctor models.Doctor
	err := s.db.Where("user_id = ?", userID).First(&doctor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFoundMsg("Doctor not found for user ID: %d", userID)
	}
	if err != nil {
		return nil, err
	}
	return &doctor, nil
}

func (s *DoctorService) BySpecialization(specialization string) ([]models.Doctor, error) {
	if strings.TrimSpace(specialization) == "" {
		return nil, apperrors.InvalidArgument("Specialization cannot be null or empty")
	}
	var doctors []models.Doctor
	err := s.db.Where("specialization ILIKE ?", specialization).Order("id").Find(&doctors).Error
	return doctors, err
}

func (s *DoctorService) Create(doctor *models.Doctor) (*models.Doctor, error) {
	if doctor.Email != "" {
		var count int64
		if err := s.db.Model(&models.Doctor{}).Where("email = ?", doctor.Email).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, apperrors.InvalidArgument("Email is already in use")
		}
	}
	if err := s.db.Create(doctor).Error; err != nil {
		return nil, err
	}
	return doctor, nil
}

func (s *DoctorService) Update(id uint, patch DoctorPatch) (*models.Doctor, error) {
	doctor, err := s.ByID(id)
	if err != nil {
		return nil, err
	}

	if patch.FirstName != nil {
		doctor.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		doctor.LastName = *patch.LastName
	}
	if patch.Email != nil && *patch.Email != doctor.Email {
		var count int64
		if err := s.db.Model(&models.Doctor{}).Where("email = ?", *patch.Email).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, apperrors.InvalidArgument("Email is already in use")
		}
		doctor.Email = *patch.Email
	}
	if patch.PhoneNumber != nil {
		doctor.PhoneNumber = patch.PhoneNumber
	}
	if patch.Specialization != nil {
		doctor.Specialization = patch.Specialization
	}
	if patch.Qualifications != nil {
		doctor.Qualifications = patch.Qualifications
	}
	if patch.Address != nil {
		doctor.Address = patch.Address
	}
	if patch.WorkingHoursStart != nil {
		doctor.WorkingHoursStart = patch.WorkingHoursStart
	}
	if patch.WorkingHoursEnd != nil {
		doctor.WorkingHoursEnd = patch.WorkingHoursEnd
	}

	if err := s.db.Save(doctor).Error; err != nil {
		return nil, err
	}
	return doctor, nil
}

func (s *DoctorService) Delete(id uint) error {
	doctor, err := s.ByID(id)
	if err != nil {
		return err
	}
	return s.db.Delete(doctor).Error
}
