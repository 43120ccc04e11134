package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/medisched/backend/models"
	"github.com/medisched/backend/security"
	"github.com/medisched/backend/services"
)

type CreatePatientRequest struct {
	FirstName      string     `json:"firstName" binding:"required,max=50"`
	LastName       string     `json:"lastName" binding:"required,max=50"`
	Email          string     `json:"email" binding:"required,email,max=100"`
	PhoneNumber    *string    `json:"phoneNumber"`
	DateOfBirth    *time.Time `json:"dateOfBirth"`
	Gender         *string    `json:"gender"`
	Address        *string    `json:"address"`
	MedicalHistory *string    `json:"medicalHistory"`
	UserID         *uint      `json:"userId"`
}

type UpdatePatientRequest struct {
	FirstName      *string    `json:"firstName"`
	LastName       *string    `json:"lastName"`
	Email          *string    `json:"email"`
	PhoneNumber    *string    `json:"phoneNumber"`
	DateOfBirth    *time.Time `json:"dateOfBirth"`
	Gender         *string    `json:"gender"`
	Address        *string    `json:"address"`
	MedicalHistory *string    `json:"medicalHistory"`
}

// GetPatients handles GET /api/v1/patients (admin)
func GetPatients(c *gin.Context) {
	p := principal(c)
	if !authorize(c, security.Role(p, models.RoleAdmin)) {
		return
	}
	patients, err := patientSvc.All()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, patients)
}

// GetPatient handles GET /api/v1/patients/:id
// admin, the patient itself, or a doctor with an appointment for the patient
func GetPatient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p := principal(c)
	if !authorize(c,
		security.Role(p, models.RoleAdmin),
		security.AllOf(
			security.Role(p, models.RolePatient),
			func() (bool, error) { return access.IsPatientOwner(id, p) },
		),
		security.AllOf(
			security.Role(p, models.RoleDoctor),
			func() (bool, error) { return access.IsDoctorAssignedToPatient(id, p) },
		),
	) {
		return
	}

	patient, err := patientSvc.ByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, patient)
}

// GetPatientByEmail handles GET /api/v1/patients/email/:email (admin)
func GetPatientByEmail(c *gin.Context) {
	p := principal(c)
	if !authorize(c, security.Role(p, models.RoleAdmin)) {
		return
	}
	patient, err := patientSvc.ByEmail(c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, patient)
}

// GetPatientByUser handles GET /api/v1/patients/user/:userId
// admin or the account owner
func GetPatientByUser(c *gin.Context) {
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}
	p := principal(c)
	if !authorize(c,
		security.Role(p, models.RoleAdmin),
		security.AllOf(
			security.Role(p, models.RolePatient),
			func() (bool, error) { return access.IsUserOwner(userID, p) },
		),
	) {
		return
	}

	patient, err := patientSvc.ByUserID(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, patient)
}

// CreatePatient handles POST /api/v1/patients (patient or admin)
func CreatePatient(c *gin.Context) {
	p := principal(c)
	if !authorize(c, security.Role(p, models.RolePatient, models.RoleAdmin)) {
		return
	}

	var req CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	patient, err := patientSvc.Create(&models.Patient{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		DateOfBirth:    req.DateOfBirth,
		Gender:         req.Gender,
		Address:        req.Address,
		MedicalHistory: req.MedicalHistory,
		UserID:         req.UserID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, patient)
}

// UpdatePatient handles PUT /api/v1/patients/:id
// admin or the patient itself
func UpdatePatient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p := principal(c)
	if !authorize(c,
		security.Role(p, models.RoleAdmin),
		security.AllOf(
			security.Role(p, models.RolePatient),
			func() (bool, error) { return access.IsPatientOwner(id, p) },
		),
	) {
		return
	}

	var req UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	patient, err := patientSvc.Update(id, services.PatientPatch{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		DateOfBirth:    req.DateOfBirth,
		Gender:         req.Gender,
		Address:        req.Address,
		MedicalHistory: req.MedicalHistory,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, patient)
}

// DeletePatient handles DELETE /api/v1/patients/:id (admin)
func DeletePatient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p := principal(c)
	if !authorize(c, security.Role(p, models.RoleAdmin)) {
		return
	}

	if err := patientSvc.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
