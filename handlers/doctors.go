package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medisched/backend/models"
	"github.com/medisched/backend/security"
	"github.com/medisched/backend/services"
)

type CreateDoctorRequest struct {
	FirstName         string  `json:"firstName" binding:"required,max=50"`
	LastName          string  `json:"lastName" binding:"required,max=50"`
	Email             string  `json:"email" binding:"required,email,max=100"`
	PhoneNumber       *string `json:"phoneNumber"`
	Specialization    *string `json:"specialization"`
	Qualifications    *string `json:"qualifications"`
	Address           *string `json:"address"`
	WorkingHoursStart *string `json:"workingHoursStart"`
	WorkingHoursEnd   *string `json:"workingHoursEnd"`
	UserID            *uint   `json:"userId"`
}

type UpdateDoctorRequest struct {
	FirstName         *string `json:"firstName"`
	LastName          *string `json:"lastName"`
	Email             *string `json:"email"`
	PhoneNumber       *string `json:"phoneNumber"`
	Specialization    *string `json:"specialization"`
	Qualifications    *string `json:"qualifications"`
	Address           *string `json:"address"`
	WorkingHoursStart *string `json:"workingHoursStart"`
	WorkingHoursEnd   *string `json:"workingHoursEnd"`
}

// GetDoctors handles GET /api/v1/doctors (admin or doctor)
func GetDoctors(c *gin.Context) {
	p := principal(c)
	if !authorize(c, security.Role(p, models.RoleAdmin, models.RoleDoctor)) {
		return
	}
	doctors, err := doctorSvc.All()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doctors)
}

// GetDoctor handles GET /api/v1/doctors/:id (any authenticated role)
func GetDoctor(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p := principal(c)
	if !authorize(c, security.Role(p, models.RoleAdmin, models.RoleDoctor, models.RolePatient)) {
		return
	}

	doctor, err := doctorSvc.ByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doctor)
}

// GetDoctorByEmail handles GET /api/v1/doctors/email/:email (admin)
func GetDoctorByEmail(c *gin.Context) {
	p := principal(c)
	if !authorize(c, security.Role(p, models.RoleAdmin)) {
		return
	}
	doctor, err := doctorSvc.ByEmail(c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doctor)
}

// GetDoctorByUser handles GET /api/v1/doctors/user/:userId
// admin or the account owner
func GetDoctorByUser(c *gin.Context) {
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}
	p := principal(c)
	if !authorize(c,
		security.Role(p, models.RoleAdmin),
		security.AllOf(
			security.Role(p, models.RoleDoctor),
			func() (bool, error) { return access.IsUserOwner(userID, p) },
		),
	) {
		return
	}

	doctor, err := doctorSvc.ByUserID(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doctor)
}

// GetDoctorsBySpecialization handles GET /api/v1/doctors/specialization/:specialization
// any authenticated role
func GetDoctorsBySpecialization(c *gin.Context) {
	p := principal(c)
	if !authorize(c, security.Role(p, models.RoleAdmin, models.RoleDoctor, models.RolePatient)) {
		return
	}
	doctors, err := doctorSvc.BySpecialization(c.Param("specialization"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doctors)
}

// CreateDoctor handles POST /api/v1/doctors (doctor or admin)
func CreateDoctor(c *gin.Context) {
	p := principal(c)
	if !authorize(c, security.Role(p, models.RoleDoctor, models.RoleAdmin)) {
		return
	}

	var req CreateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	doctor, err := doctorSvc.Create(&models.Doctor{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Email:             req.Email,
		PhoneNumber:       req.PhoneNumber,
		Specialization:    req.Specialization,
		Qualifications:    req.Qualifications,
		Address:           req.Address,
		WorkingHoursStart: req.WorkingHoursStart,
		WorkingHoursEnd:   req.WorkingHoursEnd,
		UserID:            req.UserID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doctor)
}

// UpdateDoctor handles PUT /api/v1/doctors/:id
// admin or the doctor itself
func UpdateDoctor(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p := principal(c)
	if !authorize(c,
		security.Role(p, models.RoleAdmin),
		security.AllOf(
			security.Role(p, models.RoleDoctor),
			func() (bool, error) { return access.IsDoctorOwner(id, p) },
		),
	) {
		return
	}

	var req UpdateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	doctor, err := doctorSvc.Update(id, services.DoctorPatch{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Email:             req.Email,
		PhoneNumber:       req.PhoneNumber,
		Specialization:    req.Specialization,
		Qualifications:    req.Qualifications,
		Address:           req.Address,
		WorkingHoursStart: req.WorkingHoursStart,
		WorkingHoursEnd:   req.WorkingHoursEnd,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doctor)
}

// DeleteDoctor handles DELETE /api/v1/doctors/:id (admin)
func DeleteDoctor(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p := principal(c)
	if !authorize(c, security.Role(p, models.RoleAdmin)) {
		return
	}

	if err := doctorSvc.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
