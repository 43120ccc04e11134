package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/medisched/backend/models"
	"github.com/medisched/backend/security"
	"github.com/medisched/backend/services"
)

type CreateAppointmentRequest struct {
	PatientID           uint       `json:"patientId" binding:"required"`
	DoctorID            uint       `json:"doctorId" binding:"required"`
	AppointmentDateTime time.Time  `json:"appointmentDateTime" binding:"required"`
	EndDateTime         *time.Time `json:"endDateTime"`
	Reason              *string    `json:"reason"`
	Notes               *string    `json:"notes"`
}

// UpdateAppointmentRequest carries a partial update; absent fields leave
// the stored values untouched.
type UpdateAppointmentRequest struct {
	AppointmentDateTime *time.Time `json:"appointmentDateTime"`
	EndDateTime         *time.Time `json:"endDateTime"`
	Status              *string    `json:"status"`
	Reason              *string    `json:"reason"`
	Notes               *string    `json:"notes"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// GetAppointments handles GET /api/v1/appointments (admin)
func GetAppointments(c *gin.Context) {
	p := principal(c)
	if !authorize(c, security.Role(p, models.RoleAdmin)) {
		return
	}
	appts, err := appointmentSvc.All()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appts)
}

// GetAppointment handles GET /api/v1/appointments/:id
// admin, or the patient who owns the appointment
func GetAppointment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p := principal(c)
	if !authorize(c,
		security.Role(p, models.RoleAdmin),
		security.AllOf(
			security.Role(p, models.RolePatient),
			func() (bool, error) { return access.IsAppointmentOwner(id, p) },
		),
	) {
		return
	}

	appt, err := appointmentSvc.ByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// GetAppointmentsByPatient handles GET /api/v1/appointments/patient/:patientId
// admin, the patient itself, or a doctor assigned to the patient
func GetAppointmentsByPatient(c *gin.Context) {
	patientID, ok := parseID(c, "patientId")
	if !ok {
		return
	}
	p := principal(c)
	if !authorize(c,
		security.Role(p, models.RoleAdmin),
		security.AllOf(
			security.Role(p, models.RolePatient),
			func() (bool, error) { return access.IsPatientOwner(patientID, p) },
		),
		security.AllOf(
			security.Role(p, models.RoleDoctor),
			func() (bool, error) { return access.IsDoctorAssignedToPatient(patientID, p) },
		),
	) {
		return
	}

	appts, err := appointmentSvc.ByPatient(patientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appts)
}

// GetAppointmentsByDoctor handles GET /api/v1/appointments/doctor/:doctorId
// admin or the doctor itself
func GetAppointmentsByDoctor(c *gin.Context) {
	doctorID, ok := parseID(c, "doctorId")
	if !ok {
		return
	}
	p := principal(c)
	if !authorize(c,
		security.Role(p, models.RoleAdmin),
		security.AllOf(
			security.Role(p, models.RoleDoctor),
			func() (bool, error) { return access.IsDoctorOwner(doctorID, p) },
		),
	) {
		return
	}

	appts, err := appointmentSvc.ByDoctor(doctorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appts)
}

// GetAppointmentsByStatus handles GET /api/v1/appointments/status/:status (admin)
func GetAppointmentsByStatus(c *gin.Context) {
	p := principal(c)
	if !authorize(c, security.Role(p, models.RoleAdmin)) {
		return
	}
	status, err := models.ParseAppointmentStatus(c.Param("status"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	appts, err := appointmentSvc.ByStatus(status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appts)
}

// GetDoctorSchedule handles GET /api/v1/appointments/doctor/:doctorId/range?start=&end=
func GetDoctorSchedule(c *gin.Context) {
	doctorID, ok := parseID(c, "doctorId")
	if !ok {
		return
	}
	p := principal(c)
	if !authorize(c,
		security.Role(p, models.RoleAdmin),
		security.AllOf(
			security.Role(p, models.RoleDoctor),
			func() (bool, error) { return access.IsDoctorOwner(doctorID, p) },
		),
	) {
		return
	}

	start, end, ok := parseRange(c)
	if !ok {
		return
	}
	appts, err := appointmentSvc.ByDoctorAndRange(doctorID, start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appts)
}

// GetPatientSchedule handles GET /api/v1/appointments/patient/:patientId/range?start=&end=
func GetPatientSchedule(c *gin.Context) {
	patientID, ok := parseID(c, "patientId")
	if !ok {
		return
	}
	p := principal(c)
	if !authorize(c,
		security.Role(p, models.RoleAdmin),
		security.AllOf(
			security.Role(p, models.RolePatient),
			func() (bool, error) { return access.IsPatientOwner(patientID, p) },
		),
	) {
		return
	}

	start, end, ok := parseRange(c)
	if !ok {
		return
	}
	appts, err := appointmentSvc.ByPatientAndRange(patientID, start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appts)
}

// CreateAppointment handles POST /api/v1/appointments (patient or admin)
func CreateAppointment(c *gin.Context) {
	p := principal(c)
	if !authorize(c, security.Role(p, models.RolePatient, models.RoleAdmin)) {
		return
	}

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	appt, err := appointmentSvc.Create(req.PatientID, req.DoctorID, services.CreateAppointmentInput{
		AppointmentDateTime: req.AppointmentDateTime,
		EndDateTime:         req.EndDateTime,
		Reason:              req.Reason,
		Notes:               req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, appt)
}

// UpdateAppointment handles PUT /api/v1/appointments/:id
// admin, or the owning patient (reschedule, cancel, annotate)
func UpdateAppointment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p := principal(c)
	if !authorize(c,
		security.Role(p, models.RoleAdmin),
		security.AllOf(
			security.Role(p, models.RolePatient),
			func() (bool, error) { return access.IsAppointmentOwner(id, p) },
		),
	) {
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	patch := services.AppointmentPatch{
		AppointmentDateTime: req.AppointmentDateTime,
		EndDateTime:         req.EndDateTime,
		Reason:              req.Reason,
		Notes:               req.Notes,
	}
	if req.Status != nil {
		status, err := models.ParseAppointmentStatus(*req.Status)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		patch.Status = &status
	}

	appt, err := appointmentSvc.Update(id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// UpdateAppointmentStatus handles PATCH /api/v1/appointments/:id/status
// doctor or admin
func UpdateAppointmentStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p := principal(c)
	if !authorize(c, security.Role(p, models.RoleDoctor, models.RoleAdmin)) {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	status, err := models.ParseAppointmentStatus(req.Status)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	appt, err := appointmentSvc.UpdateStatus(id, status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// DeleteAppointment handles DELETE /api/v1/appointments/:id (admin)
func DeleteAppointment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p := principal(c)
	if !authorize(c, security.Role(p, models.RoleAdmin)) {
		return
	}

	if err := appointmentSvc.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteCancelledAppointments handles DELETE /api/v1/appointments/cancelled (admin)
func DeleteCancelledAppointments(c *gin.Context) {
	p := principal(c)
	if !authorize(c, security.Role(p, models.RoleAdmin)) {
		return
	}

	n, err := appointmentSvc.DeleteCancelled()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

// parseRange reads optional RFC3339 start and end query parameters. Absent
// values stay zero and fail the service's range validation; malformed values
// answer 400 here so the client sees what it actually sent.
func parseRange(c *gin.Context) (start, end time.Time, ok bool) {
	if v := c.Query("start"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			badRequest(c, "Invalid start: "+v)
			return start, end, false
		}
		start = parsed
	}
	if v := c.Query("end"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			badRequest(c, "Invalid end: "+v)
			return start, end, false
		}
		end = parsed
	}
	return start, end, true
}
