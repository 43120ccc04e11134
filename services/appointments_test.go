package services_test

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/medisched/backend/apperrors"
	"github.com/medisched/backend/database"
	"github.com/medisched/backend/models"
	"github.com/medisched/backend/services"
)

func setupDB(t *testing.T) {
	t.Helper()
	_ = godotenv.Load("../.env")
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set")
	}
	if database.DB == nil {
		if err := database.Connect(); err != nil {
			t.Fatalf("db: %v", err)
		}
	}
}

func createPatient(t *testing.T) *models.Patient {
	t.Helper()
	patient := &models.Patient{
		FirstName: "Test",
		LastName:  "Patient",
		Email:     fmt.Sprintf("patient-%s@test.com", uuid.New().String()[:8]),
	}
	if err := database.DB.Create(patient).Error; err != nil {
		t.Fatalf("create patient: %v", err)
	}
	return patient
}

func createDoctor(t *testing.T) *models.Doctor {
	t.Helper()
	doctor := &models.Doctor{
		FirstName: "Test",
		LastName:  "Doctor",
		Email:     fmt.Sprintf("doctor-%s@test.com", uuid.New().String()[:8]),
	}
	if err := database.DB.Create(doctor).Error; err != nil {
		t.Fatalf("create doctor: %v", err)
	}
	return doctor
}

func bookAppointment(t *testing.T, svc *services.AppointmentService, patientID, doctorID uint, hoursFromNow int) *models.Appointment {
	t.Helper()
	appt, err := svc.Create(patientID, doctorID, services.CreateAppointmentInput{
		AppointmentDateTime: time.Now().Add(time.Duration(hoursFromNow) * time.Hour),
	})
	if err != nil {
		t.Fatalf("book appointment: %v", err)
	}
	return appt
}

func TestCreateAppointment(t *testing.T) {
	setupDB(t)
	svc := services.NewAppointmentService(database.DB, nil)
	patient := createPatient(t)
	doctor := createDoctor(t)

	start := time.Now().Add(48 * time.Hour)
	end := start.Add(30 * time.Minute)
	reason := "Annual checkup"
	appt, err := svc.Create(patient.ID, doctor.ID, services.CreateAppointmentInput{
		AppointmentDateTime: start,
		EndDateTime:         &end,
		Reason:              &reason,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if appt.ID == 0 {
		t.Fatal("empty id")
	}
	if appt.Status != models.StatusScheduled {
		t.Errorf("status: got %s, want %s", appt.Status, models.StatusScheduled)
	}
	if !appt.AppointmentDateTime.Equal(start) {
		t.Errorf("start time: got %v, want %v", appt.AppointmentDateTime, start)
	}
	if appt.PatientID != patient.ID || appt.DoctorID != doctor.ID {
		t.Error("appointment not linked to the right patient/doctor")
	}
	if appt.Reason == nil || *appt.Reason != reason {
		t.Error("reason not stored")
	}
}

func TestCreateAppointmentValidation(t *testing.T) {
	setupDB(t)
	svc := services.NewAppointmentService(database.DB, nil)
	patient := createPatient(t)
	doctor := createDoctor(t)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(24 * time.Hour)
	endBeforeStart := future.Add(-time.Minute)

	tests := []struct {
		name string
		in   services.CreateAppointmentInput
	}{
		{"past date", services.CreateAppointmentInput{AppointmentDateTime: past}},
		{"zero date", services.CreateAppointmentInput{}},
		{"end before start", services.CreateAppointmentInput{AppointmentDateTime: future, EndDateTime: &endBeforeStart}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(patient.ID, doctor.ID, tt.in)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !apperrors.IsInvalidArgument(err) {
				t.Errorf("expected invalid argument, got %v", err)
			}
		})
	}
}

func TestCreateAppointmentUnknownParticipants(t *testing.T) {
	setupDB(t)
	svc := services.NewAppointmentService(database.DB, nil)
	patient := createPatient(t)
	doctor := createDoctor(t)
	in := services.CreateAppointmentInput{AppointmentDateTime: time.Now().Add(24 * time.Hour)}

	if _, err := svc.Create(99999999, doctor.ID, in); !apperrors.IsNotFound(err) {
		t.Errorf("unknown patient: expected not found, got %v", err)
	}
	if _, err := svc.Create(patient.ID, 99999999, in); !apperrors.IsNotFound(err) {
		t.Errorf("unknown doctor: expected not found, got %v", err)
	}
}

func TestUpdateAppointmentPatch(t *testing.T) {
	setupDB(t)
	svc := services.NewAppointmentService(database.DB, nil)
	patient := createPatient(t)
	doctor := createDoctor(t)
	appt := bookAppointment(t, svc, patient.ID, doctor.ID, 72)

	// a notes-only patch must leave everything else untouched
	notes := "bring previous reports"
	updated, err := svc.Update(appt.ID, services.AppointmentPatch{Notes: &notes})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Notes == nil || *updated.Notes != notes {
		t.Error("notes not applied")
	}
	if !updated.AppointmentDateTime.Equal(appt.AppointmentDateTime) {
		t.Error("date changed by a notes-only patch")
	}
	if updated.Status != appt.Status {
		t.Error("status changed by a notes-only patch")
	}
}

func TestUpdateAppointmentPastDateRejected(t *testing.T) {
	setupDB(t)
	svc := services.NewAppointmentService(database.DB, nil)
	patient := createPatient(t)
	doctor := createDoctor(t)
	appt := bookAppointment(t, svc, patient.ID, doctor.ID, 72)

	past := time.Now().Add(-time.Hour)
	_, err := svc.Update(appt.ID, services.AppointmentPatch{AppointmentDateTime: &past})
	if !apperrors.IsInvalidArgument(err) {
		t.Errorf("expected invalid argument for past reschedule, got %v", err)
	}
}

func TestUpdateStatusOverwrites(t *testing.T) {
	setupDB(t)
	svc := services.NewAppointmentService(database.DB, nil)
	patient := createPatient(t)
	doctor := createDoctor(t)
	appt := bookAppointment(t, svc, patient.ID, doctor.ID, 72)

	// any status may follow any other status
	for _, status := range []models.AppointmentStatus{
		models.StatusCompleted,
		models.StatusConfirmed,
		models.StatusNoShow,
		models.StatusCancelled,
	} {
		updated, err := svc.UpdateStatus(appt.ID, status)
		if err != nil {
			t.Fatalf("status -> %s: %v", status, err)
		}
		if updated.Status != status {
			t.Errorf("status: got %s, want %s", updated.Status, status)
		}
	}
}

func TestRangeQueries(t *testing.T) {
	setupDB(t)
	svc := services.NewAppointmentService(database.DB, nil)
	patient := createPatient(t)
	doctor := createDoctor(t)
	bookAppointment(t, svc, patient.ID, doctor.ID, 24)
	bookAppointment(t, svc, patient.ID, doctor.ID, 48)
	bookAppointment(t, svc, patient.ID, doctor.ID, 24*30)

	start := time.Now()
	end := start.Add(72 * time.Hour)
	appts, err := svc.ByDoctorAndRange(doctor.ID, start, end)
	if err != nil {
		t.Fatalf("range query: %v", err)
	}
	if len(appts) != 2 {
		t.Errorf("expected 2 appointments in range, got %d", len(appts))
	}
	for i := 1; i < len(appts); i++ {
		if appts[i].AppointmentDateTime.Before(appts[i-1].AppointmentDateTime) {
			t.Error("results not ordered by start time")
		}
	}
}

func TestRangeValidation(t *testing.T) {
	setupDB(t)
	svc := services.NewAppointmentService(database.DB, nil)
	doctor := createDoctor(t)

	now := time.Now()
	var zero time.Time

	if _, err := svc.ByDoctorAndRange(doctor.ID, zero, now); !apperrors.IsInvalidArgument(err) {
		t.Errorf("zero start: expected invalid argument, got %v", err)
	}
	if _, err := svc.ByDoctorAndRange(doctor.ID, now, zero); !apperrors.IsInvalidArgument(err) {
		t.Errorf("zero end: expected invalid argument, got %v", err)
	}
	if _, err := svc.ByDoctorAndRange(doctor.ID, now.Add(time.Hour), now); !apperrors.IsInvalidArgument(err) {
		t.Errorf("inverted range: expected invalid argument, got %v", err)
	}
}

func TestDeleteAppointment(t *testing.T) {
	setupDB(t)
	svc := services.NewAppointmentService(database.DB, nil)
	patient := createPatient(t)
	doctor := createDoctor(t)
	appt := bookAppointment(t, svc, patient.ID, doctor.ID, 24)

	if err := svc.Delete(appt.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.ByID(appt.ID); !apperrors.IsNotFound(err) {
		t.Errorf("expected not found after delete, got %v", err)
	}
	if err := svc.Delete(appt.ID); !apperrors.IsNotFound(err) {
		t.Errorf("double delete: expected not found, got %v", err)
	}
}

func TestDeleteCancelled(t *testing.T) {
	setupDB(t)
	svc := services.NewAppointmentService(database.DB, nil)
	patient := createPatient(t)
	doctor := createDoctor(t)

	kept := bookAppointment(t, svc, patient.ID, doctor.ID, 24)
	doomed := bookAppointment(t, svc, patient.ID, doctor.ID, 48)
	if _, err := svc.UpdateStatus(doomed.ID, models.StatusCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	deleted, err := svc.DeleteCancelled()
	if err != nil {
		t.Fatalf("delete cancelled: %v", err)
	}
	if deleted < 1 {
		t.Errorf("expected at least 1 deletion, got %d", deleted)
	}
	if _, err := svc.ByID(doomed.ID); !apperrors.IsNotFound(err) {
		t.Error("cancelled appointment survived the purge")
	}
	if _, err := svc.ByID(kept.ID); err != nil {
		t.Errorf("scheduled appointment should survive the purge: %v", err)
	}
}
