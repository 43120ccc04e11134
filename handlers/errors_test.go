package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/medisched/backend/apperrors"
	"github.com/medisched/backend/models"
	"github.com/medisched/backend/security"
)

func principalMiddleware(p *security.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(principalKey, p)
	}
}

func adminPrincipal() *security.Principal {
	return &security.Principal{
		UserID:      1,
		Username:    "root",
		Authorities: []models.RoleName{models.RoleAdmin},
	}
}

func TestAuthMiddlewareUnauthorizedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens = security.NewTokenProvider("test-secret-that-is-long-enough!!", time.Hour)

	router := gin.New()
	router.GET("/protected", AuthMiddleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"garbage token", "Bearer not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status: got %d, want 401", rec.Code)
			}
			var body map[string]any
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body["status"] != float64(http.StatusUnauthorized) {
				t.Errorf("status field: got %v, want 401", body["status"])
			}
			if body["error"] != "Unauthorized" {
				t.Errorf("error field: got %v, want Unauthorized", body["error"])
			}
			if msg, _ := body["message"].(string); msg == "" {
				t.Error("message field missing or empty")
			}
			if body["path"] != "/protected" {
				t.Errorf("path field: got %v, want /protected", body["path"])
			}
			if body["timestamp"] == nil {
				t.Error("timestamp field missing")
			}
		})
	}
}

func TestErrorResponderMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"not found", apperrors.NotFound("Appointment", 7), http.StatusNotFound, "Appointment not found with ID: 7"},
		{"invalid argument", apperrors.InvalidArgument("Appointment date must be in the future"), http.StatusBadRequest, "Appointment date must be in the future"},
		{"integrity", apperrors.Integrity("Doctor not found for user ID: %d", 3), http.StatusBadRequest, "Doctor not found for user ID: 3"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "An unexpected error occurred: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/boom", func(c *gin.Context) { respondError(c, tt.err) })

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status: got %d, want %d", rec.Code, tt.wantStatus)
			}
			var body errorDetails
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Status != tt.wantStatus {
				t.Errorf("status field: got %d, want %d", body.Status, tt.wantStatus)
			}
			if body.Message != tt.wantMsg {
				t.Errorf("message: got %q, want %q", body.Message, tt.wantMsg)
			}
			if body.Details != "uri=/boom" {
				t.Errorf("details: got %q, want uri=/boom", body.Details)
			}
			if body.Timestamp.IsZero() {
				t.Error("timestamp field missing")
			}
		})
	}
}

func TestRoleDenialAnswersForbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)

	patient := &security.Principal{
		UserID:      2,
		Username:    "pat",
		Authorities: []models.RoleName{models.RolePatient},
	}
	router := gin.New()
	router.Use(principalMiddleware(patient))
	// admin-only route, the guard must stop the request before the service
	router.GET("/appointments", GetAppointments)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/appointments", nil))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status: got %d, want 403", rec.Code)
	}
	var body errorDetails
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Message != "Access denied" {
		t.Errorf("message: got %q, want Access denied", body.Message)
	}
	if body.Status != http.StatusForbidden {
		t.Errorf("status field: got %d, want 403", body.Status)
	}
}

func TestMalformedRangeRejected(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(principalMiddleware(adminPrincipal()))
	router.GET("/appointments/doctor/:doctorId/range", GetDoctorSchedule)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/appointments/doctor/1/range?start=yesterday&end=2030-01-02T15:04:05Z", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}
	var body errorDetails
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Message != "Invalid start: yesterday" {
		t.Errorf("message: got %q, want Invalid start: yesterday", body.Message)
	}
}
