package services_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/medisched/backend/apperrors"
	"github.com/medisched/backend/database"
	"github.com/medisched/backend/models"
	"github.com/medisched/backend/security"
	"github.com/medisched/backend/services"
)

func setupAuth(t *testing.T) *services.AuthService {
	t.Helper()
	setupDB(t)
	ensureRoles(t)
	tokens := security.NewTokenProvider("test-secret-that-is-long-enough!!", time.Hour)
	return services.NewAuthService(database.DB, tokens)
}

func ensureRoles(t *testing.T) {
	t.Helper()
	for _, name := range models.AllRoleNames() {
		var role models.Role
		if err := database.DB.FirstOrCreate(&role, models.Role{Name: name}).Error; err != nil {
			t.Fatalf("ensure role %s: %v", name, err)
		}
	}
}

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.New().String()[:8])
}

func TestSignupDefaultsToPatient(t *testing.T) {
	svc := setupAuth(t)

	username := uniqueName("user")
	user, err := svc.Signup(services.SignupInput{
		Username: username,
		Email:    username + "@test.com",
		Password: "testpass123",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if len(user.Roles) != 1 || user.Roles[0].Name != models.RolePatient {
		t.Errorf("expected default PATIENT role, got %v", user.Roles)
	}
	if user.PasswordHash == "testpass123" {
		t.Fatal("password stored in plaintext")
	}
}

func TestSignupWithRoles(t *testing.T) {
	svc := setupAuth(t)

	username := uniqueName("doc")
	user, err := svc.Signup(services.SignupInput{
		Username: username,
		Email:    username + "@test.com",
		Password: "testpass123",
		Roles:    []string{"doctor", "admin"},
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if len(user.Roles) != 2 {
		t.Fatalf("expected 2 roles, got %d", len(user.Roles))
	}
}

func TestSignupInvalidRole(t *testing.T) {
	svc := setupAuth(t)

	username := uniqueName("user")
	_, err := svc.Signup(services.SignupInput{
		Username: username,
		Email:    username + "@test.com",
		Password: "testpass123",
		Roles:    []string{"nurse"},
	})
	if !apperrors.IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument for unknown role, got %v", err)
	}
}

func TestSignupDuplicates(t *testing.T) {
	svc := setupAuth(t)

	username := uniqueName("user")
	email := username + "@test.com"
	if _, err := svc.Signup(services.SignupInput{Username: username, Email: email, Password: "testpass123"}); err != nil {
		t.Fatalf("first signup: %v", err)
	}

	_, err := svc.Signup(services.SignupInput{Username: username, Email: uniqueName("x") + "@test.com", Password: "testpass123"})
	if !apperrors.IsInvalidArgument(err) {
		t.Errorf("duplicate username: expected invalid argument, got %v", err)
	}

	_, err = svc.Signup(services.SignupInput{Username: uniqueName("other"), Email: email, Password: "testpass123"})
	if !apperrors.IsInvalidArgument(err) {
		t.Errorf("duplicate email: expected invalid argument, got %v", err)
	}
}

func TestSigninSuccess(t *testing.T) {
	svc := setupAuth(t)

	username := uniqueName("user")
	if _, err := svc.Signup(services.SignupInput{Username: username, Email: username + "@test.com", Password: "testpass123"}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	token, principal, err := svc.Signin(username, "testpass123")
	if err != nil {
		t.Fatalf("signin: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}
	if principal.Username != username {
		t.Errorf("principal username: got %s", principal.Username)
	}
	if !principal.HasRole(models.RolePatient) {
		t.Error("principal missing default role")
	}
}

func TestSigninCaseInsensitiveUsername(t *testing.T) {
	svc := setupAuth(t)

	username := uniqueName("MixedCase")
	if _, err := svc.Signup(services.SignupInput{Username: username, Email: username + "@test.com", Password: "testpass123"}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	_, principal, err := svc.Signin(strings.ToLower(username), "testpass123")
	if err != nil {
		t.Fatalf("signin with lowercased username: %v", err)
	}
	// the stored casing wins in the issued principal
	if principal.Username != username {
		t.Errorf("principal username: got %s, want %s", principal.Username, username)
	}
}

func TestSigninBadCredentials(t *testing.T) {
	svc := setupAuth(t)

	username := uniqueName("user")
	if _, err := svc.Signup(services.SignupInput{Username: username, Email: username + "@test.com", Password: "testpass123"}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	if _, _, err := svc.Signin(username, "wrongpassword"); err != services.ErrBadCredentials {
		t.Errorf("wrong password: expected ErrBadCredentials, got %v", err)
	}
	if _, _, err := svc.Signin(uniqueName("nobody"), "testpass123"); err != services.ErrBadCredentials {
		t.Errorf("unknown user: expected ErrBadCredentials, got %v", err)
	}
}
