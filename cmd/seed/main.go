package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/medisched/backend/database"
	"github.com/medisched/backend/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type seedUser struct {
	username string
	email    string
	role     models.RoleName
}

var sampleDoctors = []models.Doctor{
	{FirstName: "Asha", LastName: "Menon", Email: "asha.menon@medisched.local", Specialization: ptr("Cardiology"), WorkingHoursStart: ptr("09:00"), WorkingHoursEnd: ptr("17:00")},
	{FirstName: "Rahul", LastName: "Verma", Email: "rahul.verma@medisched.local", Specialization: ptr("Dermatology"), WorkingHoursStart: ptr("10:00"), WorkingHoursEnd: ptr("18:00")},
	{FirstName: "Priya", LastName: "Nair", Email: "priya.nair@medisched.local", Specialization: ptr("Pediatrics"), WorkingHoursStart: ptr("08:00"), WorkingHoursEnd: ptr("16:00")},
}

var samplePatients = []models.Patient{
	{FirstName: "Kiran", LastName: "Rao", Email: "kiran.rao@example.com"},
	{FirstName: "Meera", LastName: "Iyer", Email: "meera.iyer@example.com"},
	{FirstName: "Arjun", LastName: "Shetty", Email: "arjun.shetty@example.com"},
}

func ptr(s string) *string { return &s }

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Connect to database
	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	fmt.Println("Starting seed...")

	// Roles first, everything else references them
	roleByName := make(map[models.RoleName]models.Role)
	for _, name := range models.AllRoleNames() {
		var role models.Role
		err := database.DB.Where("name = ?", name).First(&role).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			role = models.Role{Name: name}
			if err := database.DB.Create(&role).Error; err != nil {
				log.Fatalf("Failed to create role %s: %v", name, err)
			}
			fmt.Printf("Created role %s\n", name)
		} else if err != nil {
			log.Fatalf("Failed to query role %s: %v", name, err)
		}
		roleByName[name] = role
	}

	adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "changeme"
		log.Println("SEED_ADMIN_PASSWORD not set, using default; change it before exposing the server")
	}

	seedAccount(seedUser{username: "admin", email: "admin@medisched.local", role: models.RoleAdmin}, adminPassword, roleByName)

	totalDoctors := 0
	for i := range sampleDoctors {
		doctor := sampleDoctors[i]
		var count int64
		if err := database.DB.Model(&models.Doctor{}).Where("email = ?", doctor.Email).Count(&count).Error; err != nil {
			log.Fatalf("Failed to query doctors: %v", err)
		}
		if count > 0 {
			continue
		}

		username := fmt.Sprintf("dr.%s", doctor.LastName)
		user := seedAccount(seedUser{username: username, email: doctor.Email, role: models.RoleDoctor}, "changeme", roleByName)
		doctor.UserID = &user.ID
		if err := database.DB.Create(&doctor).Error; err != nil {
			log.Fatalf("Failed to create doctor %s: %v", doctor.Email, err)
		}
		totalDoctors++
	}

	totalPatients := 0
	for i := range samplePatients {
		patient := samplePatients[i]
		var count int64
		if err := database.DB.Model(&models.Patient{}).Where("email = ?", patient.Email).Count(&count).Error; err != nil {
			log.Fatalf("Failed to query patients: %v", err)
		}
		if count > 0 {
			continue
		}

		user := seedAccount(seedUser{username: patient.FirstName, email: patient.Email, role: models.RolePatient}, "changeme", roleByName)
		patient.UserID = &user.ID
		if err := database.DB.Create(&patient).Error; err != nil {
			log.Fatalf("Failed to create patient %s: %v", patient.Email, err)
		}
		totalPatients++
	}

	fmt.Printf("Created %d doctors and %d patients\n", totalDoctors, totalPatients)
	fmt.Println("Seeding completed.")
}

// seedAccount creates a user with one role unless the username is already
// taken, in which case the stored user is returned untouched.
func seedAccount(u seedUser, password string, roles map[models.RoleName]models.Role) *models.User {
	var existing models.User
	err := database.DB.Where("username = ?", u.username).First(&existing).Error
	if err == nil {
		return &existing
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("Failed to query user %s: %v", u.username, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := models.User{
		Username:     u.username,
		Email:        u.email,
		PasswordHash: string(hash),
		Roles:        []models.Role{roles[u.role]},
	}
	if err := database.DB.Create(&user).Error; err != nil {
		log.Fatalf("Failed to create user %s: %v", u.username, err)
	}
	fmt.Printf("Created user %s (%s)\n", u.username, u.role)
	return &user
}
