package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/medisched/backend/database"
	"github.com/medisched/backend/services"
)

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

	fmt.Println("Start cleanup...")

	// Events are irrelevant for a batch purge, run without a bus
	svc := services.NewAppointmentService(database.DB, nil)
	deleted, err := svc.DeleteCancelled()
	if err != nil {
		log.Fatalf("Failed to delete cancelled appointments: %v", err)
	}

	fmt.Printf("Deleted %d cancelled appointments\n", deleted)
	fmt.Println("Cleanup finished successfully")
}
