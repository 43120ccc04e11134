package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/medisched/backend/database"
	"github.com/medisched/backend/events"
	"github.com/medisched/backend/handlers"
	"github.com/medisched/backend/natsserver"
	"github.com/medisched/backend/security"
	"github.com/medisched/backend/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET must be set")
	}
	ttl := 60 * time.Minute
	if v := os.Getenv("JWT_EXPIRATION_MINUTES"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil || minutes <= 0 {
			log.Fatalf("invalid JWT_EXPIRATION_MINUTES: %q", v)
		}
		ttl = time.Duration(minutes) * time.Minute
	}

	// Connect to database
	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Start embedded NATS server for the appointment event bus
	natsPort := 4222
	if v := os.Getenv("NATS_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("invalid NATS_PORT: %q", v)
		}
		natsPort = p
	}
	natsServer, err := natsserver.New(natsserver.Config{
		Port:       natsPort,
		MaxPayload: 1024 * 1024,
	})
	if err != nil {
		log.Fatalf("Failed to start NATS server: %v", err)
	}
	defer natsServer.Shutdown()

	// Event publisher and WebSocket feed hub
	bus := events.NewPublisher(natsServer.Conn())
	feedHub := events.NewFeedHub(natsServer.Conn())
	go feedHub.Run()

	// Security collaborators
	tokens := security.NewTokenProvider(secret, ttl)
	resolver := security.NewResolver(database.DB)
	access := security.NewEvaluator(database.DB)

	// Services
	appointmentSvc := services.NewAppointmentService(database.DB, bus)
	patientSvc := services.NewPatientService(database.DB)
	doctorSvc := services.NewDoctorService(database.DB)
	authSvc := services.NewAuthService(database.DB, tokens)

	handlers.Init(appointmentSvc, patientSvc, doctorSvc, authSvc, tokens, resolver, access)
	handlers.SetFeedHub(feedHub)

	// Setup Gin router
	if os.Getenv("ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// CORS middleware
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(config))

	// Health check
	router.GET("/health", handlers.Health)

	// WebSocket route for the appointment feed (outside /api group)
	router.GET("/ws/appointments", handlers.AppointmentFeed)

	// Auth routes, rate limited per client IP
	authLimiter := handlers.NewRateLimiter(5, 10)
	auth := router.Group("/api/auth", authLimiter.Middleware())
	{
		auth.POST("/signup", handlers.Signup)
		auth.POST("/signin", handlers.Signin)
	}

	// Protected API routes
	api := router.Group("/api/v1", handlers.AuthMiddleware())
	{
		api.GET("/feed/stats", handlers.FeedStats)

		appointments := api.Group("/appointments")
		{
			appointments.GET("", handlers.GetAppointments)
			appointments.POST("", handlers.CreateAppointment)
			appointments.DELETE("/cancelled", handlers.DeleteCancelledAppointments)
			appointments.GET("/status/:status", handlers.GetAppointmentsByStatus)
			appointments.GET("/patient/:patientId", handlers.GetAppointmentsByPatient)
			appointments.GET("/patient/:patientId/range", handlers.GetPatientSchedule)
			appointments.GET("/doctor/:doctorId", handlers.GetAppointmentsByDoctor)
			appointments.GET("/doctor/:doctorId/range", handlers.GetDoctorSchedule)
			appointments.GET("/:id", handlers.GetAppointment)
			appointments.PUT("/:id", handlers.UpdateAppointment)
			appointments.PATCH("/:id/status", handlers.UpdateAppointmentStatus)
			appointments.DELETE("/:id", handlers.DeleteAppointment)
		}

		patients := api.Group("/patients")
		{
			patients.GET("", handlers.GetPatients)
			patients.POST("", handlers.CreatePatient)
			patients.GET("/email/:email", handlers.GetPatientByEmail)
			patients.GET("/user/:userId", handlers.GetPatientByUser)
			patients.GET("/:id", handlers.GetPatient)
			patients.PUT("/:id", handlers.UpdatePatient)
			patients.DELETE("/:id", handlers.DeletePatient)
		}

		doctors := api.Group("/doctors")
		{
			doctors.GET("", handlers.GetDoctors)
			doctors.POST("", handlers.CreateDoctor)
			doctors.GET("/email/:email", handlers.GetDoctorByEmail)
			doctors.GET("/user/:userId", handlers.GetDoctorByUser)
			doctors.GET("/specialization/:specialization", handlers.GetDoctorsBySpecialization)
			doctors.GET("/:id", handlers.GetDoctor)
			doctors.PUT("/:id", handlers.UpdateDoctor)
			doctors.DELETE("/:id", handlers.DeleteDoctor)
		}
	}

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server running on http://localhost:%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
