package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/medisched/backend/events"
	"github.com/medisched/backend/security"
	"github.com/medisched/backend/services"
)

// package-level collaborators, wired once from main
var (
	appointmentSvc *services.AppointmentService
	patientSvc     *services.PatientService
	doctorSvc      *services.DoctorService
	authSvc        *services.AuthService
	tokens         *security.TokenProvider
	resolver       *security.Resolver
	access         *security.Evaluator
	feedHub        *events.FeedHub
)

// Init wires the handler package with its services and security
// collaborators.
func Init(
	appointments *services.AppointmentService,
	patients *services.PatientService,
	doctors *services.DoctorService,
	auth *services.AuthService,
	tp *security.TokenProvider,
	res *security.Resolver,
	eval *security.Evaluator,
) {
	appointmentSvc = appointments
	patientSvc = patients
	doctorSvc = doctors
	authSvc = auth
	tokens = tp
	resolver = res
	access = eval
}

// SetFeedHub attaches the WebSocket feed hub.
func SetFeedHub(h *events.FeedHub) {
	feedHub = h
}

// parseID reads a numeric path parameter; a bad value answers 400 and
// reports false.
func parseID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		badRequest(c, "Invalid "+name+": "+raw)
		return 0, false
	}
	return uint(id), true
}

// authorize evaluates the route's authorization expression. Predicates run
// left-to-right with short-circuit; a false outcome answers 403 and an
// integrity error is surfaced through the standard error responder. The
// caller proceeds only on true.
func authorize(c *gin.Context, preds ...security.Predicate) bool {
	ok, err := security.AnyOf(preds...)
	if err != nil {
		respondError(c, err)
		c.Abort()
		return false
	}
	if !ok {
		forbidden(c)
		return false
	}
	return true
}

// Health answers the liveness probe.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
