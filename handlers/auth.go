package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/medisched/backend/security"
	"github.com/medisched/backend/services"
)

const principalKey = "principal"

type SignupRequest struct {
	Username string   `json:"username" binding:"required,min=3,max=50"`
	Email    string   `json:"email" binding:"required,email,max=100"`
	Password string   `json:"password" binding:"required,min=6,max=100"`
	Role     []string `json:"role"`
}

type SigninRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SigninResponse struct {
	Token    string   `json:"token"`
	Type     string   `json:"type"`
	UserID   uint     `json:"userId"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// Signup handles POST /api/auth/signup
func Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if _, err := authSvc.Signup(services.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Roles:    req.Role,
	}); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User registered successfully", "status": "SUCCESS"})
}

// Signin handles POST /api/auth/signin
func Signin(c *gin.Context) {
	var req SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	token, principal, err := authSvc.Signin(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrBadCredentials) {
			unauthorized(c, "Invalid username or password")
			return
		}
		respondError(c, err)
		return
	}

	roles := make([]string, 0, len(principal.Authorities))
	for _, a := range principal.Authorities {
		roles = append(roles, string(a))
	}
	c.JSON(http.StatusOK, SigninResponse{
		Token:    token,
		Type:     "Bearer",
		UserID:   principal.UserID,
		Username: principal.Username,
		Roles:    roles,
	})
}

// AuthMiddleware validates the bearer token and resolves the principal for
// downstream authorization checks. Every failure path answers the 401
// contract body.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "Authorization header required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			unauthorized(c, "Invalid authorization header format")
			return
		}

		raw := parts[1]
		if !tokens.Validate(raw) {
			unauthorized(c, "Invalid or expired token")
			return
		}

		username, ok := tokens.Subject(raw)
		if !ok {
			unauthorized(c, "Invalid or expired token")
			return
		}

		principal, err := resolver.LoadByUsername(username)
		if err != nil {
			unauthorized(c, "Unknown token subject")
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// principal returns the authenticated principal set by AuthMiddleware.
func principal(c *gin.Context) *security.Principal {
	return c.MustGet(principalKey).(*security.Principal)
}
