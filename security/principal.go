package security

import (
	"errors"

	"github.com/medisched/backend/apperrors"
	"github.com/medisched/backend/models"
	"gorm.io/gorm"
)

// Principal is a point-in-time snapshot of an authenticated user and the
// authorities it held at resolution time, not a live handle onto the user
// record.
type Principal struct {
	UserID      uint              `json:"userId"`
	Username    string            `json:"username"`
	Authorities []models.RoleName `json:"authorities"`
}

// HasRole reports whether the principal carries the given authority. A
// principal with zero roles is legal and simply passes no role-gated check.
func (p *Principal) HasRole(name models.RoleName) bool {
	for _, a := range p.Authorities {
		if a == name {
			return true
		}
	}
	return false
}

func (p *Principal) HasAnyRole(names ...models.RoleName) bool {
	for _, n := range names {
		if p.HasRole(n) {
			return true
		}
	}
	return false
}

// Equal compares principals by user id only; the role set is a snapshot and
// does not participate in identity.
func (p *Principal) Equal(other *Principal) bool {
	return other != nil && p.UserID == other.UserID
}

func newPrincipal(u *models.User) *Principal {
	auth := make([]models.RoleName, 0, len(u.Roles))
	for _, r := range u.Roles {
		auth = append(auth, r.Name)
	}
	return &Principal{UserID: u.ID, Username: u.Username, Authorities: auth}
}

// Resolver loads stored users and maps them to principals.
type Resolver struct {
	db *gorm.DB
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// LoadByUsername resolves a principal by username, case-insensitively.
func (r *Resolver) LoadByUsername(username string) (*Principal, error) {
	var user models.User
	err := r.db.Preload("Roles").Where("LOWER(username) = LOWER(?)", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFoundMsg("User not found with username: %s", username)
	}
	if err != nil {
		return nil, err
	}
	return newPrincipal(&user), nil
}

// LoadByID resolves a principal by user id.
func (r *Resolver) LoadByID(id uint) (*Principal, error) {
	var user models.User
	err := r.db.Preload("Roles").First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("User", id)
	}
	if err != nil {
		return nil, err
	}
	return newPrincipal(&user), nil
}
