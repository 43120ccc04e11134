package services

import (
	"errors"

	"github.com/medisched/backend/apperrors"
	"github.com/medisched/backend/models"
	"github.com/medisched/backend/security"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrBadCredentials is returned on signin with an unknown username or a
// wrong password; callers map it to 401 without leaking which half failed.
var ErrBadCredentials = errors.New("Invalid username or password")

// AuthService handles signup and signin against the user store.
type AuthService struct {
	db     *gorm.DB
	tokens *security.TokenProvider
}

func NewAuthService(db *gorm.DB, tokens *security.TokenProvider) *AuthService {
	return &AuthService{db: db, tokens: tokens}
}

// SignupInput carries a registration request. Roles are short names
// ("patient", "doctor", "admin"); empty means the default PATIENT role.
type SignupInput struct {
	Username string
	Email    string
	Password string
	Roles    []string
}

// Signup registers a new user. Username and email must be unused; every
// requested role must parse and exist as a stored role record.
func (s *AuthService) Signup(in SignupInput) (*models.User, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Where("username = ?", in.Username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperrors.InvalidArgument("Username is already taken")
	}
	if err := s.db.Model(&models.User{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperrors.InvalidArgument("Email is already in use")
	}

	names := make([]models.RoleName, 0, len(in.Roles))
	if len(in.Roles) == 0 {
		names = append(names, models.RolePatient)
	} else {
		for _, r := range in.Roles {
			name, err := models.ParseRoleName(r)
			if err != nil {
				return nil, apperrors.InvalidArgument("%s", err.Error())
			}
			names = append(names, name)
		}
	}

	roles := make([]models.Role, 0, len(names))
	for _, name := range names {
		var role models.Role
		err := s.db.Where("name = ?", name).First(&role).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundMsg("Role not found: %s", name)
		}
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Roles:        roles,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Signin checks the credentials and issues a bearer token plus the
// resolved principal.
func (s *AuthService) Signin(username, password string) (string, *security.Principal, error) {
	var user models.User
	err := s.db.Preload("Roles").Where("LOWER(username) = LOWER(?)", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, ErrBadCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrBadCredentials
	}

	token, err := s.tokens.Generate(user.Username)
	if err != nil {
		return "", nil, err
	}

	auth := make([]models.RoleName, 0, len(user.Roles))
	for _, r := range user.Roles {
		auth = append(auth, r.Name)
	}
	return token, &security.Principal{UserID: user.ID, Username: user.Username, Authorities: auth}, nil
}
