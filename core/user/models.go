package user

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/edumatch/core"
)

// Role is the closed set of EduMatch roles.
type Role string

const (
	RoleStudent   Role = "student"
	RoleProfessor Role = "professor"
	RoleAdmin     Role = "admin"
)

var Roles = []Role{RoleStudent, RoleProfessor, RoleAdmin}

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleProfessor, RoleAdmin:
		return true
	default:
		return false
	}
}

// Label is the display name of the role.
func (r Role) Label() string {
	switch r {
	case RoleStudent:
		return "Student"
	case RoleProfessor:
		return "Professor"
	case RoleAdmin:
		return "Admin"
	default:
		return string(r)
	}
}

// ParseRole accepts any casing of a role value.
func ParseRole(s string) (Role, error) {
	r := Role(core.CleanString(s, true /* lower */))
	if !r.Valid() {
		return "", errors.Errorf("invalid role %q", s)
	}
	return r, nil
}

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	Name         string    `json:"name"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsStudent() bool   { return u.Role == RoleStudent }
func (u *User) IsProfessor() bool { return u.Role == RoleProfessor }
func (u *User) IsAdmin() bool     { return u.Role == RoleAdmin }

// HasRole reports whether the user's role is one of roles.
func (u *User) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// NewUser contains information needed to register a new User.
type NewUser struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     Role   `json:"role" validate:"required,role"`
	Name     string `json:"name" validate:"required,notblank"`
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Name = core.CleanString(nu.Name)
	nu.Role = Role(core.CleanString(string(nu.Role), true /* lower */))
	return validate.Struct(nu)
}

// Credentials are the login inputs.
type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password"`
}

func (c *Credentials) Validate(validate *validator.Validate) error {
	c.Email = core.CleanString(c.Email, true /* lower */)
	return validate.Struct(c)
}
