package user

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/edumatch/core"
)

var (
	roleTag  = "role"
	roleText = "role must be one of student, professor or admin"
)

// InitValidators registers the user validation tags.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(roleTag, roleValidation)
	core.RegisterCustomTranslation(validate, translator, roleTag, roleText)
}

// roleValidation checks that the field holds one of the known roles.
func roleValidation(fl validator.FieldLevel) bool {
	switch v := fl.Field().Interface().(type) {
	case Role:
		return v.Valid()
	case string:
		return Role(v).Valid()
	}
	return false
}
