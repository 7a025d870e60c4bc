package validator

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// FieldError is one failed rule on a request payload. ValidateStruct
// returns every failure so the caller can report them all at once.
type FieldError struct {
	Field string
	Rule  string
	Param string
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	// uuid_required rejects the zero UUID that BodyParser leaves
	// behind when the field is absent from the JSON body.
	v.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		id, ok := fl.Field().Interface().(uuid.UUID)
		return ok && id != uuid.Nil
	})
	return v
}

// ValidateStruct checks the struct's validate tags and returns all
// failures, or nil when the payload is acceptable.
func ValidateStruct(data interface{}) []FieldError {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "payload", Rule: "invalid"}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field: fe.StructNamespace(),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}
