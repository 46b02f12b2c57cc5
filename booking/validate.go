package booking

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// bookingSchema is only consulted when schema validation is switched on. The stored
// document is still the raw payload.
type bookingSchema struct {
	Email   string   `json:"email" validate:"required,email"`
	Service string   `json:"service" validate:"omitempty,max=200"`
	Img     string   `json:"img" validate:"omitempty,url"`
	Date    string   `json:"date"`
	Price   *float64 `json:"price" validate:"omitempty,gte=0"`
	Status  string   `json:"status" validate:"omitempty,oneof=pending confirmed cancelled"`
}

// SchemaError carries a client-facing description of a rejected payload.
type SchemaError struct {
	msg string
}

func (e *SchemaError) Error() string   { return e.msg }
func (e *SchemaError) Message() string { return e.msg }
func (e *SchemaError) Status() int     { return http.StatusBadRequest }

type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{v: validator.New(validator.WithRequiredStructEnabled())}
}

// Check validates the raw JSON body of a create request.
func (v *Validator) Check(body []byte) error {
	var s bookingSchema
	if err := json.Unmarshal(body, &s); err != nil {
		return &SchemaError{msg: "invalid booking: " + err.Error()}
	}

	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &SchemaError{msg: "invalid booking"}
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return &SchemaError{msg: "invalid booking: " + strings.Join(problems, ", ")}
}
