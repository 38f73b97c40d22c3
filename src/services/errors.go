package services

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrApplicantNotFound     = errors.New("postulante no encontrado")
	ErrApplicationNotFound   = errors.New("postulación no encontrada")
	ErrOfferingNotFound      = errors.New("oferta no encontrada")
	ErrOfferingClosed        = errors.New("la convocatoria no está abierta")
	ErrDuplicateApplication  = errors.New("ya existe una postulación para esta oferta")
	ErrApplicationWithdrawn  = errors.New("la postulación fue retirada")
	ErrNoApplicationsCreated = errors.New("no se pudo crear ninguna postulación")
	ErrDossierEntryNotFound  = errors.New("registro no encontrado")
	ErrCallNotFound          = errors.New("convocatoria no encontrada")
	ErrStorageFailure        = errors.New("error al guardar el archivo")
	ErrDossierRequired       = errors.New("debe completar su expediente antes de postular")
)

// ValidationError carries field-level messages for malformed input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "datos inválidos: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) merge(prefix string, other *ValidationError) {
	if other == nil {
		return
	}
	for k, v := range other.Fields {
		e.add(prefix+k, v)
	}
}

func (e *ValidationError) orNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// NewValidationError builds a single-field validation error.
func NewValidationError(field, msg string) *ValidationError {
	v := &ValidationError{}
	v.add(field, msg)
	return v
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs the struct tags and converts the result into a ValidationError.
func validateStruct(s interface{}) *ValidationError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return NewValidationError("_", err.Error())
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.add(fe.Field(), describeFieldError(fe))
	}
	return out
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es obligatorio"
	case "max":
		return fmt.Sprintf("no debe superar %s caracteres", fe.Param())
	case "min":
		return fmt.Sprintf("debe tener al menos %s", fe.Param())
	case "email":
		return "debe ser un correo válido"
	case "oneof":
		return fmt.Sprintf("debe ser uno de: %s", fe.Param())
	case "datetime":
		return "debe tener formato AAAA-MM-DD"
	case "gte", "lte":
		return "debe estar entre 1900 y 2100"
	}
	return fmt.Sprintf("no cumple la regla %s", fe.Tag())
}
