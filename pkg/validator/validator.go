// Package validator valida las etiquetas `validate` de los DTOs de entrada.
// Los handlers lo usan antes de invocar el caso de uso; las reglas de negocio
// (stock suficiente, transiciones de estado) siguen en la capa de aplicación.
package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct devuelve un mensaje por cada regla incumplida, en formato
// legible para la respuesta 400. Nil si el DTO es válido.
func ValidateStruct(data any) []string {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, describe(fe))
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s es obligatorio", fe.Field())
	case "email":
		return fmt.Sprintf("%s debe ser un email válido", fe.Field())
	case "gt":
		return fmt.Sprintf("%s debe ser mayor que %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s debe ser mayor o igual a %s", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s no alcanza el mínimo %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s supera el máximo %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s debe ser uno de: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s no cumple la regla %s", fe.Field(), fe.Tag())
	}
}
