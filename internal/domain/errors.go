package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrInvalidTransition  = errors.New("transición de estado no permitida")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrForbidden          = errors.New("acceso denegado")
)

// Categorías de error visibles para el cliente.
const (
	CategoryAuth       = "auth"
	CategoryPolicy     = "policy"
	CategoryConstraint = "constraint"
	CategoryValidation = "validation"
	CategoryNotFound   = "not_found"
	CategoryInternal   = "internal"
)

// PolicyError denegación de la capa de políticas. errors.Is(err, ErrForbidden) es true.
type PolicyError struct {
	Table     string
	Operation string
	Reason    string
}

func (e *PolicyError) Error() string {
	return fmt.Sprintf("acceso denegado: %s sobre %s: %s", e.Operation, e.Table, e.Reason)
}

// Unwrap permite errors.Is(err, ErrForbidden).
func (e *PolicyError) Unwrap() error { return ErrForbidden }

// Invalid construye un error de validación con detalle legible.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Category clasifica err en una de las categorías Category*.
func Category(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidCredentials):
		return CategoryAuth
	case errors.Is(err, ErrForbidden):
		return CategoryPolicy
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrEmailAlreadyExists), errors.Is(err, ErrConflict):
		return CategoryConstraint
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrInsufficientStock):
		return CategoryValidation
	case errors.Is(err, ErrNotFound):
		return CategoryNotFound
	default:
		return CategoryInternal
	}
}
