package auth

import (
	"context"

	"github.com/jhoicas/marketplace-api/internal/domain/repository"
)

// SignUpTxRunner ejecuta el registro dentro de una única transacción con repositorios atados a ella.
// Si fn devuelve error no queda ninguna fila escrita.
type SignUpTxRunner interface {
	RunSignUp(ctx context.Context, fn func(
		accounts repository.AccountRepository,
		roles repository.RoleAssignmentRepository,
		profiles repository.ProfileRepository,
		businesses repository.BusinessRepository,
	) error) error
}
