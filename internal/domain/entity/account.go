package entity

import "time"

// Account identidad emitida por el subsistema de autenticación.
// El ID es inmutable durante toda la vida de la cuenta.
type Account struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity es el llamador autenticado de una operación. Se pasa explícitamente a cada caso de uso.
// Una Identity vacía representa un llamador anónimo.
type Identity struct {
	AccountID string
	Email     string
}

// Anonymous informa si la identidad no corresponde a ninguna cuenta.
func (i Identity) Anonymous() bool { return i.AccountID == "" }
