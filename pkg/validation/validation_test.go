package validation_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/marketplace-api/pkg/validation"
)

type sample struct {
	Email    string          `json:"email" validate:"required,email"`
	Role     string          `json:"role" validate:"required,oneof=supplier vendor"`
	Price    decimal.Decimal `json:"price" validate:"gte=0"`
	Quantity int             `json:"quantity" validate:"gt=0"`
}

func TestStruct_Valido(t *testing.T) {
	v := validation.New()
	err := v.Struct(sample{Email: "a@b.co", Role: "vendor", Price: decimal.NewFromInt(10), Quantity: 1})
	assert.NoError(t, err)
}

func TestStruct_MensajesUsanNombreJSON(t *testing.T) {
	v := validation.New()
	err := v.Struct(sample{Email: "no-es-email", Role: "superadmin", Price: decimal.NewFromInt(-1), Quantity: 0})
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "email debe ser un email válido")
	assert.Contains(t, msg, "role debe ser uno de: supplier vendor")
	assert.Contains(t, msg, "price debe ser mayor o igual a 0")
	assert.Contains(t, msg, "quantity debe ser mayor que 0")
}
