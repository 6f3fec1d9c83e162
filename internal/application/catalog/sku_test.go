package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSKU(t *testing.T) {
	sku := GenerateSKU("Aceite de Oliva Extra Virgen Premium 500ml")
	prefix, suffix, ok := strings.Cut(sku[len(sku)-7:], "-")
	assert.True(t, ok)
	assert.Empty(t, prefix)
	assert.Len(t, suffix, 6)
	assert.LessOrEqual(t, len([]rune(sku)), skuPrefixMaxRunes+7)
	assert.True(t, strings.HasPrefix(sku, "ACEITE-DE-OLIVA"))
	assert.Equal(t, strings.ToUpper(sku), sku)
}

func TestGenerateSKU_NombreSinCaracteresUtiles(t *testing.T) {
	assert.True(t, strings.HasPrefix(GenerateSKU("!!!"), "SKU-"))
	assert.NotEqual(t, GenerateSKU("x"), GenerateSKU("x"))
}

func TestNormalizeSKU(t *testing.T) {
	assert.Equal(t, "AB-12", NormalizeSKU("  ab-12 "))
}
