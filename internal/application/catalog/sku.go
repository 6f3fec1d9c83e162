package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const skuPrefixMaxRunes = 24

// GenerateSKU deriva un SKU legible del nombre: slug en mayúsculas (máx. 24 runas) + "-" + 6 hex aleatorios.
// Un nombre sin caracteres utilizables produce el prefijo "SKU".
func GenerateSKU(name string) string {
	prefix := strings.ToUpper(slug.Make(name))
	if utf8.RuneCountInString(prefix) > skuPrefixMaxRunes {
		prefix = string([]rune(prefix)[:skuPrefixMaxRunes])
	}
	prefix = strings.Trim(prefix, "-")
	if prefix == "" {
		prefix = "SKU"
	}
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return prefix + "-" + suffix
}

// NormalizeSKU normaliza un SKU enviado por el cliente.
func NormalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}
