package mappings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseProductosQuantityPattern(t *testing.T) {
	tokens := ParseProductos("Vitamina C x2, Omega 3 x1")
	assert.Equal(t, []Token{
		{Nombre: "Vitamina C", Cantidad: 2},
		{Nombre: "Omega 3", Cantidad: 1},
	}, tokens)
}

func TestParseProductosFallsBackToRawNames(t *testing.T) {
	tokens := ParseProductos("Creatina, Proteína Whey")
	assert.Equal(t, []Token{
		{Nombre: "Creatina", Cantidad: 1},
		{Nombre: "Proteína Whey", Cantidad: 1},
	}, tokens)
}

func TestParseProductosMixedEntries(t *testing.T) {
	tokens := ParseProductos("Creatina x3, Magnesio, , Colágeno x2")
	assert.Equal(t, []Token{
		{Nombre: "Creatina", Cantidad: 3},
		{Nombre: "Magnesio", Cantidad: 1},
		{Nombre: "Colágeno", Cantidad: 2},
	}, tokens)
}

func TestParseProductosUppercaseXAndZeroQuantity(t *testing.T) {
	tokens := ParseProductos("Creatina X4")
	assert.Equal(t, []Token{{Nombre: "Creatina", Cantidad: 4}}, tokens)

	// A zero quantity is not a valid multiplier; the entry stays raw.
	tokens = ParseProductos("Creatina x0")
	assert.Equal(t, []Token{{Nombre: "Creatina x0", Cantidad: 1}}, tokens)
}

func TestParseProductosEmpty(t *testing.T) {
	assert.Empty(t, ParseProductos(""))
	assert.Empty(t, ParseProductos(" , , "))
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"Proteína Whey":     "proteina whey",
		"  VITAMINA   C  ":  "vitamina c",
		"Colágeno+Magnesio": "colageno+magnesio",
		"Ñame":              "name",
		"":                  "",
	}
	for input, want := range cases {
		assert.Equal(t, want, Normalize(input), "input %q", input)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	once := Normalize("Proteína  Whey")
	assert.Equal(t, once, Normalize(once))
}
