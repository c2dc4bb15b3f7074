package mappings

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// accentFold decomposes characters and drops the combining marks, so
// "Proteína" and "Proteina" normalize to the same key.
var accentFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lower-cases, accent-strips and whitespace-collapses a product
// name. All mapping and inventory lookups go through this.
func Normalize(name string) string {
	folded, _, err := transform.String(accentFold, name)
	if err != nil {
		folded = name
	}
	folded = strings.ToLower(folded)
	return strings.Join(strings.Fields(folded), " ")
}
