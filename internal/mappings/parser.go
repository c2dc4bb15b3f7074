package mappings

import (
	"regexp"
	"strconv"
	"strings"
)

// Token is one parsed entry of a pedido's free-text productos field.
type Token struct {
	Nombre   string
	Cantidad int
}

var quantityPattern = regexp.MustCompile(`^(.*?)\s*[xX](\d+)$`)

// ParseProductos tokenizes the productos free text. Entries are comma
// separated; an entry shaped "<name> x<digits>" carries its quantity, any
// other entry falls back to the raw name with quantity 1.
func ParseProductos(raw string) []Token {
	parts := strings.Split(raw, ",")
	tokens := make([]Token, 0, len(parts))
	for _, part := range parts {
		entry := strings.TrimSpace(part)
		if entry == "" {
			continue
		}
		if m := quantityPattern.FindStringSubmatch(entry); m != nil {
			name := strings.TrimSpace(m[1])
			qty, err := strconv.Atoi(m[2])
			if name != "" && err == nil && qty > 0 {
				tokens = append(tokens, Token{Nombre: name, Cantidad: qty})
				continue
			}
		}
		tokens = append(tokens, Token{Nombre: entry, Cantidad: 1})
	}
	return tokens
}
