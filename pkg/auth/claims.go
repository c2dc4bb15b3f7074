package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/Magic-Stars-CR/magicstars-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	Usuario string
	Role    enums.MemberRole
	// Tienda restricts tienda-role tokens to their own store. Mensajero
	// tokens carry the courier name instead.
	Tienda    *string
	Mensajero *string
	JTI       string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	Usuario   string           `json:"usuario"`
	Role      enums.MemberRole `json:"role"`
	Tienda    *string          `json:"tienda,omitempty"`
	Mensajero *string          `json:"mensajero,omitempty"`
	jwt.RegisteredClaims
}
