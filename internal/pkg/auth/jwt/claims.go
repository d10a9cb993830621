package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the claims carried by a control API operator token.
type Payload struct {
	// StandardClaims embeds Exp, Iat, Iss and Sub. Sub holds the operator name.
	jwt.StandardClaims

	// Channel restricts the token to one Twitch channel. Empty means any channel.
	Channel string `json:"channel,omitempty"`

	// Role is the operator role. Only RoleOperator may drive avatars.
	Role string `json:"role"`
}

// RoleOperator is the only role accepted by the control API.
const RoleOperator = "operator"
