package model

import "github.com/golang-jwt/jwt/v5"

// PlayerClaims is the JWT payload for a guest player token
type PlayerClaims struct {
	PlayerID string `json:"playerId"`
	Nickname string `json:"nickname"`
	jwt.RegisteredClaims
}

// GuestLoginResponse is returned when a guest token is issued
type GuestLoginResponse struct {
	PlayerID string `json:"playerId"`
	Token    string `json:"token"`
}
