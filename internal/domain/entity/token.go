package entity

import "time"

// TokenTTL is the fixed lifetime of an issued token.
const TokenTTL = 60 * 24 * time.Hour

// TokenSigner turns the {id, username, exp} claim set into a signed token.
// The signing secret belongs to the signer and is fixed for the process.
type TokenSigner interface {
	Sign(id, username string, expiresAt time.Time) (string, error)
}

// GenerateToken issues a token for this user expiring TokenTTL after now.
func (u *User) GenerateToken(signer TokenSigner, now time.Time) (string, error) {
	return signer.Sign(u.ID, u.Username, now.Add(TokenTTL))
}
