package entity

import "github.com/oksasatya/go-ddd-social-accounts/pkg/helpers"

// KDFParams pins every parameter of a password derivation. A stored hash is
// only ever checked with the params it was created with.
type KDFParams struct {
	Version    string
	Iterations int
	KeyLen     int
	SaltLen    int
}

// KDFv1 is PBKDF2-HMAC-SHA512, 10000 rounds, 512-byte key, 16-byte hex salt.
var KDFv1 = KDFParams{Version: "pbkdf2-sha512-v1", Iterations: 10000, KeyLen: 512, SaltLen: 16}

// CurrentKDF is used by SetPassword.
var CurrentKDF = KDFv1

var kdfByVersion = map[string]KDFParams{
	KDFv1.Version: KDFv1,
}

func (p KDFParams) derive(password, salt string) string {
	return helpers.PBKDF2SHA512Hex(password, salt, p.Iterations, p.KeyLen)
}

// SetPassword replaces the salt and hash. A new random salt is drawn on every
// call. Empty passwords are accepted. The caller persists the record.
func (u *User) SetPassword(password string) {
	p := CurrentKDF
	u.PasswordSalt = helpers.RandomHex(p.SaltLen)
	u.PasswordHash = p.derive(password, u.PasswordSalt)
	u.PasswordKDF = p.Version
}

// PasswordIsValid recomputes the derivation with the stored salt and the
// params recorded for it. Records without a recorded version predate
// versioning and use KDFv1. Unknown versions never validate.
func (u *User) PasswordIsValid(candidate string) bool {
	version := u.PasswordKDF
	if version == "" {
		version = KDFv1.Version
	}
	p, ok := kdfByVersion[version]
	if !ok || u.PasswordHash == "" {
		return false
	}
	return helpers.EqualHex(p.derive(candidate, u.PasswordSalt), u.PasswordHash)
}
