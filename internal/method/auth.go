package method

import (
	"crypto/sha512"
	"encoding/hex"
	"time"
)

// Authenticator checks envelope tokens against the shared salts. The admin
// token is derived from the current UTC hour, so the expected value rolls
// over every hour; nowFn is overridable for tests.
type Authenticator struct {
	salt      string
	adminSalt string
	nowFn     func() time.Time
}

// NewAuthenticator constructs an Authenticator with the given salts.
func NewAuthenticator(salt, adminSalt string) *Authenticator {
	return &Authenticator{
		salt:      salt,
		adminSalt: adminSalt,
		nowFn:     time.Now,
	}
}

// Check reports whether the envelope's token matches the expected digest.
func (a *Authenticator) Check(req MethodRequest) bool {
	var expected string
	if req.IsAdmin() {
		expected = a.AdminToken()
	} else {
		expected = Token(req.Account, req.Login, a.salt)
	}
	return expected == req.Token
}

// AdminToken returns the token the admin principal must present this hour:
// hex(sha512(UTC now as "YYYYMMDDHH" + admin salt)).
func (a *Authenticator) AdminToken() string {
	hour := a.nowFn().UTC().Format("2006010215")
	return digest(hour + a.adminSalt)
}

// Token returns the expected token for an ordinary principal:
// hex(sha512(account + login + salt)).
func Token(account, login, salt string) string {
	return digest(account + login + salt)
}

func digest(s string) string {
	sum := sha512.Sum512([]byte(s))
	return hex.EncodeToString(sum[:])
}
