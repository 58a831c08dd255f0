package method

import (
	"crypto/sha512"
	"encoding/hex"
	"testing"
	"time"
)

const (
	testSalt      = "Otus"
	testAdminSalt = "42"
)

func fixedNow() time.Time {
	return time.Date(2017, time.July, 20, 15, 4, 5, 0, time.UTC)
}

func newTestAuthenticator() *Authenticator {
	auth := NewAuthenticator(testSalt, testAdminSalt)
	auth.nowFn = fixedNow
	return auth
}

func TestAuthenticatorAcceptsValidToken(t *testing.T) {
	auth := newTestAuthenticator()
	req := MethodRequest{
		Account: "horns&hoofs",
		Login:   "h&f",
		Token:   Token("horns&hoofs", "h&f", testSalt),
	}
	if !auth.Check(req) {
		t.Fatal("expected valid token to authenticate")
	}
}

func TestAuthenticatorRejectsBadTokens(t *testing.T) {
	auth := newTestAuthenticator()
	requests := []MethodRequest{
		{Account: "horns&hoofs", Login: "h&f", Token: ""},
		{Account: "horns&hoofs", Login: "h&f", Token: "sdd"},
		{Account: "horns&hoofs", Login: "admin", Token: ""},
		{Account: "horns&hoofs", Login: "admin", Token: Token("horns&hoofs", "admin", testSalt)},
		{Account: "", Login: "h&f", Token: Token("other", "h&f", testSalt)},
	}
	for i, req := range requests {
		if auth.Check(req) {
			t.Fatalf("request #%d: expected authentication to fail", i)
		}
	}
}

func TestAuthenticatorAdminTokenDependsOnHour(t *testing.T) {
	auth := newTestAuthenticator()

	sum := sha512.Sum512([]byte("2017072015" + testAdminSalt))
	expected := hex.EncodeToString(sum[:])
	if got := auth.AdminToken(); got != expected {
		t.Fatalf("expected admin token %s, got %s", expected, got)
	}

	req := MethodRequest{Login: AdminLogin, Token: expected}
	if !auth.Check(req) {
		t.Fatal("expected admin token for the current hour to authenticate")
	}

	auth.nowFn = func() time.Time { return fixedNow().Add(time.Hour) }
	if auth.Check(req) {
		t.Fatal("expected last hour's admin token to be rejected")
	}
}
