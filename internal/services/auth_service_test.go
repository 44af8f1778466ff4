package services_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"testing"

	"tireshop/internal/repos"
	"tireshop/internal/services"
)

const testToken = "12345:TEST"

func newGate(t *testing.T) *services.AdminGate {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	gate := services.NewAdminGate(repos.NewAdminRepo(db), testToken)
	if err := gate.Load(); err != nil {
		t.Fatal(err)
	}
	return gate
}

func TestRegisterIsSelfServiceAndIdempotent(t *testing.T) {
	gate := newGate(t)

	if gate.IsAdmin(500) {
		t.Fatal("fresh gate should have no admins")
	}
	if err := gate.Register(500, "first"); err != nil {
		t.Fatal(err)
	}
	if !gate.IsAdmin(500) {
		t.Fatal("registration did not take effect in memory")
	}
	if err := gate.Register(500, "second"); err != nil {
		t.Fatal(err)
	}

	admins, err := gate.Admins.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(admins) != 1 || admins[0].Username != "second" {
		t.Fatalf("want one row with last username, got %+v", admins)
	}
}

func TestGateSurvivesRestart(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	adminRepo := repos.NewAdminRepo(db)

	gate := services.NewAdminGate(adminRepo, testToken)
	if err := gate.Load(); err != nil {
		t.Fatal(err)
	}
	if err := gate.Register(9, "boss"); err != nil {
		t.Fatal(err)
	}

	// a second gate over the same store simulates a process restart
	gate2 := services.NewAdminGate(adminRepo, testToken)
	if err := gate2.Load(); err != nil {
		t.Fatal(err)
	}
	if !gate2.IsAdmin(9) {
		t.Fatal("admin set not reloaded from store")
	}
}

// signInitData builds a valid initData string the way Telegram does.
func signInitData(t *testing.T, token string, userID int64) string {
	t.Helper()
	pairs := map[string]string{
		"user":      url.QueryEscape(`{"id":` + strconv.FormatInt(userID, 10) + `,"first_name":"T"}`),
		"auth_date": "1700000000",
		"query_id":  "AAE",
	}
	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+pairs[k])
	}
	secret := sha256.Sum256([]byte(token))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(strings.Join(lines, "\n")))
	hash := hex.EncodeToString(mac.Sum(nil))

	parts := make([]string, 0, len(pairs)+1)
	for k, v := range pairs {
		parts = append(parts, k+"="+v)
	}
	parts = append(parts, "hash="+hash)
	return strings.Join(parts, "&")
}

func TestVerifyInitData(t *testing.T) {
	gate := newGate(t)

	id, ok := gate.VerifyInitData(signInitData(t, testToken, 4242))
	if !ok || id != 4242 {
		t.Fatalf("valid initData rejected: id=%d ok=%v", id, ok)
	}

	if _, ok := gate.VerifyInitData(""); ok {
		t.Fatal("empty initData accepted")
	}
	if _, ok := gate.VerifyInitData(signInitData(t, "other:TOKEN", 4242)); ok {
		t.Fatal("initData signed with a different token accepted")
	}

	tampered := strings.Replace(signInitData(t, testToken, 4242), "auth_date=1700000000", "auth_date=1700000001", 1)
	if _, ok := gate.VerifyInitData(tampered); ok {
		t.Fatal("tampered initData accepted")
	}
}
