package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/url"
	"sort"
	"strings"
	"sync"

	"tireshop/internal/repos"
)

// AdminGate keeps the admin set in memory for fast checks and writes
// through to the store on registration. The set is loaded once at
// process start; a restart re-reads it.
type AdminGate struct {
	mu     sync.RWMutex
	ids    map[int64]string
	Admins *repos.AdminRepo

	// bot token, used to verify Telegram WebApp initData
	token string
}

func NewAdminGate(admins *repos.AdminRepo, botToken string) *AdminGate {
	return &AdminGate{ids: make(map[int64]string), Admins: admins, token: botToken}
}

func (g *AdminGate) Load() error {
	rows, err := g.Admins.List()
	if err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ids = make(map[int64]string, len(rows))
	for _, a := range rows {
		g.ids[a.UserID] = a.Username
	}
	return nil
}

func (g *AdminGate) IsAdmin(userID int64) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.ids[userID]
	return ok
}

// Register grants admin rights to the caller (self-service, first command
// wins) and persists them. Idempotent: re-registering refreshes the
// username both in memory and in the store.
func (g *AdminGate) Register(userID int64, username string) error {
	if err := g.Admins.Upsert(userID, username); err != nil {
		return err
	}
	g.mu.Lock()
	g.ids[userID] = username
	g.mu.Unlock()
	return nil
}

// VerifyInitData checks a Telegram WebApp initData string and returns the
// embedded user id. The check string is the hash-less pairs sorted and
// joined with newlines, signed with SHA256(bot_token).
func (g *AdminGate) VerifyInitData(initData string) (int64, bool) {
	if initData == "" || g.token == "" {
		return 0, false
	}

	pairs := map[string]string{}
	for _, pair := range strings.Split(initData, "&") {
		k, v, ok := strings.Cut(pair, "=")
		if ok {
			pairs[k] = v
		}
	}
	received, ok := pairs["hash"]
	if !ok {
		return 0, false
	}
	delete(pairs, "hash")

	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+pairs[k])
	}

	secret := sha256.Sum256([]byte(g.token))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(strings.Join(lines, "\n")))
	computed := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(computed), []byte(received)) {
		return 0, false
	}

	rawUser, err := url.QueryUnescape(pairs["user"])
	if err != nil {
		return 0, false
	}
	var u struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal([]byte(rawUser), &u); err != nil || u.ID == 0 {
		return 0, false
	}
	return u.ID, true
}
