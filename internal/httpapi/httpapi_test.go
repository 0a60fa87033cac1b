package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/hikariosu/hikari/internal/bancho"
	"github.com/hikariosu/hikari/internal/config"
	"github.com/hikariosu/hikari/internal/geoloc"
	"github.com/hikariosu/hikari/internal/model"
	"github.com/hikariosu/hikari/internal/store"
)

const (
	apiSecret   = "hunter2"
	passwordMD5 = "0cc175b9c0f1b6a831c399e269772661"
)

type fakeStore struct {
	users map[int32]*store.User
}

func (f *fakeStore) UserByID(ctx context.Context, id int32) (*store.User, error) {
	return f.users[id], nil
}

func (f *fakeStore) UserBySafeName(ctx context.Context, safeName string) (*store.User, error) {
	for _, u := range f.users {
		if u.SafeName == safeName {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) UserStats(ctx context.Context, userID int32, mode model.Mode) (*store.Stats, error) {
	return nil, nil
}

func (f *fakeStore) Channels(ctx context.Context) ([]store.Channel, error) { return nil, nil }

func (f *fakeStore) SetCountry(ctx context.Context, id int32, acronym string) error { return nil }

func (f *fakeStore) SetPrivileges(ctx context.Context, id int32, p model.Privileges) error {
	return nil
}

func (f *fakeStore) SetLatestActivity(ctx context.Context, id int32, when int64) error { return nil }

func (f *fakeStore) AddFriend(ctx context.Context, id, friendID int32) error { return nil }

func (f *fakeStore) RemoveFriend(ctx context.Context, id, friendID int32) error { return nil }

func (f *fakeStore) InsertLogin(ctx context.Context, rec store.LoginRecord) error { return nil }
func (f *fakeStore) RecordClientHashes(ctx context.Context, h store.ClientHashes) error {
	return nil
}

func (f *fakeStore) HardwareMatches(ctx context.Context, h store.ClientHashes, wine bool) ([]int32, error) {
	return nil, nil
}

type noLeaderboard struct{}

func (noLeaderboard) GlobalRank(ctx context.Context, userID int32, mode model.Mode) (int32, error) {
	return 0, nil
}

func (noLeaderboard) CountryRank(ctx context.Context, userID int32, mode model.Mode, country string) (int32, error) {
	return 0, nil
}

func (noLeaderboard) AddUser(ctx context.Context, userID int32, mode model.Mode, country string, pp int32) error {
	return nil
}

func (noLeaderboard) RemoveUser(ctx context.Context, userID int32, mode model.Mode, country string) error {
	return nil
}

type noBus struct{}

func (noBus) Publish(ctx context.Context, topic string, payload any) error { return nil }

func newTestMux(t *testing.T) (*echo.Echo, *bancho.Server) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(passwordMD5), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}

	st := &fakeStore{users: map[int32]*store.User{
		bancho.BotID: {ID: bancho.BotID, Name: "hikari", SafeName: "hikari", Privileges: model.PrivVerified},
		1001: {
			ID:             1001,
			Name:           "fieryrage",
			SafeName:       "fieryrage",
			PasswordBcrypt: string(hash),
			Privileges:     model.PrivVerified,
		},
	}}

	srv := bancho.NewServer(config.Default(), st, noLeaderboard{}, noBus{}, geoloc.NewEmptyResolver())
	if err := srv.Seed(context.Background()); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	e := echo.New()
	New(srv, apiSecret).Routes(e)
	return e, srv
}

func login(t *testing.T, srv *bancho.Server, name string) {
	t.Helper()

	body := fmt.Sprintf("%s\n%s\nb%s|0|0|%s|0\n",
		name, passwordMD5,
		time.Now().AddDate(0, 0, -7).Format("20060102"),
		"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa:ma.cad.dre.ss:bbbb:cccc:dddd:")

	geo := geoloc.Geolocation{IP: "203.0.113.7", Country: geoloc.Country{Acronym: "us"}}
	if res := srv.Login(context.Background(), []byte(body), geo); res.Token == "no" {
		t.Fatalf("login refused for %s", name)
	}
}

func get(t *testing.T, e *echo.Echo, target string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET %s status = %d, want 200", target, rec.Code)
	}
	return rec
}

type authResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	User    struct {
		ID         int32  `json:"id"`
		Name       string `json:"name"`
		Privileges int32  `json:"privileges"`
		Country    string `json:"country"`
	} `json:"user"`
}

func decodeAuth(t *testing.T, rec *httptest.ResponseRecorder) authResponse {
	t.Helper()

	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestUserAuthInvalidKey(t *testing.T) {
	e, _ := newTestMux(t)

	rec := get(t, e, "/user-auth?key=wrong&name=fieryrage&password="+passwordMD5)
	resp := decodeAuth(t, rec)
	if resp.Status != "error" || resp.Message != "Invalid API key" {
		t.Errorf("response = %+v", resp)
	}
}

func TestUserAuthUnknownUser(t *testing.T) {
	e, _ := newTestMux(t)

	rec := get(t, e, "/user-auth?key="+apiSecret+"&name=nobody&password="+passwordMD5)
	resp := decodeAuth(t, rec)
	if resp.Status != "error" || resp.Message != "User not found" {
		t.Errorf("response = %+v", resp)
	}
}

func TestUserAuthOfflineUser(t *testing.T) {
	e, _ := newTestMux(t)

	// The account exists but holds no session, which reads the same as
	// no account at all.
	rec := get(t, e, "/user-auth?key="+apiSecret+"&name=fieryrage&password="+passwordMD5)
	resp := decodeAuth(t, rec)
	if resp.Status != "error" || resp.Message != "User not found" {
		t.Errorf("response = %+v", resp)
	}
}

func TestUserAuthWrongPassword(t *testing.T) {
	e, srv := newTestMux(t)
	login(t, srv, "fieryrage")

	rec := get(t, e, "/user-auth?key="+apiSecret+"&name=fieryrage&password=deadbeef")
	resp := decodeAuth(t, rec)
	if resp.Status != "error" || resp.Message != "Invalid password" {
		t.Errorf("response = %+v", resp)
	}
}

func TestUserAuthOK(t *testing.T) {
	e, srv := newTestMux(t)
	login(t, srv, "fieryrage")

	rec := get(t, e, "/user-auth?key="+apiSecret+"&name=fieryrage&password="+passwordMD5)
	resp := decodeAuth(t, rec)
	if resp.Status != "ok" {
		t.Fatalf("response = %+v", resp)
	}
	if resp.User.ID != 1001 || resp.User.Name != "fieryrage" {
		t.Errorf("user = %+v", resp.User)
	}
	if resp.User.Privileges != int32(model.PrivVerified) {
		t.Errorf("privileges = %d, want %d", resp.User.Privileges, model.PrivVerified)
	}
	if resp.User.Country != "us" {
		t.Errorf("country = %q, want us", resp.User.Country)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	e, _ := newTestMux(t)

	rec := get(t, e, "/metrics")
	if body := rec.Body.String(); !strings.Contains(body, "hikari_") {
		t.Errorf("scrape output carries no hikari series:\n%.200s", body)
	}
}
