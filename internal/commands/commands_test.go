package commands

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hikariosu/hikari/internal/bancho"
	"github.com/hikariosu/hikari/internal/config"
	"github.com/hikariosu/hikari/internal/geoloc"
	"github.com/hikariosu/hikari/internal/model"
	"github.com/hikariosu/hikari/internal/packet"
	"github.com/hikariosu/hikari/internal/store"
	"github.com/hikariosu/hikari/internal/testutil"
)

// serverStore backs the bancho server with the bare minimum: the bot
// document plus whatever accounts a test seeds.
type serverStore struct {
	mu    sync.Mutex
	users map[int32]*store.User
}

func newServerStore() *serverStore {
	return &serverStore{users: map[int32]*store.User{
		bancho.BotID: {ID: bancho.BotID, Name: "hikari", SafeName: "hikari", Privileges: model.PrivVerified},
	}}
}

func (s *serverStore) UserByID(ctx context.Context, id int32) (*store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id], nil
}

func (s *serverStore) UserBySafeName(ctx context.Context, safeName string) (*store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.SafeName == safeName {
			return u, nil
		}
	}
	return nil, nil
}

func (s *serverStore) UserStats(ctx context.Context, userID int32, mode model.Mode) (*store.Stats, error) {
	return nil, nil
}

func (s *serverStore) Channels(ctx context.Context) ([]store.Channel, error) { return nil, nil }

func (s *serverStore) SetCountry(ctx context.Context, id int32, acronym string) error { return nil }

func (s *serverStore) SetPrivileges(ctx context.Context, id int32, privileges model.Privileges) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc := s.users[id]; doc != nil {
		doc.Privileges = privileges
	}
	return nil
}

func (s *serverStore) SetLatestActivity(ctx context.Context, id int32, when int64) error { return nil }

func (s *serverStore) AddFriend(ctx context.Context, id, friendID int32) error { return nil }

func (s *serverStore) RemoveFriend(ctx context.Context, id, friendID int32) error { return nil }

func (s *serverStore) InsertLogin(ctx context.Context, rec store.LoginRecord) error { return nil }
func (s *serverStore) RecordClientHashes(ctx context.Context, h store.ClientHashes) error {
	return nil
}

func (s *serverStore) HardwareMatches(ctx context.Context, h store.ClientHashes, wine bool) ([]int32, error) {
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

type busEvent struct {
	topic   string
	payload any
}

type recordingBus struct {
	mu     sync.Mutex
	events []busEvent
}

func (b *recordingBus) Publish(ctx context.Context, topic string, payload any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, busEvent{topic: topic, payload: payload})
	return nil
}

func (b *recordingBus) count(topic string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, e := range b.events {
		if e.topic == topic {
			n++
		}
	}
	return n
}

type logEntry struct {
	userID int32
	action string
	sender string
	info   string
}

// cmdStore is the command-facing persistence fake.
type cmdStore struct {
	mu       sync.Mutex
	users    map[string]*store.User
	silences map[int32]int64
	statuses map[string]model.RankedStatus
	logs     []logEntry
}

func newCmdStore() *cmdStore {
	return &cmdStore{
		users:    make(map[string]*store.User),
		silences: make(map[int32]int64),
		statuses: make(map[string]model.RankedStatus),
	}
}

func (s *cmdStore) UserByName(ctx context.Context, name string) (*store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[name], nil
}

func (s *cmdStore) SetSilenceEnd(ctx context.Context, id int32, end int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.silences[id] = end
	return nil
}

func (s *cmdStore) AppendLogAction(ctx context.Context, userID int32, action, sender, info string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, logEntry{userID: userID, action: action, sender: sender, info: info})
	return nil
}

func (s *cmdStore) SetBeatmapStatus(ctx context.Context, md5 string, status model.RankedStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[md5] = status
	return nil
}

func (s *cmdStore) lastLog(t *testing.T) logEntry {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.logs) == 0 {
		t.Fatal("no log actions recorded")
	}
	return s.logs[len(s.logs)-1]
}

// fakeBeatmaps resolves maps from a fixed table.
type fakeBeatmaps struct {
	byID  map[int32]*store.Beatmap
	bySet map[int32][]store.Beatmap
}

func (f *fakeBeatmaps) ByID(ctx context.Context, id int32) (*store.Beatmap, error) {
	return f.byID[id], nil
}

func (f *fakeBeatmaps) BySetID(ctx context.Context, setID int32) ([]store.Beatmap, error) {
	return f.bySet[setID], nil
}

type testDeps struct {
	reg   *Registry
	srv   *bancho.Server
	srvSt *serverStore
	st    *cmdStore
	maps  *fakeBeatmaps
	bus   *recordingBus
}

func newTestRegistry(t *testing.T) *testDeps {
	t.Helper()

	srvSt := newServerStore()
	bus := &recordingBus{}
	srv := bancho.NewServer(config.Default(), srvSt, noLeaderboard{}, bus, geoloc.NewEmptyResolver())
	if err := srv.Seed(context.Background()); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	st := newCmdStore()
	maps := &fakeBeatmaps{
		byID:  make(map[int32]*store.Beatmap),
		bySet: make(map[int32][]store.Beatmap),
	}
	reg := New(srv, st, maps, bus)
	srv.SetCommands(reg)

	return &testDeps{reg: reg, srv: srv, srvSt: srvSt, st: st, maps: maps, bus: bus}
}

func sender(id int32, name string, privileges model.Privileges) *bancho.User {
	return &bancho.User{ID: id, Name: name, Privileges: model.PrivVerified | privileges}
}

func TestRunUnknownCommand(t *testing.T) {
	d := newTestRegistry(t)
	staff := sender(1001, "mod", model.PrivModerator)

	if got := d.reg.Run(context.Background(), staff, "!frobnicate"); got != "Command not found!" {
		t.Errorf("Run() = %q", got)
	}
}

func TestRunUnauthorized(t *testing.T) {
	d := newTestRegistry(t)
	player := sender(1001, "player", 0)

	// Unauthorized and unknown commands are indistinguishable.
	if got := d.reg.Run(context.Background(), player, "!restrict someone cheating"); got != "Command not found!" {
		t.Errorf("Run() = %q", got)
	}
}

func TestNowPlayingTracksMap(t *testing.T) {
	d := newTestRegistry(t)
	player := sender(1001, "player", 0)

	line := "\x01ACTION is playing [https://osu.hikari.pw/b/1917158 FELT - Day after [Dream]]\x01"
	if got := d.reg.Run(context.Background(), player, line); got != "" {
		t.Errorf("Run() = %q, want silent", got)
	}
	if np := d.srv.LastNp(player); np != 1917158 {
		t.Errorf("LastNp() = %d, want 1917158", np)
	}

	line = "\x01ACTION is listening to [https://osu.hikari.pw/beatmaps/42 some song]\x01"
	d.reg.Run(context.Background(), player, line)
	if np := d.srv.LastNp(player); np != 42 {
		t.Errorf("LastNp() = %d, want 42", np)
	}

	// Other actions stay silent and leave the tracked map alone.
	if got := d.reg.Run(context.Background(), player, "\x01ACTION is afk\x01"); got != "" {
		t.Errorf("Run() = %q, want silent", got)
	}
	if np := d.srv.LastNp(player); np != 42 {
		t.Errorf("LastNp() = %d, want 42 kept", np)
	}
}

func TestMapCommandValidation(t *testing.T) {
	d := newTestRegistry(t)
	bn := sender(1001, "nominator", model.PrivNominator)

	if got := d.reg.Run(context.Background(), bn, "!map rank map"); got != "You must /np a map first!" {
		t.Errorf("Run() = %q", got)
	}

	d.srv.SetLastNp(bn, 1917158)

	for message, want := range map[string]string{
		"!map":            "You must provide a new status!",
		"!map rank":       "Invalid rank type! (set/map)",
		"!map rank track": "Invalid rank type! (set/map)",
		"!map chart map":  "Invalid status! (rank/unrank/love/unlove)",
	} {
		if got := d.reg.Run(context.Background(), bn, message); got != want {
			t.Errorf("Run(%q) = %q, want %q", message, got, want)
		}
	}
}

func TestMapCommandSingleMap(t *testing.T) {
	d := newTestRegistry(t)
	bn := sender(1001, "nominator", model.PrivNominator)
	d.srv.SetLastNp(bn, 1917158)
	d.maps.byID[1917158] = &store.Beatmap{ID: 1917158, SetID: 916990, MD5: "c6b24a32"}

	got := d.reg.Run(context.Background(), bn, "!map love map")
	if got != "Map/set updated!" {
		t.Fatalf("Run() = %q", got)
	}

	d.st.mu.Lock()
	status := d.st.statuses["c6b24a32"]
	d.st.mu.Unlock()
	if status != model.StatusLoved {
		t.Errorf("stored status = %v, want loved", status)
	}
	if n := d.bus.count("map-status"); n != 1 {
		t.Errorf("map-status events = %d, want 1", n)
	}
}

func TestMapCommandWholeSet(t *testing.T) {
	d := newTestRegistry(t)
	bn := sender(1001, "nominator", model.PrivNominator)
	d.srv.SetLastNp(bn, 1917158)
	d.maps.byID[1917158] = &store.Beatmap{ID: 1917158, SetID: 916990, MD5: "easy"}
	d.maps.bySet[916990] = []store.Beatmap{
		{ID: 1917158, SetID: 916990, MD5: "easy"},
		{ID: 1917159, SetID: 916990, MD5: "normal"},
		{ID: 1917160, SetID: 916990, MD5: "hard"},
	}

	got := d.reg.Run(context.Background(), bn, "!m rank set")
	if got != "Map/set updated!" {
		t.Fatalf("Run() = %q", got)
	}

	d.st.mu.Lock()
	defer d.st.mu.Unlock()
	for _, md5 := range []string{"easy", "normal", "hard"} {
		if d.st.statuses[md5] != model.StatusRanked {
			t.Errorf("status[%s] = %v, want ranked", md5, d.st.statuses[md5])
		}
	}
	if n := d.bus.count("map-status"); n != 3 {
		t.Errorf("map-status events = %d, want 3", n)
	}
}

func TestMapCommandUnknownMap(t *testing.T) {
	d := newTestRegistry(t)
	bn := sender(1001, "nominator", model.PrivNominator)
	d.srv.SetLastNp(bn, 555)

	if got := d.reg.Run(context.Background(), bn, "!map rank map"); got != "Couldn't find map!" {
		t.Errorf("Run() = %q", got)
	}
}

func TestRestrict(t *testing.T) {
	d := newTestRegistry(t)
	admin := sender(1001, "admin", model.PrivAdmin)
	d.st.users["cheater"] = &store.User{ID: 2002, Name: "cheater", Privileges: model.PrivVerified}

	if got := d.reg.Run(context.Background(), admin, "!restrict cheater"); got != "You must provide a user and a reason!" {
		t.Errorf("Run() = %q", got)
	}
	if got := d.reg.Run(context.Background(), admin, "!restrict ghost aim correction"); got != "Couldn't find user ghost!" {
		t.Errorf("Run() = %q", got)
	}

	got := d.reg.Run(context.Background(), admin, "!restrict cheater aim correction")
	if got != "cheater has been restricted for aim correction!" {
		t.Fatalf("Run() = %q", got)
	}

	entry := d.st.lastLog(t)
	if entry.action != "restrict" || entry.userID != 2002 || entry.sender != "admin" {
		t.Errorf("log = %+v", entry)
	}
	if entry.info != "aim correction" {
		t.Errorf("log info = %q", entry.info)
	}
	if n := d.bus.count("user-privileges"); n != 1 {
		t.Errorf("user-privileges events = %d, want 1", n)
	}

	// Doubling up hits the already-restricted guard.
	d.st.users["cheater"].Privileges |= model.PrivRestricted
	if got := d.reg.Run(context.Background(), admin, "!restrict cheater again"); got != "cheater is already restricted!" {
		t.Errorf("Run() = %q", got)
	}
}

func TestUnrestrict(t *testing.T) {
	d := newTestRegistry(t)
	admin := sender(1001, "admin", model.PrivAdmin)
	d.st.users["cheater"] = &store.User{
		ID:         2002,
		Name:       "cheater",
		Privileges: model.PrivVerified | model.PrivRestricted,
	}

	got := d.reg.Run(context.Background(), admin, "!unrestrict cheater appeal accepted")
	if got != "cheater has been unrestricted for appeal accepted!" {
		t.Fatalf("Run() = %q", got)
	}
	if entry := d.st.lastLog(t); entry.action != "unrestrict" {
		t.Errorf("log = %+v", entry)
	}

	d.st.users["cheater"].Privileges &^= model.PrivRestricted
	if got := d.reg.Run(context.Background(), admin, "!unrestrict cheater again"); got != "cheater is already unrestricted!" {
		t.Errorf("Run() = %q", got)
	}
}

func TestSilenceOfflineTarget(t *testing.T) {
	d := newTestRegistry(t)
	mod := sender(1001, "mod", model.PrivModerator)
	d.st.users["spammer"] = &store.User{ID: 2002, Name: "spammer", Privileges: model.PrivVerified}

	if got := d.reg.Run(context.Background(), mod, "!silence spammer"); got != "You must provide a user, a duration and a reason!" {
		t.Errorf("Run() = %q", got)
	}
	if got := d.reg.Run(context.Background(), mod, "!silence spammer soon spam"); got != "Invalid duration!" {
		t.Errorf("Run() = %q", got)
	}
	if got := d.reg.Run(context.Background(), mod, "!silence spammer -60 spam"); got != "Invalid duration!" {
		t.Errorf("Run() = %q", got)
	}

	before := time.Now().Unix()
	got := d.reg.Run(context.Background(), mod, "!silence spammer 3600 chat spam")
	if got != "spammer has been silenced for chat spam!" {
		t.Fatalf("Run() = %q", got)
	}

	d.st.mu.Lock()
	end := d.st.silences[2002]
	d.st.mu.Unlock()
	if end < before+3600 || end > before+3610 {
		t.Errorf("silence end = %d, want about %d", end, before+3600)
	}
	if entry := d.st.lastLog(t); entry.action != "silence" || entry.info != "chat spam" {
		t.Errorf("log = %+v", entry)
	}
}

func TestUnsilenceOfflineTarget(t *testing.T) {
	d := newTestRegistry(t)
	mod := sender(1001, "mod", model.PrivModerator)
	d.st.users["spammer"] = &store.User{ID: 2002, Name: "spammer", Privileges: model.PrivVerified}
	d.st.silences[2002] = time.Now().Unix() + 3600

	got := d.reg.Run(context.Background(), mod, "!unsilence spammer")
	if got != "spammer is no longer silenced!" {
		t.Fatalf("Run() = %q", got)
	}

	d.st.mu.Lock()
	end := d.st.silences[2002]
	d.st.mu.Unlock()
	if end != 0 {
		t.Errorf("silence end = %d, want 0", end)
	}
}

// loginSession authenticates a seeded account so moderation commands can
// reach a live session.
func loginSession(t *testing.T, d *testDeps, id int32, name string) *bancho.User {
	t.Helper()

	const passwordMD5 = "0cc175b9c0f1b6a831c399e269772661"
	hash, err := bcrypt.GenerateFromPassword([]byte(passwordMD5), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	d.srvSt.mu.Lock()
	d.srvSt.users[id] = &store.User{
		ID:             id,
		Name:           name,
		SafeName:       strings.ToLower(name),
		PasswordBcrypt: string(hash),
		Privileges:     model.PrivVerified,
		Country:        "us",
	}
	d.srvSt.mu.Unlock()

	body := fmt.Sprintf("%s\n%s\nb%s|0|0|%s|0\n",
		name, passwordMD5,
		time.Now().AddDate(0, 0, -7).Format("20060102"),
		"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa:ma.cad.dre.ss:bbbb:cccc:dddd:")

	res := d.srv.Login(context.Background(), []byte(body), geoloc.Geolocation{})
	if res.Token == "no" {
		t.Fatalf("login refused for %s", name)
	}
	live := d.srv.UserByName(name)
	if live == nil {
		t.Fatalf("no live session for %s", name)
	}
	live.Dequeue()
	return live
}

func TestSilenceLiveSession(t *testing.T) {
	d := newTestRegistry(t)
	mod := sender(1001, "mod", model.PrivModerator)
	d.st.users["spammer"] = &store.User{ID: 2002, Name: "spammer", Privileges: model.PrivVerified}
	live := loginSession(t, d, 2002, "spammer")

	got := d.reg.Run(context.Background(), mod, "!silence spammer 3600 chat spam")
	if got != "spammer has been silenced for chat spam!" {
		t.Fatalf("Run() = %q", got)
	}

	if !live.Silenced() {
		t.Error("live session should be muted")
	}
	testutil.AssertHasFrame(t, live.Dequeue(), packet.ChoSilenceEnd)

	got = d.reg.Run(context.Background(), mod, "!unsilence spammer")
	if got != "spammer is no longer silenced!" {
		t.Fatalf("Run() = %q", got)
	}
	if live.Silenced() {
		t.Error("mute should be lifted")
	}
	testutil.AssertHasFrame(t, live.Dequeue(), packet.ChoSilenceEnd)
}
