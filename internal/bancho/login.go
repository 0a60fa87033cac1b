package bancho

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hikariosu/hikari/internal/bancho/serverpackets"
	"github.com/hikariosu/hikari/internal/geoloc"
	"github.com/hikariosu/hikari/internal/metrics"
	"github.com/hikariosu/hikari/internal/model"
	"github.com/hikariosu/hikari/internal/packet"
	"github.com/hikariosu/hikari/internal/store"
)

const (
	restrictionMessage = "Your account is currently in restricted mode. Please check the website for more information!"
	welcomeMessage     = "Welcome to hikari!"
)

// loginData is the credential blob an osu! client posts on its first
// request, before it holds a cho-token.
type loginData struct {
	Username    string
	PasswordMD5 string
	OsuVersion  string
	UTCOffset   int
	DisplayCity bool
	PMPrivate   bool

	OsuPathMD5   string
	AdaptersStr  string
	AdaptersMD5  string
	UninstallMD5 string
	DiskMD5      string
}

// parseLoginData splits the login body: three newline-separated lines,
// the last holding pipe-separated client info with a colon-separated
// hardware hash block inside.
func parseLoginData(body []byte) (*loginData, error) {
	lines := strings.SplitN(strings.TrimSuffix(string(body), "\n"), "\n", 3)
	if len(lines) != 3 {
		return nil, fmt.Errorf("login body has %d lines, want 3", len(lines))
	}

	info := strings.SplitN(lines[2], "|", 5)
	if len(info) != 5 {
		return nil, fmt.Errorf("client info has %d fields, want 5", len(info))
	}

	utcOffset, err := strconv.Atoi(info[1])
	if err != nil {
		return nil, fmt.Errorf("parsing utc offset: %w", err)
	}

	hashes := strings.SplitN(strings.TrimSuffix(info[3], ":"), ":", 5)
	if len(hashes) != 5 {
		return nil, fmt.Errorf("client hashes have %d parts, want 5", len(hashes))
	}

	return &loginData{
		Username:     lines[0],
		PasswordMD5:  lines[1],
		OsuVersion:   info[0],
		UTCOffset:    utcOffset,
		DisplayCity:  info[2] == "1",
		PMPrivate:    info[4] == "1",
		OsuPathMD5:   hashes[0],
		AdaptersStr:  hashes[1],
		AdaptersMD5:  hashes[2],
		UninstallMD5: hashes[3],
		DiskMD5:      hashes[4],
	}, nil
}

var osuVersionRe = regexp.MustCompile(`^b(\d{8})(?:\.(\d))?(beta|cuttingedge|dev|tourney)?$`)

// maxClientAge is how old a client build may be before it is forced to
// update.
const maxClientAge = 90 * 24 * time.Hour

// clientVersion is a parsed osu! build identifier such as
// b20200201.2cuttingedge.
type clientVersion struct {
	Date     time.Time
	Revision int
	Stream   string
}

// parseOsuVersion validates the client build string. Unknown formats and
// builds older than maxClientAge read as nil.
func parseOsuVersion(s string) *clientVersion {
	m := osuVersionRe.FindStringSubmatch(s)
	if m == nil {
		return nil
	}

	date, err := time.Parse("20060102", m[1])
	if err != nil {
		return nil
	}
	if time.Since(date) > maxClientAge {
		return nil
	}

	v := &clientVersion{Date: date, Stream: "stable"}
	if m[2] != "" {
		v.Revision, _ = strconv.Atoi(m[2])
	}
	if m[3] != "" {
		v.Stream = m[3]
	}

	return v
}

// parseAdapters splits the client's network adapter list. Clients running
// under wine report the literal runningunderwine instead of hardware
// addresses.
func parseAdapters(s string) (adapters []string, wine bool) {
	if s == "runningunderwine" {
		return nil, true
	}

	for _, a := range strings.Split(strings.TrimSuffix(s, "."), ".") {
		if a != "" {
			adapters = append(adapters, a)
		}
	}
	return adapters, false
}

// makeSafeName normalizes a display name the way the users collection
// stores it.
func makeSafeName(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", "_"))
}

// passwordCache remembers verified md5/bcrypt pairs. bcrypt is tuned to be
// slow, and osu! clients send the same credentials on every login.
type passwordCache struct {
	mu    sync.Mutex
	known map[string]string
}

func newPasswordCache() *passwordCache {
	return &passwordCache{known: make(map[string]string)}
}

// Verify checks an md5 password against its bcrypt hash, consulting the
// cache first.
func (pc *passwordCache) Verify(passwordMD5, passwordBcrypt string) bool {
	pc.mu.Lock()
	cached, ok := pc.known[passwordBcrypt]
	pc.mu.Unlock()
	if ok {
		return cached == passwordMD5
	}

	if bcrypt.CompareHashAndPassword([]byte(passwordBcrypt), []byte(passwordMD5)) != nil {
		return false
	}

	pc.mu.Lock()
	pc.known[passwordBcrypt] = passwordMD5
	pc.mu.Unlock()
	return true
}

// formatDuration renders a duration with the shortest unit that keeps the
// value under a thousand, e.g. "1.28ms".
func formatDuration(d time.Duration) string {
	value := float64(d.Nanoseconds())
	suffix := "ns"
	for _, next := range []string{"μs", "ms", "s"} {
		if value < 1000 {
			break
		}
		value /= 1000
		suffix = next
	}
	return fmt.Sprintf("%.2f%s", value, suffix)
}

// LoginResult is the answer to a tokenless bancho request: the cho-token
// header value and the packet burst for the response body. Refused logins
// carry the token "no".
type LoginResult struct {
	Token string
	Body  []byte
}

func loginRefused(body []byte) LoginResult {
	metrics.LoginsRefused.Inc()
	return LoginResult{Token: "no", Body: body}
}

// Login authenticates a client and builds its session. One login runs at
// a time; the flow reads and mutates too much of the session graph to
// interleave safely.
func (s *Server) Login(ctx context.Context, body []byte, geo geoloc.Geolocation) LoginResult {
	s.loginMu.Lock()
	defer s.loginMu.Unlock()

	start := time.Now()

	data, err := parseLoginData(body)
	if err != nil {
		slog.Warn("malformed login request", "err", err)
		return loginRefused(serverpackets.UserID(serverpackets.LoginFailed))
	}

	version := parseOsuVersion(data.OsuVersion)
	if version == nil {
		return loginRefused(append(
			serverpackets.VersionUpdateForced(),
			serverpackets.UserID(serverpackets.LoginOldClient)...,
		))
	}

	// A second login of the same account takes the session over when the
	// first has gone idle. Tourney clients coexist with a playing client.
	s.mu.Lock()
	if existing := s.users.ByName(data.Username); existing != nil {
		if version.Stream != "tourney" && !existing.Tourney {
			if time.Now().Unix()-existing.LatestActivity > 10 {
				s.logout(existing)
			} else {
				s.mu.Unlock()
				return loginRefused(serverpackets.Notification("You are already logged in!"))
			}
		}
	}
	s.mu.Unlock()

	adapters, wine := parseAdapters(data.AdaptersStr)
	if len(adapters) == 0 && !wine {
		return loginRefused(serverpackets.UserID(serverpackets.LoginServerError))
	}

	doc, err := s.store.UserBySafeName(ctx, makeSafeName(data.Username))
	if err != nil {
		slog.Error("fetching user for login", "user", data.Username, "err", err)
		return loginRefused(serverpackets.UserID(serverpackets.LoginFailed))
	}
	if doc == nil {
		return loginRefused(serverpackets.UserID(serverpackets.LoginFailed))
	}

	if !s.passwords.Verify(data.PasswordMD5, doc.PasswordBcrypt) {
		return loginRefused(serverpackets.UserID(serverpackets.LoginFailed))
	}

	// Accounts registered through the web carry no country until their
	// first bancho login reveals one.
	if doc.Country == "" || doc.Country == "xx" {
		if err := s.store.SetCountry(ctx, doc.ID, geo.Country.Acronym); err != nil {
			slog.Error("backfilling country", "user", doc.Name, "err", err)
		}
	}

	stats, err := s.fetchAllStats(ctx, doc.ID, geo.Country.Acronym)
	if err != nil {
		slog.Error("fetching stats for login", "user", doc.Name, "err", err)
		return loginRefused(serverpackets.UserID(serverpackets.LoginFailed))
	}

	now := time.Now().Unix()
	u := &User{
		ID:             doc.ID,
		Name:           doc.Name,
		SafeName:       doc.SafeName,
		Token:          uuid.NewString(),
		PasswordBcrypt: doc.PasswordBcrypt,
		PasswordMD5:    data.PasswordMD5,
		Email:          doc.Email,
		RegisterTime:   doc.RegisterTime,
		LoginTime:      now,
		Geolocation:    geo,
		UTCOffset:      int8(data.UTCOffset),
		OsuVersion:     data.OsuVersion,
		Privileges:     doc.Privileges,
		SilenceEnd:     doc.SilenceEnd,
		Status:         model.DefaultStatus(),
		Stats:          stats,
		Friends:        doc.Friends,
		Blocked:        doc.Blocked,
		MatchID:        NoMatch,
		LatestActivity: now,
		FriendOnlyDMs:  data.PMPrivate,
	}

	if err := s.store.InsertLogin(ctx, store.LoginRecord{
		UserID:     u.ID,
		IP:         geo.IP,
		OsuVersion: data.OsuVersion,
		OsuStream:  version.Stream,
	}); err != nil {
		slog.Error("recording login", "user", u.Name, "err", err)
	}

	hashes := store.ClientHashes{
		UserID:       u.ID,
		OsuMD5:       data.OsuPathMD5,
		AdaptersMD5:  data.AdaptersMD5,
		UninstallMD5: data.UninstallMD5,
		DiskMD5:      data.DiskMD5,
	}
	if err := s.store.RecordClientHashes(ctx, hashes); err != nil {
		slog.Error("recording client hashes", "user", u.Name, "err", err)
	}

	hwMatches, err := s.store.HardwareMatches(ctx, hashes, wine)
	if err != nil {
		slog.Error("querying hardware matches", "user", u.Name, "err", err)
		return loginRefused(serverpackets.UserID(serverpackets.LoginFailed))
	}
	if len(hwMatches) > 0 {
		slog.Warn("login on matching hardware", "user", u.Name, "matches", hwMatches)
		return loginRefused(append(
			serverpackets.UserID(serverpackets.LoginFailed),
			serverpackets.Notification("Please contact staff.")...,
		))
	}

	if version.Stream == "tourney" {
		if !u.CanTourney() {
			return loginRefused(serverpackets.UserID(serverpackets.LoginServerError))
		}
		u.Tourney = true
	}

	s.mu.Lock()

	burst := serverpackets.ProtocolVersion(19)
	burst = append(burst, serverpackets.UserID(u.ID)...)
	burst = append(burst, serverpackets.BanchoPrivileges(int32(u.Privileges.Client()|model.ClientPrivSupporter))...)

	// The client learns about the auto-join channels; it answers with a
	// join request per channel. #lobby only ever joins through the
	// multiplayer screen.
	s.channels.ForEach(func(c *Channel) {
		if !c.AutoJoin || !c.HasPermission(u.Privileges) || c.Name == "#lobby" {
			return
		}

		info := serverpackets.ChannelInfo(c.Info())
		burst = append(burst, info...)

		s.users.ForEach(func(target *User) {
			if c.HasPermission(target.Privileges) {
				target.Enqueue(info)
			}
		})
	})

	burst = append(burst, serverpackets.ChannelInfoEnd()...)
	burst = append(burst, serverpackets.MenuIcon(s.cfg.MenuIconURL, s.cfg.MenuClickURL)...)
	burst = append(burst, serverpackets.FriendsList(u.Friends)...)
	burst = append(burst, serverpackets.SilenceEnd(u.RemainingSilence())...)

	selfData := append(u.PresencePacket(), u.StatsPacket()...)
	burst = append(burst, selfData...)

	s.users.ForEach(func(target *User) {
		if !u.Restricted() {
			target.Enqueue(selfData)
		}
		if !target.Restricted() {
			burst = append(burst, target.PresencePacket()...)
			burst = append(burst, target.StatsPacket()...)
		}
	})

	if u.Restricted() {
		burst = append(burst, serverpackets.AccountRestricted()...)
		burst = append(burst, serverpackets.SendMessage(packet.Message{
			Sender:    s.bot.Name,
			Content:   restrictionMessage,
			Recipient: u.Name,
			SenderID:  s.bot.ID,
		})...)
	}

	firstLogin := !u.Privileges.Has(model.PrivVerified)
	if firstLogin {
		u.Privileges |= model.PrivVerified
		if u.ID == 3 {
			u.Privileges = model.PrivMaster
		}

		burst = append(burst, serverpackets.SendMessage(packet.Message{
			Sender:    s.bot.Name,
			Content:   welcomeMessage,
			Recipient: u.Name,
			SenderID:  s.bot.ID,
		})...)
	}

	s.users.Add(u)
	online := s.users.Count()
	s.mu.Unlock()

	if firstLogin {
		if err := s.SetPrivileges(ctx, u.ID, u.Privileges); err != nil {
			slog.Error("storing first login privileges", "user", u.Name, "err", err)
		}
	}

	elapsed := formatDuration(time.Since(start))
	burst = append(burst, serverpackets.Notification(fmt.Sprintf(
		"Welcome back to hikari!\n\nOnline users: %d\nTime elapsed: %s",
		online-1, elapsed,
	))...)

	slog.Info("user logged in",
		"user", u.Name,
		"version", data.OsuVersion,
		"country", strings.ToUpper(geo.Country.Acronym),
		"elapsed", elapsed,
	)
	metrics.Logins.Inc()

	s.updateActivity(ctx, u)

	return LoginResult{Token: u.Token, Body: burst}
}
