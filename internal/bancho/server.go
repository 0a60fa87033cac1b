package bancho

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hikariosu/hikari/internal/config"
	"github.com/hikariosu/hikari/internal/geoloc"
	"github.com/hikariosu/hikari/internal/model"
	"github.com/hikariosu/hikari/internal/store"
)

// Store is the persistence surface the server consumes. *store.Store
// implements it; tests substitute fakes.
type Store interface {
	UserByID(ctx context.Context, id int32) (*store.User, error)
	UserBySafeName(ctx context.Context, safeName string) (*store.User, error)
	UserStats(ctx context.Context, userID int32, mode model.Mode) (*store.Stats, error)
	Channels(ctx context.Context) ([]store.Channel, error)
	SetCountry(ctx context.Context, id int32, acronym string) error
	SetPrivileges(ctx context.Context, id int32, privileges model.Privileges) error
	SetLatestActivity(ctx context.Context, id int32, when int64) error
	AddFriend(ctx context.Context, id, friendID int32) error
	RemoveFriend(ctx context.Context, id, friendID int32) error
	InsertLogin(ctx context.Context, rec store.LoginRecord) error
	RecordClientHashes(ctx context.Context, h store.ClientHashes) error
	HardwareMatches(ctx context.Context, h store.ClientHashes, wine bool) ([]int32, error)
}

// Leaderboard is the ranking surface backing presence and restriction
// handling. *leaderboard.Leaderboard implements it.
type Leaderboard interface {
	GlobalRank(ctx context.Context, userID int32, mode model.Mode) (int32, error)
	CountryRank(ctx context.Context, userID int32, mode model.Mode, country string) (int32, error)
	AddUser(ctx context.Context, userID int32, mode model.Mode, country string, pp int32) error
	RemoveUser(ctx context.Context, userID int32, mode model.Mode, country string) error
}

// Publisher pushes events onto the shared message bus. *pubsub.Bus
// implements it.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// CommandRunner executes a chat command line and returns the bot's reply,
// empty when the command produced none. Wired after construction because
// the command package builds on this one.
type CommandRunner interface {
	Run(ctx context.Context, sender *User, message string) string
}

// Server is the live game server: session, channel and match registries
// plus every packet handler that mutates them.
//
// Locking: mu guards the three registries and all mutable fields of the
// Users, Channels and Matches they hold. loginMu serializes the whole
// login flow and is taken before mu. Session write queues carry their own
// mutex (taken last) so broadcasts never block on a slow client. Store
// and Redis calls run outside mu.
type Server struct {
	cfg *config.Config

	store       Store
	leaderboard Leaderboard
	pub         Publisher
	geo         *geoloc.Resolver
	commands    CommandRunner

	mu      sync.RWMutex
	loginMu sync.Mutex

	users    *Users
	channels *Channels
	matches  Matches

	bot *User

	passwords *passwordCache
	startedAt time.Time
}

// NewServer wires a server around its dependencies. Call Seed before
// serving traffic.
func NewServer(cfg *config.Config, st Store, lb Leaderboard, pub Publisher, geo *geoloc.Resolver) *Server {
	return &Server{
		cfg:         cfg,
		store:       st,
		leaderboard: lb,
		pub:         pub,
		geo:         geo,
		users:       NewUsers(),
		channels:    NewChannels(),
		passwords:   newPasswordCache(),
		startedAt:   time.Now(),
	}
}

// SetCommands installs the chat command dispatcher.
func (s *Server) SetCommands(r CommandRunner) {
	s.commands = r
}

// Seed loads the bot session and the channel list from the store. The bot
// account must exist; a server without its bot cannot deliver command
// replies or moderation messages.
func (s *Server) Seed(ctx context.Context) error {
	doc, err := s.store.UserByID(ctx, BotID)
	if err != nil {
		return fmt.Errorf("loading bot user: %w", err)
	}
	if doc == nil {
		return fmt.Errorf("bot user (id %d) not found", BotID)
	}

	stats := make(map[model.Mode]*model.Stats, len(model.StatModes))
	for _, mode := range model.StatModes {
		stats[mode] = &model.Stats{}
	}

	bot := &User{
		ID:             doc.ID,
		Name:           doc.Name,
		SafeName:       doc.SafeName,
		Privileges:     doc.Privileges,
		Status:         model.Status{Action: model.ActionWatching},
		Stats:          stats,
		LoginTime:      time.Now().Unix(),
		LatestActivity: time.Now().Unix(),
	}

	channels, err := s.store.Channels(ctx)
	if err != nil {
		return fmt.Errorf("loading channels: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.bot = bot
	s.users.Add(bot)
	for _, c := range channels {
		s.channels.Add(NewChannel(c.Name, c.Topic, c.Privileges, c.AutoJoin))
	}

	return nil
}

// Bot returns the server-operated chat bot session.
func (s *Server) Bot() *User {
	return s.bot
}

// Online returns the number of live sessions, bot included.
func (s *Server) Online() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users.Count()
}

// ActiveMatches returns the number of allocated multiplayer matches.
func (s *Server) ActiveMatches() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	s.matches.ForEach(func(*Match) { n++ })
	return n
}

// UserByToken resolves a session by its cho-token.
func (s *Server) UserByToken(token string) *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users.ByToken(token)
}

// UserByID resolves a live session by account id.
func (s *Server) UserByID(id int32) *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users.ByID(id)
}

// UserByName resolves a live session by display name.
func (s *Server) UserByName(name string) *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users.ByName(name)
}

// fetchStats assembles one mode's stat track from the store and the
// leaderboard. Missing documents and unranked users read as zeroes.
func (s *Server) fetchStats(ctx context.Context, userID int32, country string, mode model.Mode) (*model.Stats, error) {
	doc, err := s.store.UserStats(ctx, userID, mode)
	if err != nil {
		return nil, fmt.Errorf("fetching stats for mode %d: %w", mode, err)
	}
	if doc == nil {
		doc = &store.Stats{}
	}

	globalRank, err := s.leaderboard.GlobalRank(ctx, userID, mode)
	if err != nil {
		return nil, fmt.Errorf("fetching global rank for mode %d: %w", mode, err)
	}
	countryRank, err := s.leaderboard.CountryRank(ctx, userID, mode, country)
	if err != nil {
		return nil, fmt.Errorf("fetching country rank for mode %d: %w", mode, err)
	}

	return &model.Stats{
		TotalScore:  doc.TotalScore,
		RankedScore: doc.RankedScore,
		PP:          doc.PP,
		Accuracy:    float32(doc.Accuracy),
		MaxCombo:    doc.MaxCombo,
		TotalHits:   doc.TotalHits,
		Playcount:   doc.Playcount,
		Playtime:    doc.Playtime,
		GlobalRank:  globalRank,
		CountryRank: countryRank,
	}, nil
}

// fetchAllStats loads every mode's track for a user.
func (s *Server) fetchAllStats(ctx context.Context, userID int32, country string) (map[model.Mode]*model.Stats, error) {
	stats := make(map[model.Mode]*model.Stats, len(model.StatModes))
	for _, mode := range model.StatModes {
		st, err := s.fetchStats(ctx, userID, country, mode)
		if err != nil {
			return nil, err
		}
		stats[mode] = st
	}
	return stats, nil
}

// updateActivity stamps the session and its user document.
func (s *Server) updateActivity(ctx context.Context, u *User) {
	now := time.Now().Unix()

	s.mu.Lock()
	u.LatestActivity = now
	s.mu.Unlock()

	if err := s.store.SetLatestActivity(ctx, u.ID, now); err != nil {
		slog.Error("updating latest activity", "user", u.Name, "err", err)
	}
}

// SetPrivileges applies a privilege set to the account document and
// announces it on the bus; the pub/sub handler applies it to any live
// session, so web-side and chat-side changes share one path.
func (s *Server) SetPrivileges(ctx context.Context, userID int32, privileges model.Privileges) error {
	if err := s.store.SetPrivileges(ctx, userID, privileges); err != nil {
		return fmt.Errorf("storing privileges: %w", err)
	}

	payload := map[string]any{"id": userID, "privileges": int32(privileges)}
	if err := s.pub.Publish(ctx, "user-privileges", payload); err != nil {
		return fmt.Errorf("publishing privileges: %w", err)
	}

	return nil
}
