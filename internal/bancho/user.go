// Package bancho holds the live server state: user sessions, chat channels
// and multiplayer matches, plus the packet handlers and login flow that
// mutate them. Entities refer to each other by id through the Sessions
// registries, never by direct pointer cycles.
package bancho

import (
	"sync"
	"time"

	"github.com/hikariosu/hikari/internal/bancho/serverpackets"
	"github.com/hikariosu/hikari/internal/geoloc"
	"github.com/hikariosu/hikari/internal/model"
)

// maxQueueBytes caps a session's pending bytes. A client that stops polling
// while broadcasts keep arriving is cut loose instead of growing the heap.
const maxQueueBytes = 1 << 20

// BotID is the reserved account id of the server-operated chat bot.
const BotID = 1

// NoMatch is the MatchID value of a user who is not in a multiplayer match.
const NoMatch = -1

// User is one live session. Mutable state is guarded by the owning Sessions
// mutex; the write queue carries its own short-held mutex because it is the
// hot path every broadcast touches.
type User struct {
	ID       int32
	Name     string
	SafeName string
	Token    string

	PasswordBcrypt string
	PasswordMD5    string
	Email          string
	RegisterTime   int64
	LoginTime      int64

	Geolocation geoloc.Geolocation
	UTCOffset   int8
	OsuVersion  string

	Privileges model.Privileges
	SilenceEnd int64

	Status  model.Status
	Stats   map[model.Mode]*model.Stats
	Friends []int32
	Blocked []int32

	// Channels holds the real names of joined channels. Spectating is the
	// host's user id (0 when not spectating); MatchID is NoMatch outside a
	// match. LastNpID remembers the map from the latest /np to the bot.
	Channels   []string
	Spectating int32
	Spectators []int32
	MatchID    int32
	LastNpID   int32

	LatestActivity int64

	Stealth       bool
	InLobby       bool
	Tourney       bool
	FriendOnlyDMs bool

	queueMu sync.Mutex
	queue   []byte
	dropped bool
}

// Enqueue appends packet bytes for the client's next poll. Once the cap is
// exceeded the queue is abandoned and the session marked for eviction.
// The bot never polls, so writes to it are discarded.
func (u *User) Enqueue(data []byte) {
	if u.IsBot() {
		return
	}
	u.queueMu.Lock()
	defer u.queueMu.Unlock()
	if u.dropped {
		return
	}
	if len(u.queue)+len(data) > maxQueueBytes {
		u.queue = nil
		u.dropped = true
		return
	}
	u.queue = append(u.queue, data...)
}

// Dequeue drains and returns every pending byte.
func (u *User) Dequeue() []byte {
	u.queueMu.Lock()
	defer u.queueMu.Unlock()
	data := u.queue
	u.queue = nil
	return data
}

// Dropped reports whether the queue overran and the session must go.
func (u *User) Dropped() bool {
	u.queueMu.Lock()
	defer u.queueMu.Unlock()
	return u.dropped
}

// Restricted reports whether the account is under restriction: logged in
// but invisible, with only a minimal packet subset allowed.
func (u *User) Restricted() bool {
	return u.Privileges.HasAny(model.PrivRestricted)
}

// Silenced reports whether the account may not chat right now.
func (u *User) Silenced() bool {
	return u.SilenceEnd > time.Now().Unix()
}

// RemainingSilence returns seconds of silence left, 0 when none.
func (u *User) RemainingSilence() int32 {
	remaining := u.SilenceEnd - time.Now().Unix()
	if remaining < 0 {
		return 0
	}
	return int32(remaining)
}

// Staff reports whether the account holds any staff bit.
func (u *User) Staff() bool {
	return u.Privileges.HasAny(model.PrivStaff)
}

// CanTourney reports whether the account may run tourney clients.
func (u *User) CanTourney() bool {
	return u.Privileges.HasAny(model.PrivSupporter)
}

// IsBot reports whether this is the server-operated bot session.
func (u *User) IsBot() bool {
	return u.ID == BotID
}

// CurrentStats returns the stat track of the mode the user is playing.
func (u *User) CurrentStats() *model.Stats {
	return u.Stats[u.Status.Mode]
}

// IsFriend reports whether id is on the user's friends list.
func (u *User) IsFriend(id int32) bool {
	for _, f := range u.Friends {
		if f == id {
			return true
		}
	}
	return false
}

// HasBlocked reports whether id is on the user's block list.
func (u *User) HasBlocked(id int32) bool {
	for _, b := range u.Blocked {
		if b == id {
			return true
		}
	}
	return false
}

// InChannel reports whether the user has joined the channel by real name.
func (u *User) InChannel(realName string) bool {
	for _, name := range u.Channels {
		if name == realName {
			return true
		}
	}
	return false
}

// PresencePacket builds this user's CHO_USER_PRESENCE frame. The bot gets
// its fixed variant.
func (u *User) PresencePacket() []byte {
	p := serverpackets.Presence{
		UserID:      u.ID,
		Name:        u.Name,
		UTCOffset:   u.UTCOffset,
		CountryCode: u.Geolocation.Country.Code,
		Privileges:  u.Privileges.Client(),
		Mode:        u.Status.Mode,
		Longitude:   u.Geolocation.Long,
		Latitude:    u.Geolocation.Lat,
		GlobalRank:  u.CurrentStats().GlobalRank,
	}
	if u.IsBot() {
		return serverpackets.BotPresence(p)
	}
	return serverpackets.UserPresence(p)
}

// StatsPacket builds this user's CHO_USER_STATS frame. The bot reports a
// fixed watching status instead of score data.
func (u *User) StatsPacket() []byte {
	if u.IsBot() {
		return serverpackets.BotStats(u.ID, "over hikari")
	}
	st := u.CurrentStats()
	return serverpackets.UserStats(serverpackets.StatsUpdate{
		UserID:      u.ID,
		Status:      u.Status,
		RankedScore: st.RankedScore,
		Accuracy:    st.Accuracy,
		Playcount:   st.Playcount,
		TotalScore:  st.TotalScore,
		GlobalRank:  st.GlobalRank,
		PP:          st.PP,
	})
}
