// Package commands implements the chat commands the server bot answers.
// A command line reaches Run either as a "!"-prefixed channel message or
// as any private message to the bot; the returned reply is spoken by the
// bot, empty when there is nothing to say.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hikariosu/hikari/internal/bancho"
	"github.com/hikariosu/hikari/internal/model"
	"github.com/hikariosu/hikari/internal/store"
)

const replyNotFound = "Command not found!"

// Store is the persistence surface commands write through.
type Store interface {
	UserByName(ctx context.Context, name string) (*store.User, error)
	SetSilenceEnd(ctx context.Context, id int32, end int64) error
	AppendLogAction(ctx context.Context, userID int32, action, sender, info string) error
	SetBeatmapStatus(ctx context.Context, md5 string, status model.RankedStatus) error
}

// Beatmaps resolves maps by id with the osu! API as fallback.
// *beatmap.Fetcher implements it.
type Beatmaps interface {
	ByID(ctx context.Context, id int32) (*store.Beatmap, error)
	BySetID(ctx context.Context, setID int32) ([]store.Beatmap, error)
}

// Publisher pushes command side effects onto the shared message bus.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

type command struct {
	run func(ctx context.Context, sender *bancho.User, args []string) string
	// privileges gates the command: the sender needs at least one of
	// these bits. Unauthorized senders get the same reply as an unknown
	// command so the command set is not discoverable.
	privileges model.Privileges
}

// Registry routes command lines to their handlers. It implements
// bancho.CommandRunner.
type Registry struct {
	srv  *bancho.Server
	st   Store
	maps Beatmaps
	pub  Publisher

	commands map[string]command
}

// New builds the registry with the full command set registered.
func New(srv *bancho.Server, st Store, maps Beatmaps, pub Publisher) *Registry {
	r := &Registry{
		srv:      srv,
		st:       st,
		maps:     maps,
		pub:      pub,
		commands: make(map[string]command),
	}
	r.register(command{r.mapStatus, model.PrivNominator}, "!map", "!m")
	r.register(command{r.restrict, model.PrivAdmin}, "!restrict")
	r.register(command{r.unrestrict, model.PrivAdmin}, "!unrestrict")
	r.register(command{r.silence, model.PrivModerator}, "!silence")
	r.register(command{r.unsilence, model.PrivModerator}, "!unsilence")
	return r
}

func (r *Registry) register(c command, names ...string) {
	for _, name := range names {
		r.commands[name] = c
	}
}

// nowPlayingRe matches the /np action line the client sends to the bot,
// capturing the beatmap id from the embedded map link.
var nowPlayingRe = regexp.MustCompile(`^\x01ACTION is (?:playing|editing|watching|listening to) \[https://osu\.[^/]+/(?:b|beatmaps)/(\d+)`)

// Run dispatches one chat line and returns the bot's reply.
func (r *Registry) Run(ctx context.Context, sender *bancho.User, message string) string {
	if strings.HasPrefix(message, "\x01ACTION") {
		// /np and friends. Remember the map so !map can act on it;
		// other actions are not worth a "not found" reply.
		if m := nowPlayingRe.FindStringSubmatch(message); m != nil {
			id, err := strconv.ParseInt(m[1], 10, 32)
			if err == nil {
				r.srv.SetLastNp(sender, int32(id))
			}
		}
		return ""
	}

	parts := strings.Split(message, " ")
	c, ok := r.commands[parts[0]]
	if !ok || !r.srv.UserPrivileges(sender).HasAny(c.privileges) {
		return replyNotFound
	}
	return c.run(ctx, sender, parts[1:])
}

func (r *Registry) publish(ctx context.Context, topic string, payload any) {
	if err := r.pub.Publish(ctx, topic, payload); err != nil {
		slog.Error("failed to publish command event", "topic", topic, "error", err)
	}
}

// lookupUser resolves a command target from the user documents, so
// offline accounts can be acted on too. The reply is set when the target
// could not be found.
func (r *Registry) lookupUser(ctx context.Context, username string) (*store.User, string) {
	target, err := r.st.UserByName(ctx, username)
	if err != nil {
		slog.Error("command target lookup failed", "user", username, "error", err)
	}
	if target == nil {
		return nil, fmt.Sprintf("Couldn't find user %s!", username)
	}
	return target, ""
}

// mapStatus is "!map <rank|unrank|love> <set|map>": it moves the last
// /np'd map (or its whole set) to a new ranked status and freezes it
// there.
func (r *Registry) mapStatus(ctx context.Context, sender *bancho.User, args []string) string {
	npID := r.srv.LastNp(sender)
	if npID == 0 {
		return "You must /np a map first!"
	}
	if len(args) < 1 {
		return "You must provide a new status!"
	}
	if len(args) < 2 || (args[1] != "set" && args[1] != "map") {
		return "Invalid rank type! (set/map)"
	}
	status, ok := model.RankedStatusFromName(args[0])
	if !ok {
		return "Invalid status! (rank/unrank/love/unlove)"
	}

	bmap, err := r.maps.ByID(ctx, npID)
	if err != nil {
		slog.Error("command map lookup failed", "map", npID, "error", err)
		return "Couldn't find map!"
	}
	if bmap == nil {
		return "Couldn't find map!"
	}

	maps := []store.Beatmap{*bmap}
	if args[1] == "set" {
		maps, err = r.maps.BySetID(ctx, bmap.SetID)
		if err != nil {
			slog.Error("command set lookup failed", "set", bmap.SetID, "error", err)
			return "Couldn't find map!"
		}
		if len(maps) == 0 {
			return "Couldn't find map!"
		}
	}

	for i := range maps {
		if err := r.st.SetBeatmapStatus(ctx, maps[i].MD5, status); err != nil {
			slog.Error("failed to update map status", "md5", maps[i].MD5, "error", err)
			return "Failed to update the map, try again later!"
		}
		r.publish(ctx, "map-status", map[string]any{
			"md5":        maps[i].MD5,
			"new_status": int(status),
		})
	}

	slog.Info("map status changed",
		"user", sender.Name,
		"status", args[0],
		"maps", len(maps),
	)
	return "Map/set updated!"
}

// restrict is "!restrict <name> <reason...>".
func (r *Registry) restrict(ctx context.Context, sender *bancho.User, args []string) string {
	if len(args) < 2 {
		return "You must provide a user and a reason!"
	}
	reason := strings.Join(args[1:], " ")

	target, reply := r.lookupUser(ctx, args[0])
	if target == nil {
		return reply
	}
	if target.Privileges.HasAny(model.PrivRestricted) {
		return fmt.Sprintf("%s is already restricted!", target.Name)
	}

	if err := r.st.AppendLogAction(ctx, target.ID, "restrict", sender.Name, reason); err != nil {
		slog.Error("failed to log restriction", "target", target.Name, "error", err)
	}
	if err := r.srv.SetPrivileges(ctx, target.ID, target.Privileges|model.PrivRestricted); err != nil {
		slog.Error("failed to restrict user", "target", target.Name, "error", err)
		return "Failed to restrict the user, try again later!"
	}
	return fmt.Sprintf("%s has been restricted for %s!", target.Name, reason)
}

// unrestrict is "!unrestrict <name> <reason...>".
func (r *Registry) unrestrict(ctx context.Context, sender *bancho.User, args []string) string {
	if len(args) < 2 {
		return "You must provide a user and a reason!"
	}
	reason := strings.Join(args[1:], " ")

	target, reply := r.lookupUser(ctx, args[0])
	if target == nil {
		return reply
	}
	if !target.Privileges.HasAny(model.PrivRestricted) {
		return fmt.Sprintf("%s is already unrestricted!", target.Name)
	}

	if err := r.st.AppendLogAction(ctx, target.ID, "unrestrict", sender.Name, reason); err != nil {
		slog.Error("failed to log unrestriction", "target", target.Name, "error", err)
	}
	if err := r.srv.SetPrivileges(ctx, target.ID, target.Privileges&^model.PrivRestricted); err != nil {
		slog.Error("failed to unrestrict user", "target", target.Name, "error", err)
		return "Failed to unrestrict the user, try again later!"
	}
	return fmt.Sprintf("%s has been unrestricted for %s!", target.Name, reason)
}

// silence is "!silence <name> <seconds> <reason...>".
func (r *Registry) silence(ctx context.Context, sender *bancho.User, args []string) string {
	if len(args) < 3 {
		return "You must provide a user, a duration and a reason!"
	}
	seconds, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || seconds <= 0 {
		return "Invalid duration!"
	}
	reason := strings.Join(args[2:], " ")

	target, reply := r.lookupUser(ctx, args[0])
	if target == nil {
		return reply
	}

	end := time.Now().Unix() + seconds
	if err := r.st.SetSilenceEnd(ctx, target.ID, end); err != nil {
		slog.Error("failed to persist silence", "target", target.Name, "error", err)
		return "Failed to silence the user, try again later!"
	}
	if err := r.st.AppendLogAction(ctx, target.ID, "silence", sender.Name, reason); err != nil {
		slog.Error("failed to log silence", "target", target.Name, "error", err)
	}
	if live := r.srv.UserByName(target.Name); live != nil {
		r.srv.Silence(live, end)
	}
	return fmt.Sprintf("%s has been silenced for %s!", target.Name, reason)
}

// unsilence is "!unsilence <name>".
func (r *Registry) unsilence(ctx context.Context, sender *bancho.User, args []string) string {
	if len(args) < 1 {
		return "You must provide a user!"
	}

	target, reply := r.lookupUser(ctx, args[0])
	if target == nil {
		return reply
	}

	if err := r.st.SetSilenceEnd(ctx, target.ID, 0); err != nil {
		slog.Error("failed to lift silence", "target", target.Name, "error", err)
		return "Failed to unsilence the user, try again later!"
	}
	if err := r.st.AppendLogAction(ctx, target.ID, "unsilence", sender.Name, ""); err != nil {
		slog.Error("failed to log unsilence", "target", target.Name, "error", err)
	}
	if live := r.srv.UserByName(target.Name); live != nil {
		r.srv.Unsilence(live)
	}
	return fmt.Sprintf("%s is no longer silenced!", target.Name)
}
