// Package serverpackets builds the frames the server sends to osu!
// clients. Builders return finished frames ready to be enqueued on a
// session, header included.
package serverpackets

import (
	"github.com/hikariosu/hikari/internal/packet"
)

// Login replies carried in CHO_USER_ID. Non-negative values are real
// user ids; the rest tell the client why the login was refused.
const (
	LoginFailed      int32 = -1
	LoginOldClient   int32 = -2
	LoginServerError int32 = -5
)

// UserID builds CHO_USER_ID, the first packet of every login response.
func UserID(id int32) []byte {
	w := packet.Get(packet.ChoUserID)
	defer w.Put()

	w.WriteInt32(id)
	return w.Finish()
}

// ProtocolVersion builds CHO_PROTOCOL_VERSION.
func ProtocolVersion(version int32) []byte {
	w := packet.Get(packet.ChoProtocolVersion)
	defer w.Put()

	w.WriteInt32(version)
	return w.Finish()
}

// BanchoPrivileges builds CHO_PRIVILEGES with the client-facing
// privilege bits.
func BanchoPrivileges(priv int32) []byte {
	w := packet.Get(packet.ChoPrivileges)
	defer w.Put()

	w.WriteInt32(priv)
	return w.Finish()
}

// FriendsList builds CHO_FRIENDS_LIST.
func FriendsList(friends []int32) []byte {
	w := packet.Get(packet.ChoFriendsList)
	defer w.Put()

	w.WriteIntList(friends)
	return w.Finish()
}

// MenuIcon builds CHO_MAIN_MENU_ICON. The client expects the image and
// click URLs joined by a pipe.
func MenuIcon(iconURL, clickURL string) []byte {
	w := packet.Get(packet.ChoMainMenuIcon)
	defer w.Put()

	w.WriteString(iconURL + "|" + clickURL)
	return w.Finish()
}

// SilenceEnd builds CHO_SILENCE_END with the remaining silence in
// seconds, 0 when the user is not silenced.
func SilenceEnd(seconds int32) []byte {
	w := packet.Get(packet.ChoSilenceEnd)
	defer w.Put()

	w.WriteInt32(seconds)
	return w.Finish()
}

// RestartServer builds CHO_RESTART, telling the client to reconnect
// after the given delay in milliseconds.
func RestartServer(millis int32) []byte {
	w := packet.Get(packet.ChoRestart)
	defer w.Put()

	w.WriteInt32(millis)
	return w.Finish()
}

// VersionUpdateForced builds CHO_VERSION_UPDATE_FORCED, which makes the
// client update before it may log in again.
func VersionUpdateForced() []byte {
	w := packet.Get(packet.ChoVersionUpdateForced)
	defer w.Put()

	return w.Finish()
}

// AccountRestricted builds CHO_ACCOUNT_RESTRICTED.
func AccountRestricted() []byte {
	w := packet.Get(packet.ChoAccountRestricted)
	defer w.Put()

	return w.Finish()
}

// Notification builds CHO_NOTIFICATION, shown as a toast by the client.
func Notification(msg string) []byte {
	w := packet.Get(packet.ChoNotification)
	defer w.Put()

	w.WriteString(msg)
	return w.Finish()
}

// Pong builds CHO_PONG, the empty keepalive reply.
func Pong() []byte {
	w := packet.Get(packet.ChoPong)
	defer w.Put()

	return w.Finish()
}
