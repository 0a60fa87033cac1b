package serverpackets

import (
	"github.com/hikariosu/hikari/internal/packet"
)

// SendMessage builds CHO_SEND_MESSAGE carrying a chat message.
func SendMessage(m packet.Message) []byte {
	w := packet.Get(packet.ChoSendMessage)
	defer w.Put()

	m.WriteTo(w)
	return w.Finish()
}

// ChannelInfo builds CHO_CHANNEL_INFO for one channel listing.
func ChannelInfo(c packet.ChannelInfo) []byte {
	w := packet.Get(packet.ChoChannelInfo)
	defer w.Put()

	c.WriteTo(w)
	return w.Finish()
}

// ChannelJoinSuccess builds CHO_CHANNEL_JOIN_SUCCESS, confirming the
// client may render the channel tab.
func ChannelJoinSuccess(name string) []byte {
	w := packet.Get(packet.ChoChannelJoinSuccess)
	defer w.Put()

	w.WriteString(name)
	return w.Finish()
}

// ChannelKick builds CHO_CHANNEL_KICK, forcing the client out of a
// channel tab.
func ChannelKick(name string) []byte {
	w := packet.Get(packet.ChoChannelKick)
	defer w.Put()

	w.WriteString(name)
	return w.Finish()
}

// ChannelInfoEnd builds CHO_CHANNEL_INFO_END, closing the channel
// listing burst during login.
func ChannelInfoEnd() []byte {
	w := packet.Get(packet.ChoChannelInfoEnd)
	defer w.Put()

	return w.Finish()
}

// TargetSilenced builds CHO_TARGET_IS_SILENCED for a private message
// that could not be delivered because the recipient is silenced.
func TargetSilenced(targetName string) []byte {
	w := packet.Get(packet.ChoTargetIsSilenced)
	defer w.Put()

	packet.Message{Recipient: targetName}.WriteTo(w)
	return w.Finish()
}

// PrivateMessageBlocked builds CHO_USER_DM_BLOCKED for a private
// message rejected by the recipient's friends-only setting.
func PrivateMessageBlocked(targetName string) []byte {
	w := packet.Get(packet.ChoUserDMBlocked)
	defer w.Put()

	packet.Message{Recipient: targetName}.WriteTo(w)
	return w.Finish()
}

// UserSilenced builds CHO_USER_SILENCED, telling clients to drop the
// user's pending chat lines.
func UserSilenced(userID int32) []byte {
	w := packet.Get(packet.ChoUserSilenced)
	defer w.Put()

	w.WriteInt32(userID)
	return w.Finish()
}
