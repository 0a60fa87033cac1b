package serverpackets

import (
	"github.com/hikariosu/hikari/internal/model"
	"github.com/hikariosu/hikari/internal/packet"
)

// Presence carries the fields of a CHO_USER_PRESENCE frame.
//
// Packet structure:
//   - user id     (i32)
//   - username    (string)
//   - utc offset  (u8), client offset shifted by +24
//   - country     (u8), numeric country code
//   - privileges  (u8), client privilege bits, vanilla mode in bits 5+
//   - longitude   (f32)
//   - latitude    (f32)
//   - global rank (i32)
type Presence struct {
	UserID      int32
	Name        string
	UTCOffset   int8
	CountryCode uint8
	Privileges  model.ClientPrivileges
	Mode        model.Mode
	Longitude   float32
	Latitude    float32
	GlobalRank  int32
}

// UserPresence builds CHO_USER_PRESENCE.
func UserPresence(p Presence) []byte {
	w := packet.Get(packet.ChoUserPresence)
	defer w.Put()

	w.WriteInt32(p.UserID)
	w.WriteString(p.Name)
	w.WriteByte(byte(p.UTCOffset + 24))
	w.WriteByte(p.CountryCode)
	w.WriteByte(byte(p.Privileges) | byte(p.Mode.AsVanilla())<<5)
	w.WriteFloat32(p.Longitude)
	w.WriteFloat32(p.Latitude)
	w.WriteInt32(p.GlobalRank)
	return w.Finish()
}

// BotPresence builds CHO_USER_PRESENCE for the bot: fixed UTC offset,
// no mode packed into the privilege byte, no rank.
func BotPresence(p Presence) []byte {
	w := packet.Get(packet.ChoUserPresence)
	defer w.Put()

	w.WriteInt32(p.UserID)
	w.WriteString(p.Name)
	w.WriteByte(24)
	w.WriteByte(p.CountryCode)
	w.WriteByte(byte(p.Privileges))
	w.WriteFloat32(p.Longitude)
	w.WriteFloat32(p.Latitude)
	w.WriteInt32(0)
	return w.Finish()
}

// StatsUpdate carries the fields of a CHO_USER_STATS frame.
type StatsUpdate struct {
	UserID      int32
	Status      model.Status
	RankedScore int64
	Accuracy    float32 // percentage, 0-100
	Playcount   int32
	TotalScore  int64
	GlobalRank  int32
	PP          int32
}

// UserStats builds CHO_USER_STATS. Performance values that overflow the
// wire field's i16 range ride in the ranked score column instead, which
// the client renders in full.
func UserStats(s StatsUpdate) []byte {
	w := packet.Get(packet.ChoUserStats)
	defer w.Put()

	rankedScore := s.RankedScore
	pp := s.PP
	if pp > 0x7FFF {
		rankedScore = int64(pp)
		pp = 0
	}

	w.WriteInt32(s.UserID)
	w.WriteByte(byte(s.Status.Action))
	w.WriteString(s.Status.InfoText)
	w.WriteString(s.Status.MapMD5)
	w.WriteInt32(int32(s.Status.Mods))
	w.WriteByte(byte(s.Status.Mode.AsVanilla()))
	w.WriteInt32(s.Status.MapID)
	w.WriteInt64(rankedScore)
	w.WriteFloat32(s.Accuracy / 100.0)
	w.WriteInt32(s.Playcount)
	w.WriteInt64(s.TotalScore)
	w.WriteInt32(s.GlobalRank)
	w.WriteInt16(int16(pp))
	return w.Finish()
}

// BotStats builds CHO_USER_STATS for the bot, which idles watching over
// the server with zeroed score fields.
func BotStats(userID int32, infoText string) []byte {
	w := packet.Get(packet.ChoUserStats)
	defer w.Put()

	w.WriteInt32(userID)
	w.WriteByte(byte(model.ActionWatching))
	w.WriteString(infoText)
	w.WriteString("")
	w.WriteInt32(int32(model.ModNomod))
	w.WriteByte(byte(model.ModeStandard))
	w.WriteInt32(0)
	w.WriteInt64(0)
	w.WriteFloat32(0)
	w.WriteInt32(0)
	w.WriteInt64(0)
	w.WriteInt32(0)
	w.WriteInt16(0)
	return w.Finish()
}

// Logout builds CHO_USER_LOGOUT announcing a session's departure.
func Logout(userID int32) []byte {
	w := packet.Get(packet.ChoUserLogout)
	defer w.Put()

	w.WriteInt32(userID)
	w.WriteByte(0)
	return w.Finish()
}
