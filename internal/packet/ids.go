package packet

// ID is a bancho packet identifier. Osu* ids arrive from the client, Cho*
// ids are sent by the server. The numbering is part of the wire contract
// shared with every osu! client build and must not change.
type ID uint16

const (
	OsuChangeAction                ID = 0
	OsuSendPublicMessage           ID = 1
	OsuLogout                      ID = 2
	OsuRequestStatusUpdate         ID = 3
	OsuPing                        ID = 4
	ChoUserID                      ID = 5
	ChoSendMessage                 ID = 7
	ChoPong                        ID = 8
	ChoHandleIRCChangeUsername     ID = 9
	ChoHandleIRCQuit               ID = 10
	ChoUserStats                   ID = 11
	ChoUserLogout                  ID = 12
	ChoSpectatorJoined             ID = 13
	ChoSpectatorLeft               ID = 14
	ChoSpectateFrames              ID = 15
	OsuStartSpectating             ID = 16
	OsuStopSpectating              ID = 17
	OsuSpectateFrames              ID = 18
	ChoVersionUpdate               ID = 19
	OsuErrorReport                 ID = 20
	OsuCantSpectate                ID = 21
	ChoSpectatorCantSpectate       ID = 22
	ChoGetAttention                ID = 23
	ChoNotification                ID = 24
	OsuSendPrivateMessage          ID = 25
	ChoUpdateMatch                 ID = 26
	ChoNewMatch                    ID = 27
	ChoDisposeMatch                ID = 28
	OsuPartLobby                   ID = 29
	OsuJoinLobby                   ID = 30
	OsuCreateMatch                 ID = 31
	OsuJoinMatch                   ID = 32
	OsuPartMatch                   ID = 33
	ChoToggleBlockNonFriendDMs     ID = 34
	ChoMatchJoinSuccess            ID = 36
	ChoMatchJoinFail               ID = 37
	OsuMatchChangeSlot             ID = 38
	OsuMatchReady                  ID = 39
	OsuMatchLock                   ID = 40
	OsuMatchChangeSettings         ID = 41
	ChoFellowSpectatorJoined       ID = 42
	ChoFellowSpectatorLeft         ID = 43
	OsuMatchStart                  ID = 44
	ChoAllPlayersLoaded            ID = 45
	ChoMatchStart                  ID = 46
	OsuMatchScoreUpdate            ID = 47
	ChoMatchScoreUpdate            ID = 48
	OsuMatchComplete               ID = 49
	ChoMatchTransferHost           ID = 50
	OsuMatchChangeMods             ID = 51
	OsuMatchLoadComplete           ID = 52
	ChoMatchAllPlayersLoaded       ID = 53
	OsuMatchNoBeatmap              ID = 54
	OsuMatchNotReady               ID = 55
	OsuMatchFailed                 ID = 56
	ChoMatchPlayerFailed           ID = 57
	ChoMatchComplete               ID = 58
	OsuMatchHasBeatmap             ID = 59
	OsuMatchSkipRequest            ID = 60
	ChoMatchSkip                   ID = 61
	ChoUnauthorized                ID = 62
	OsuChannelJoin                 ID = 63
	ChoChannelJoinSuccess          ID = 64
	ChoChannelInfo                 ID = 65
	ChoChannelKick                 ID = 66
	ChoChannelAutoJoin             ID = 67
	OsuBeatmapInfoRequest          ID = 68
	ChoBeatmapInfoReply            ID = 69
	OsuMatchTransferHost           ID = 70
	ChoPrivileges                  ID = 71
	ChoFriendsList                 ID = 72
	OsuFriendAdd                   ID = 73
	OsuFriendRemove                ID = 74
	ChoProtocolVersion             ID = 75
	ChoMainMenuIcon                ID = 76
	OsuMatchChangeTeam             ID = 77
	OsuChannelPart                 ID = 78
	OsuReceiveUpdates              ID = 79
	ChoMonitor                     ID = 80
	ChoMatchPlayerSkipped          ID = 81
	OsuSetAwayMessage              ID = 82
	ChoUserPresence                ID = 83
	OsuIRCOnly                     ID = 84
	OsuUserStatsRequest            ID = 85
	ChoRestart                     ID = 86
	OsuMatchInvite                 ID = 87
	ChoMatchInvite                 ID = 88
	ChoChannelInfoEnd              ID = 89
	OsuMatchChangePassword         ID = 90
	ChoMatchChangePassword         ID = 91
	ChoSilenceEnd                  ID = 92
	OsuTournamentMatchInfoRequest  ID = 93
	ChoUserSilenced                ID = 94
	ChoUserPresenceSingle          ID = 95
	ChoUserPresenceBundle          ID = 96
	OsuUserPresenceRequest         ID = 97
	OsuUserPresenceRequestAll      ID = 98
	OsuToggleBlockNonFriendDMs     ID = 99
	ChoUserDMBlocked               ID = 100
	ChoTargetIsSilenced            ID = 101
	ChoVersionUpdateForced         ID = 102
	ChoSwitchServer                ID = 103
	ChoAccountRestricted           ID = 104
	ChoRTX                         ID = 105
	ChoMatchAbort                  ID = 106
	ChoSwitchTournamentServer      ID = 107
	OsuTournamentJoinMatchChannel  ID = 108
	OsuTournamentLeaveMatchChannel ID = 109
)

var idNames = map[ID]string{
	OsuChangeAction:                "OSU_CHANGE_ACTION",
	OsuSendPublicMessage:           "OSU_SEND_PUBLIC_MESSAGE",
	OsuLogout:                      "OSU_LOGOUT",
	OsuRequestStatusUpdate:         "OSU_REQUEST_STATUS_UPDATE",
	OsuPing:                        "OSU_PING",
	ChoUserID:                      "CHO_USER_ID",
	ChoSendMessage:                 "CHO_SEND_MESSAGE",
	ChoPong:                        "CHO_PONG",
	ChoHandleIRCChangeUsername:     "CHO_HANDLE_IRC_CHANGE_USERNAME",
	ChoHandleIRCQuit:               "CHO_HANDLE_IRC_QUIT",
	ChoUserStats:                   "CHO_USER_STATS",
	ChoUserLogout:                  "CHO_USER_LOGOUT",
	ChoSpectatorJoined:             "CHO_SPECTATOR_JOINED",
	ChoSpectatorLeft:               "CHO_SPECTATOR_LEFT",
	ChoSpectateFrames:              "CHO_SPECTATE_FRAMES",
	OsuStartSpectating:             "OSU_START_SPECTATING",
	OsuStopSpectating:              "OSU_STOP_SPECTATING",
	OsuSpectateFrames:              "OSU_SPECTATE_FRAMES",
	ChoVersionUpdate:               "CHO_VERSION_UPDATE",
	OsuErrorReport:                 "OSU_ERROR_REPORT",
	OsuCantSpectate:                "OSU_CANT_SPECTATE",
	ChoSpectatorCantSpectate:       "CHO_SPECTATOR_CANT_SPECTATE",
	ChoGetAttention:                "CHO_GET_ATTENTION",
	ChoNotification:                "CHO_NOTIFICATION",
	OsuSendPrivateMessage:          "OSU_SEND_PRIVATE_MESSAGE",
	ChoUpdateMatch:                 "CHO_UPDATE_MATCH",
	ChoNewMatch:                    "CHO_NEW_MATCH",
	ChoDisposeMatch:                "CHO_DISPOSE_MATCH",
	OsuPartLobby:                   "OSU_PART_LOBBY",
	OsuJoinLobby:                   "OSU_JOIN_LOBBY",
	OsuCreateMatch:                 "OSU_CREATE_MATCH",
	OsuJoinMatch:                   "OSU_JOIN_MATCH",
	OsuPartMatch:                   "OSU_PART_MATCH",
	ChoToggleBlockNonFriendDMs:     "CHO_TOGGLE_BLOCK_NON_FRIEND_DMS",
	ChoMatchJoinSuccess:            "CHO_MATCH_JOIN_SUCCESS",
	ChoMatchJoinFail:               "CHO_MATCH_JOIN_FAIL",
	OsuMatchChangeSlot:             "OSU_MATCH_CHANGE_SLOT",
	OsuMatchReady:                  "OSU_MATCH_READY",
	OsuMatchLock:                   "OSU_MATCH_LOCK",
	OsuMatchChangeSettings:         "OSU_MATCH_CHANGE_SETTINGS",
	ChoFellowSpectatorJoined:       "CHO_FELLOW_SPECTATOR_JOINED",
	ChoFellowSpectatorLeft:         "CHO_FELLOW_SPECTATOR_LEFT",
	OsuMatchStart:                  "OSU_MATCH_START",
	ChoAllPlayersLoaded:            "CHO_ALL_PLAYERS_LOADED",
	ChoMatchStart:                  "CHO_MATCH_START",
	OsuMatchScoreUpdate:            "OSU_MATCH_SCORE_UPDATE",
	ChoMatchScoreUpdate:            "CHO_MATCH_SCORE_UPDATE",
	OsuMatchComplete:               "OSU_MATCH_COMPLETE",
	ChoMatchTransferHost:           "CHO_MATCH_TRANSFER_HOST",
	OsuMatchChangeMods:             "OSU_MATCH_CHANGE_MODS",
	OsuMatchLoadComplete:           "OSU_MATCH_LOAD_COMPLETE",
	ChoMatchAllPlayersLoaded:       "CHO_MATCH_ALL_PLAYERS_LOADED",
	OsuMatchNoBeatmap:              "OSU_MATCH_NO_BEATMAP",
	OsuMatchNotReady:               "OSU_MATCH_NOT_READY",
	OsuMatchFailed:                 "OSU_MATCH_FAILED",
	ChoMatchPlayerFailed:           "CHO_MATCH_PLAYER_FAILED",
	ChoMatchComplete:               "CHO_MATCH_COMPLETE",
	OsuMatchHasBeatmap:             "OSU_MATCH_HAS_BEATMAP",
	OsuMatchSkipRequest:            "OSU_MATCH_SKIP_REQUEST",
	ChoMatchSkip:                   "CHO_MATCH_SKIP",
	ChoUnauthorized:                "CHO_UNAUTHORIZED",
	OsuChannelJoin:                 "OSU_CHANNEL_JOIN",
	ChoChannelJoinSuccess:          "CHO_CHANNEL_JOIN_SUCCESS",
	ChoChannelInfo:                 "CHO_CHANNEL_INFO",
	ChoChannelKick:                 "CHO_CHANNEL_KICK",
	ChoChannelAutoJoin:             "CHO_CHANNEL_AUTO_JOIN",
	OsuBeatmapInfoRequest:          "OSU_BEATMAP_INFO_REQUEST",
	ChoBeatmapInfoReply:            "CHO_BEATMAP_INFO_REPLY",
	OsuMatchTransferHost:           "OSU_MATCH_TRANSFER_HOST",
	ChoPrivileges:                  "CHO_PRIVILEGES",
	ChoFriendsList:                 "CHO_FRIENDS_LIST",
	OsuFriendAdd:                   "OSU_FRIEND_ADD",
	OsuFriendRemove:                "OSU_FRIEND_REMOVE",
	ChoProtocolVersion:             "CHO_PROTOCOL_VERSION",
	ChoMainMenuIcon:                "CHO_MAIN_MENU_ICON",
	OsuMatchChangeTeam:             "OSU_MATCH_CHANGE_TEAM",
	OsuChannelPart:                 "OSU_CHANNEL_PART",
	OsuReceiveUpdates:              "OSU_RECEIVE_UPDATES",
	ChoMonitor:                     "CHO_MONITOR",
	ChoMatchPlayerSkipped:          "CHO_MATCH_PLAYER_SKIPPED",
	OsuSetAwayMessage:              "OSU_SET_AWAY_MESSAGE",
	ChoUserPresence:                "CHO_USER_PRESENCE",
	OsuIRCOnly:                     "OSU_IRC_ONLY",
	OsuUserStatsRequest:            "OSU_USER_STATS_REQUEST",
	ChoRestart:                     "CHO_RESTART",
	OsuMatchInvite:                 "OSU_MATCH_INVITE",
	ChoMatchInvite:                 "CHO_MATCH_INVITE",
	ChoChannelInfoEnd:              "CHO_CHANNEL_INFO_END",
	OsuMatchChangePassword:         "OSU_MATCH_CHANGE_PASSWORD",
	ChoMatchChangePassword:         "CHO_MATCH_CHANGE_PASSWORD",
	ChoSilenceEnd:                  "CHO_SILENCE_END",
	OsuTournamentMatchInfoRequest:  "OSU_TOURNAMENT_MATCH_INFO_REQUEST",
	ChoUserSilenced:                "CHO_USER_SILENCED",
	ChoUserPresenceSingle:          "CHO_USER_PRESENCE_SINGLE",
	ChoUserPresenceBundle:          "CHO_USER_PRESENCE_BUNDLE",
	OsuUserPresenceRequest:         "OSU_USER_PRESENCE_REQUEST",
	OsuUserPresenceRequestAll:      "OSU_USER_PRESENCE_REQUEST_ALL",
	OsuToggleBlockNonFriendDMs:     "OSU_TOGGLE_BLOCK_NON_FRIEND_DMS",
	ChoUserDMBlocked:               "CHO_USER_DM_BLOCKED",
	ChoTargetIsSilenced:            "CHO_TARGET_IS_SILENCED",
	ChoVersionUpdateForced:         "CHO_VERSION_UPDATE_FORCED",
	ChoSwitchServer:                "CHO_SWITCH_SERVER",
	ChoAccountRestricted:           "CHO_ACCOUNT_RESTRICTED",
	ChoRTX:                         "CHO_RTX",
	ChoMatchAbort:                  "CHO_MATCH_ABORT",
	ChoSwitchTournamentServer:      "CHO_SWITCH_TOURNAMENT_SERVER",
	OsuTournamentJoinMatchChannel:  "OSU_TOURNAMENT_JOIN_MATCH_CHANNEL",
	OsuTournamentLeaveMatchChannel: "OSU_TOURNAMENT_LEAVE_MATCH_CHANNEL",
}

// String returns the canonical enum name, e.g. "OSU_PING".
func (id ID) String() string {
	if name, ok := idNames[id]; ok {
		return name
	}
	return "UNKNOWN"
}
