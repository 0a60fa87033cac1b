package bancho

import (
	"github.com/hikariosu/hikari/internal/model"
	"github.com/hikariosu/hikari/internal/packet"
)

// Channel is a chat room. Public channels keep Name == RealName; ephemeral
// spectator and match channels show a generic Name ("#spectator",
// "#multiplayer") while routing on RealName ("#spec_<id>", "#multi_<id>").
type Channel struct {
	Name       string
	RealName   string
	Topic      string
	Privileges model.Privileges
	AutoJoin   bool
	Instance   bool

	members map[int32]*User
}

// NewChannel creates a public channel whose real name equals its name.
func NewChannel(name, topic string, privileges model.Privileges, autoJoin bool) *Channel {
	return &Channel{
		Name:       name,
		RealName:   name,
		Topic:      topic,
		Privileges: privileges,
		AutoJoin:   autoJoin,
		members:    make(map[int32]*User),
	}
}

// NewInstanceChannel creates an ephemeral channel that is only announced to
// its own members.
func NewInstanceChannel(name, realName, topic string) *Channel {
	return &Channel{
		Name:     name,
		RealName: realName,
		Topic:    topic,
		Instance: true,
		members:  make(map[int32]*User),
	}
}

// HasPermission reports whether the privilege set may see and join the
// channel. An ungated channel admits everyone.
func (c *Channel) HasPermission(p model.Privileges) bool {
	if c.Privileges == 0 {
		return true
	}
	return p.HasAny(c.Privileges)
}

// Contains reports whether the user id is a member.
func (c *Channel) Contains(id int32) bool {
	_, ok := c.members[id]
	return ok
}

// MemberCount returns the current member count.
func (c *Channel) MemberCount() int {
	return len(c.members)
}

func (c *Channel) addMember(u *User) {
	c.members[u.ID] = u
}

func (c *Channel) removeMember(u *User) {
	delete(c.members, u.ID)
}

// Broadcast enqueues data to every member except the listed ids.
func (c *Channel) Broadcast(data []byte, immune ...int32) {
	for _, u := range c.members {
		skip := false
		for _, id := range immune {
			if u.ID == id {
				skip = true
				break
			}
		}
		if !skip {
			u.Enqueue(data)
		}
	}
}

// Info returns the wire description the client renders in its channel list.
func (c *Channel) Info() packet.ChannelInfo {
	return packet.ChannelInfo{
		Name:      c.Name,
		Topic:     c.Topic,
		UserCount: int32(len(c.members)),
	}
}

// Channels indexes chat rooms by real name. The owning Server mutex guards
// every method.
type Channels struct {
	byRealName map[string]*Channel
}

// NewChannels returns an empty channel index.
func NewChannels() *Channels {
	return &Channels{byRealName: make(map[string]*Channel)}
}

// Add inserts a channel.
func (cs *Channels) Add(c *Channel) {
	cs.byRealName[c.RealName] = c
}

// Remove drops a channel.
func (cs *Channels) Remove(c *Channel) {
	delete(cs.byRealName, c.RealName)
}

// ByRealName returns the channel with that routing key, nil if absent.
func (cs *Channels) ByRealName(name string) *Channel {
	return cs.byRealName[name]
}

// ForEach visits every channel.
func (cs *Channels) ForEach(fn func(*Channel)) {
	for _, c := range cs.byRealName {
		fn(c)
	}
}
