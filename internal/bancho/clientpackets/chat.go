package clientpackets

import (
	"fmt"

	"github.com/hikariosu/hikari/internal/packet"
)

// SendMessage is OSU_SEND_PUBLIC_MESSAGE / OSU_SEND_PRIVATE_MESSAGE.
// The client leaves sender and sender id blank; only content and
// recipient matter.
type SendMessage struct {
	Message packet.Message
}

// ParseSendMessage parses a SendMessage payload.
func ParseSendMessage(data []byte) (*SendMessage, error) {
	msg, err := packet.ReadMessage(packet.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("reading message: %w", err)
	}

	return &SendMessage{Message: msg}, nil
}

// Channel is OSU_CHANNEL_JOIN / OSU_CHANNEL_PART.
type Channel struct {
	Name string
}

// ParseChannel parses a Channel payload.
func ParseChannel(data []byte) (*Channel, error) {
	name, err := packet.NewReader(data).ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading channel name: %w", err)
	}

	return &Channel{Name: name}, nil
}
