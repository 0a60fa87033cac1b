package packet

import "fmt"

// Message is the chat payload shared by OSU_SEND_PUBLIC_MESSAGE,
// OSU_SEND_PRIVATE_MESSAGE and CHO_SEND_MESSAGE.
type Message struct {
	Sender    string
	Content   string
	Recipient string
	SenderID  int32
}

// ReadMessage decodes a Message from r.
func ReadMessage(r *Reader) (Message, error) {
	var m Message
	var err error

	if m.Sender, err = r.ReadString(); err != nil {
		return m, fmt.Errorf("message sender: %w", err)
	}
	if m.Content, err = r.ReadString(); err != nil {
		return m, fmt.Errorf("message content: %w", err)
	}
	if m.Recipient, err = r.ReadString(); err != nil {
		return m, fmt.Errorf("message recipient: %w", err)
	}
	if m.SenderID, err = r.ReadInt32(); err != nil {
		return m, fmt.Errorf("message sender id: %w", err)
	}
	return m, nil
}

// WriteTo encodes the message into w.
func (m Message) WriteTo(w *Writer) {
	w.WriteString(m.Sender)
	w.WriteString(m.Content)
	w.WriteString(m.Recipient)
	w.WriteInt32(m.SenderID)
}

// ChannelInfo is the channel listing payload of CHO_CHANNEL_INFO and
// CHO_CHANNEL_AUTO_JOIN.
type ChannelInfo struct {
	Name      string
	Topic     string
	UserCount int32
}

// ReadChannelInfo decodes a ChannelInfo from r.
func ReadChannelInfo(r *Reader) (ChannelInfo, error) {
	var c ChannelInfo
	var err error

	if c.Name, err = r.ReadString(); err != nil {
		return c, fmt.Errorf("channel name: %w", err)
	}
	if c.Topic, err = r.ReadString(); err != nil {
		return c, fmt.Errorf("channel topic: %w", err)
	}
	if c.UserCount, err = r.ReadInt32(); err != nil {
		return c, fmt.Errorf("channel user count: %w", err)
	}
	return c, nil
}

// WriteTo encodes the channel listing into w.
func (c ChannelInfo) WriteTo(w *Writer) {
	w.WriteString(c.Name)
	w.WriteString(c.Topic)
	w.WriteInt32(c.UserCount)
}
