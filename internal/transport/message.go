package transport

// RawMessage is one inbound message as the network delivered it, before the
// core normalizes it.
type RawMessage struct {
	Sender    string
	FromSelf  bool
	FromGroup bool
	Payload   Payload
}

// Payload holds the possible text-bearing shapes of an inbound message.
// A message carries at most a couple of them; Text picks the winner.
type Payload struct {
	Conversation string
	ExtendedText string
	ImageCaption string
	VideoCaption string
	ButtonReply  string
	ListReply    string
}

// Text resolves the payload to message text, taking the first non-empty
// shape in fixed priority order. An empty result means the message carries
// no usable text.
func (p Payload) Text() string {
	for _, s := range []string{
		p.Conversation,
		p.ExtendedText,
		p.ImageCaption,
		p.VideoCaption,
		p.ButtonReply,
		p.ListReply,
	} {
		if s != "" {
			return s
		}
	}
	return ""
}
