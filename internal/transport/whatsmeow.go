package transport

import (
	"context"
	"fmt"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"
	"google.golang.org/protobuf/proto"
)

// WhatsmeowDialer opens WhatsApp sessions backed by a sqlite device store
// under dataDir. Device credentials are persisted by whatsmeow itself as
// part of that store.
type WhatsmeowDialer struct {
	dataDir string
}

var _ Dialer = (*WhatsmeowDialer)(nil)

func NewWhatsmeowDialer(dataDir string) *WhatsmeowDialer {
	return &WhatsmeowDialer{dataDir: dataDir}
}

func (d *WhatsmeowDialer) Dial(ctx context.Context) (Session, <-chan Event, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on", filepath.Join(d.dataDir, "session.db"))
	container, err := sqlstore.New("sqlite3", dsn, waLog.Noop)
	if err != nil {
		return nil, nil, fmt.Errorf("open device store: %w", err)
	}
	device, err := container.GetFirstDevice()
	if err != nil {
		return nil, nil, fmt.Errorf("load device: %w", err)
	}

	client := whatsmeow.NewClient(device, waLog.Noop)
	// Reconnection belongs to the supervisor, not the library.
	client.EnableAutoReconnect = false

	ch := make(chan Event, 16)
	client.AddEventHandler(func(evt interface{}) {
		switch v := evt.(type) {
		case *events.Connected:
			ch <- StateChange{Connected: true}
		case *events.LoggedOut:
			ch <- StateChange{Code: StatusLoggedOut}
		case *events.Disconnected:
			ch <- StateChange{Code: StatusConnectionLost}
		case *events.QR:
			if len(v.Codes) > 0 {
				ch <- PairingCode{Code: v.Codes[0]}
			}
		case *events.Message:
			ch <- MessageBatch{Messages: []RawMessage{rawFromEvent(v)}}
		}
	})

	if err := client.Connect(); err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	return &whatsmeowSession{client: client}, ch, nil
}

type whatsmeowSession struct {
	client *whatsmeow.Client
}

func (s *whatsmeowSession) SendText(ctx context.Context, to string, text string) error {
	jid, err := types.ParseJID(to)
	if err != nil {
		return fmt.Errorf("parse recipient %q: %w", to, err)
	}
	_, err = s.client.SendMessage(ctx, jid, &waE2E.Message{
		Conversation: proto.String(text),
	})
	return err
}

func (s *whatsmeowSession) Close() error {
	s.client.Disconnect()
	return nil
}

func rawFromEvent(evt *events.Message) RawMessage {
	m := evt.Message
	return RawMessage{
		Sender:    evt.Info.Chat.String(),
		FromSelf:  evt.Info.IsFromMe,
		FromGroup: evt.Info.IsGroup,
		Payload: Payload{
			Conversation: m.GetConversation(),
			ExtendedText: m.GetExtendedTextMessage().GetText(),
			ImageCaption: m.GetImageMessage().GetCaption(),
			VideoCaption: m.GetVideoMessage().GetCaption(),
			ButtonReply:  m.GetButtonsResponseMessage().GetSelectedDisplayText(),
			ListReply:    m.GetListResponseMessage().GetTitle(),
		},
	}
}
