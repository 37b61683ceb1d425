package relay

import (
	"context"
	"sync"

	"github.com/warelay/warelay/internal/transport"
)

// fakeSender records outbound sends and doubles as a transport.Session.
type fakeSender struct {
	mu   sync.Mutex
	sent []OutboundReply
	err  error
}

var _ transport.Session = (*fakeSender)(nil)

func (f *fakeSender) SendText(_ context.Context, to string, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, OutboundReply{Recipient: CorrespondentID(to), Text: text})
	return nil
}

func (f *fakeSender) Close() error { return nil }

func (f *fakeSender) Sent() []OutboundReply {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]OutboundReply, len(f.sent))
	copy(out, f.sent)
	return out
}

type fakeAnswerer struct {
	mu        sync.Mutex
	reply     string
	err       error
	questions []string
}

func (f *fakeAnswerer) Answer(_ context.Context, question string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.questions = append(f.questions, question)
	return f.reply, f.err
}

func (f *fakeAnswerer) Questions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.questions))
	copy(out, f.questions)
	return out
}

type fakeArchive struct {
	mu      sync.Mutex
	entries []ArchiveEntry
	err     error
}

func (f *fakeArchive) Record(_ context.Context, e ArchiveEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeArchive) Recent(_ context.Context, limit int) ([]ArchiveEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if limit > len(f.entries) {
		limit = len(f.entries)
	}
	out := make([]ArchiveEntry, limit)
	copy(out, f.entries[:limit])
	return out, nil
}

func (f *fakeArchive) Entries() []ArchiveEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]ArchiveEntry, len(f.entries))
	copy(out, f.entries)
	return out
}

type fakePairing struct {
	mu    sync.Mutex
	codes []string
}

func (f *fakePairing) ShowCode(code string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codes = append(f.codes, code)
}

func (f *fakePairing) Codes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.codes))
	copy(out, f.codes)
	return out
}

type fakeCreds struct {
	mu    sync.Mutex
	blobs [][]byte
}

func (f *fakeCreds) Save(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blobs = append(f.blobs, append([]byte(nil), data...))
	return nil
}

func (f *fakeCreds) Blobs() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]byte, len(f.blobs))
	copy(out, f.blobs)
	return out
}

// fakeDialer plays a script of dial outcomes; past the script it hands out
// sessions whose event channel never delivers, so lifecycle loops park.
type fakeDialer struct {
	mu     sync.Mutex
	dials  int
	script []func() (transport.Session, <-chan transport.Event, error)
}

var _ transport.Dialer = (*fakeDialer)(nil)

func (d *fakeDialer) Dial(context.Context) (transport.Session, <-chan transport.Event, error) {
	d.mu.Lock()
	var fn func() (transport.Session, <-chan transport.Event, error)
	if d.dials < len(d.script) {
		fn = d.script[d.dials]
	}
	d.dials++
	d.mu.Unlock()

	if fn == nil {
		return &fakeSender{}, make(chan transport.Event), nil
	}
	return fn()
}

func (d *fakeDialer) Dials() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dials
}
