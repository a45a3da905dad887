package gateway

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/ademaro/linka/internal/config"
	"github.com/ademaro/linka/internal/entity"
	"github.com/ademaro/linka/internal/service"
)

// fakeConn is an in-memory ClientConn that records every frame written
// to it.
type fakeConn struct {
	mu       sync.Mutex
	frames   [][]byte
	writeErr error
	closed   bool
	done     chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{done: make(chan struct{})}
}

func (c *fakeConn) ReadMessage() ([]byte, error) {
	<-c.done
	return nil, ErrConnClosed
}

func (c *fakeConn) WriteMessage(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrConnClosed
	}
	if c.writeErr != nil {
		return c.writeErr
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	c.frames = append(c.frames, buf)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.done)
	}
	return nil
}

func (c *fakeConn) SetReadDeadline(t time.Time) error  { return nil }
func (c *fakeConn) SetWriteDeadline(t time.Time) error { return nil }

func (c *fakeConn) failWrites() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writeErr = ErrConnClosed
}

// events decodes every recorded frame with the given event name
func (c *fakeConn) events(name string) []Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []Event
	for _, frame := range c.frames {
		var evt Event
		if err := json.Unmarshal(frame, &evt); err != nil {
			continue
		}
		if evt.Name == name {
			out = append(out, evt)
		}
	}
	return out
}

func (c *fakeConn) lastEvent(name string) *Event {
	evts := c.events(name)
	if len(evts) == 0 {
		return nil
	}
	return &evts[len(evts)-1]
}

type markReadCall struct {
	senderId   int64
	receiverId int64
	before     int64
}

// fakeMessageStore is an in-memory MessageStore
type fakeMessageStore struct {
	mu            sync.Mutex
	nextId        int64
	saved         []*entity.Message
	saveErr       error
	markReadCalls []markReadCall
	markReadRows  int64
	markReadErr   error
	counts        map[int64]map[int64]int
}

func newFakeMessageStore() *fakeMessageStore {
	return &fakeMessageStore{
		nextId: 1000,
		counts: make(map[int64]map[int64]int),
	}
}

func (s *fakeMessageStore) SaveMessage(ctx context.Context, senderId int64, req *service.SaveMessageRequest) (*entity.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saveErr != nil {
		return nil, s.saveErr
	}

	s.nextId++
	msg := &entity.Message{
		Id:             s.nextId,
		SenderId:       senderId,
		ReceiverId:     req.ReceiverId,
		Content:        req.Content,
		AttachmentUrl:  req.AttachmentUrl,
		AttachmentType: req.AttachmentType,
		ClientMsgId:    req.ClientMsgId,
		CreatedAt:      entity.NowUnixMilli(),
	}
	s.saved = append(s.saved, msg)
	return msg, nil
}

func (s *fakeMessageStore) MarkRead(ctx context.Context, senderId, receiverId, before int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.markReadErr != nil {
		return 0, s.markReadErr
	}
	s.markReadCalls = append(s.markReadCalls, markReadCall{senderId, receiverId, before})
	return s.markReadRows, nil
}

func (s *fakeMessageStore) GroupedUnreadCounts(ctx context.Context, ownerId int64) (map[int64]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[int64]int)
	for peer, n := range s.counts[ownerId] {
		out[peer] = n
	}
	return out, nil
}

func (s *fakeMessageStore) savedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

// fakePresenceStore records status transitions per user
type fakePresenceStore struct {
	mu       sync.Mutex
	statuses map[int64][]string
	touched  map[int64]int
}

func newFakePresenceStore() *fakePresenceStore {
	return &fakePresenceStore{
		statuses: make(map[int64][]string),
		touched:  make(map[int64]int),
	}
}

func (s *fakePresenceStore) SetStatus(ctx context.Context, userId int64, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[userId] = append(s.statuses[userId], status)
	return nil
}

func (s *fakePresenceStore) TouchLastSeen(ctx context.Context, userId int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched[userId]++
	return nil
}

func (s *fakePresenceStore) lastStatus(userId int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.statuses[userId]
	if len(history) == 0 {
		return ""
	}
	return history[len(history)-1]
}

// fakeUserDirectory resolves handshake identities from a fixed set
type fakeUserDirectory struct {
	users map[int64]*entity.User
}

func (d *fakeUserDirectory) GetById(ctx context.Context, userId int64) (*entity.User, error) {
	if u, ok := d.users[userId]; ok {
		return u, nil
	}
	return nil, ErrConnClosed
}

func testConfig() *config.Config {
	return &config.Config{
		WebSocket: config.WebSocketConfig{
			MaxConnNum:       100,
			MaxMessageSize:   51200,
			WriteChannelSize: 16,
		},
	}
}

// testServer builds a WsServer with fakes and no Redis
func testServer(store *fakeMessageStore, presence *fakePresenceStore) *WsServer {
	return NewWsServer(testConfig(), nil, store, presence, &fakeUserDirectory{users: map[int64]*entity.User{}})
}

// connect registers a client with a fake connection, bypassing the
// event loop so tests stay deterministic.
func connect(s *WsServer, userId int64, name string) (*Client, *fakeConn) {
	conn := newFakeConn()
	client := NewClient(conn, userId, name, "test-token", "conn-test", s)
	s.registerClient(context.Background(), client)
	return client, conn
}
