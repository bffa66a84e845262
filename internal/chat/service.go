package chat

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"fashion-insider/internal/chatfilter"
	"fashion-insider/internal/logger"
)

// DefaultChannel is used when a caller names no channel.
const DefaultChannel = "general"

var (
	// ErrBlocked rejects a message that shares contact details.
	ErrBlocked = errors.New(chatfilter.WarningMessage)
	// ErrEmpty rejects a blank message.
	ErrEmpty = errors.New("message is empty")
)

// Log is the local append-only message store.
type Log interface {
	AppendMessage(m Message) (bool, error)
	ListMessages(channelID string, limit int) ([]Message, error)
}

// Remote is the hosted messages table.
type Remote interface {
	InsertMessage(ctx context.Context, m Message) (Message, error)
}

// Service sends and relays chat messages.
type Service struct {
	log    Log
	remote Remote
	now    func() time.Time

	mu     sync.Mutex
	subs   map[string]map[int]func(Message)
	nextID int
	mem    map[string][]Message // used when log is nil
}

// NewService returns a Service. A nil log keeps history in memory; a nil
// remote keeps messages local.
func NewService(log Log, remote Remote) *Service {
	return &Service{
		log:    log,
		remote: remote,
		now:    time.Now,
		subs:   map[string]map[int]func(Message){},
		mem:    map[string][]Message{},
	}
}

func channelOrDefault(ch string) string {
	ch = strings.TrimSpace(ch)
	if ch == "" {
		return DefaultChannel
	}
	return ch
}

// Send validates and delivers a message. Blocked and empty messages are
// rejected before anything is stored. The hosted insert runs first so the
// local copy carries the hosted ID and the realtime echo is recognized as
// a duplicate; when the insert fails the message is kept locally under a
// generated ID.
func (s *Service) Send(ctx context.Context, channelID, senderID, senderName, content string) (Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Message{}, ErrEmpty
	}
	if rule := chatfilter.Check(content); rule != "" {
		logger.Warn("Chat", fmt.Sprintf("blocked message from %s (%s)", senderID, rule))
		return Message{}, ErrBlocked
	}

	m := Message{
		ChannelID:  channelOrDefault(channelID),
		SenderID:   senderID,
		SenderName: strings.TrimSpace(senderName),
		Content:    content,
		CreatedAt:  s.now().UTC(),
	}
	if m.SenderName == "" {
		m.SenderName = "User"
	}

	if s.remote != nil {
		stored, err := s.remote.InsertMessage(ctx, m)
		if err != nil {
			logger.Warn("Chat", "remote insert failed, kept locally: "+err.Error())
		} else if stored.ID != "" {
			m.ID = stored.ID
		}
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	if _, err := s.deliver(m); err != nil {
		return Message{}, err
	}
	return m, nil
}

// Receive records a message that arrived from the hosted feed. Messages
// already known by ID are ignored.
func (s *Service) Receive(m Message) {
	if m.ID == "" || strings.TrimSpace(m.Content) == "" {
		return
	}
	m.ChannelID = channelOrDefault(m.ChannelID)
	if m.CreatedAt.IsZero() {
		m.CreatedAt = s.now().UTC()
	}
	if _, err := s.deliver(m); err != nil {
		logger.Warn("Chat", "store received message: "+err.Error())
	}
}

// deliver appends m and fans it out when it is new.
func (s *Service) deliver(m Message) (bool, error) {
	inserted, err := s.append(m)
	if err != nil {
		return false, fmt.Errorf("store message: %w", err)
	}
	if !inserted {
		return false, nil
	}

	s.mu.Lock()
	fns := make([]func(Message), 0, len(s.subs[m.ChannelID]))
	ids := make([]int, 0, len(s.subs[m.ChannelID]))
	for id := range s.subs[m.ChannelID] {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		fns = append(fns, s.subs[m.ChannelID][id])
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(m)
	}
	return true, nil
}

func (s *Service) append(m Message) (bool, error) {
	if s.log != nil {
		return s.log.AppendMessage(m)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, old := range s.mem[m.ChannelID] {
		if old.ID == m.ID {
			return false, nil
		}
	}
	s.mem[m.ChannelID] = append(s.mem[m.ChannelID], m)
	return true, nil
}

// HistoryLimit is the default number of messages History returns.
const HistoryLimit = 100

// History returns up to limit of the latest messages of a channel, oldest
// first. limit <= 0 selects HistoryLimit.
func (s *Service) History(channelID string, limit int) ([]Message, error) {
	channelID = channelOrDefault(channelID)
	if limit <= 0 {
		limit = HistoryLimit
	}
	if s.log != nil {
		return s.log.ListMessages(channelID, limit)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.mem[channelID]
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	return append([]Message{}, all...), nil
}

// Subscribe registers fn for new messages on channelID, in subscription
// order. The returned func unsubscribes.
func (s *Service) Subscribe(channelID string, fn func(Message)) func() {
	channelID = channelOrDefault(channelID)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	if s.subs[channelID] == nil {
		s.subs[channelID] = map[int]func(Message){}
	}
	s.subs[channelID][id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs[channelID], id)
	}
}
