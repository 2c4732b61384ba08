package cart

import (
	"sync"

	"wahret-zmen/internal/domain"
)

// Level is the severity of a cart notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
)

// EventKind names the mutation that produced an Event.
type EventKind string

const (
	EventAdded   EventKind = "added"
	EventMerged  EventKind = "merged"
	EventUpdated EventKind = "updated"
	EventRemoved EventKind = "removed"
	EventCleared EventKind = "cleared"
)

// Event describes one cart mutation.
type Event struct {
	Kind      EventKind
	Level     Level
	ProductID string
	Color     domain.LocalizedText
	Quantity  int
	Lines     int
}

// Notifier receives an event after every mutation of a Store.
type Notifier interface {
	OnCartChanged(Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Event)

func (f NotifierFunc) OnCartChanged(e Event) { f(e) }

type nopNotifier struct{}

func (nopNotifier) OnCartChanged(Event) {}

// Store is a cart state container. It is safe for concurrent use; the
// notifier is called outside the lock.
type Store struct {
	mu       sync.Mutex
	lines    []domain.CartLine
	policy   MergePolicy
	notifier Notifier
}

// NewStore wraps lines. A nil notifier discards events.
func NewStore(lines []domain.CartLine, policy MergePolicy, notifier Notifier) *Store {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return &Store{lines: lines, policy: policy, notifier: notifier}
}

// Lines returns a copy of the current lines.
func (s *Store) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.lines)
}

func (s *Store) Add(p *domain.Product, c domain.CartColor, qty int) {
	s.mu.Lock()
	incoming := NewLine(p, c, qty)
	_, existed := Find(s.lines, p.ID, incoming.Color.ColorName)
	s.lines = Add(s.lines, p, c, qty, s.policy)
	line, _ := Find(s.lines, p.ID, incoming.Color.ColorName)
	n := len(s.lines)
	s.mu.Unlock()

	e := Event{Kind: EventAdded, Level: LevelSuccess, ProductID: p.ID, Color: line.Color.ColorName, Quantity: line.Quantity, Lines: n}
	if existed {
		e.Kind, e.Level = EventMerged, LevelInfo
	}
	s.notifier.OnCartChanged(e)
}

func (s *Store) Remove(productID string, color domain.LocalizedText) {
	s.mu.Lock()
	s.lines = Remove(s.lines, productID, color)
	n := len(s.lines)
	s.mu.Unlock()

	s.notifier.OnCartChanged(Event{Kind: EventRemoved, Level: LevelWarning, ProductID: productID, Color: color, Lines: n})
}

// UpdateQuantity reports whether a line matched.
func (s *Store) UpdateQuantity(productID string, color domain.LocalizedText, qty int) bool {
	s.mu.Lock()
	_, found := Find(s.lines, productID, color)
	if found {
		s.lines = UpdateQuantity(s.lines, productID, color, qty)
	}
	n := len(s.lines)
	s.mu.Unlock()

	if found {
		s.notifier.OnCartChanged(Event{Kind: EventUpdated, Level: LevelInfo, ProductID: productID, Color: color, Quantity: qty, Lines: n})
	}
	return found
}

func (s *Store) Clear() {
	s.mu.Lock()
	s.lines = Clear(s.lines)
	s.mu.Unlock()

	s.notifier.OnCartChanged(Event{Kind: EventCleared, Level: LevelInfo})
}
