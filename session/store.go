package session

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/tylerpac/solace-client/token"
)

// EventType identifies why the session changed.
type EventType int

const (
	// EventSaved fires after a successful Save.
	EventSaved EventType = iota
	// EventCleared fires after an explicit Clear (logout or 401).
	EventCleared
	// EventExpired fires when a read found the token past its expiry and the
	// session was dropped.
	EventExpired
	// EventExternalChange fires when the poll picked up a write made by
	// another process against the same repository.
	EventExternalChange
)

// Event describes a session change delivered to subscribers.
type Event struct {
	Type    EventType
	Session Session
}

const defaultPollInterval = 2 * time.Second

// Store holds the process-wide session state on top of a Repository. It is
// the sole writer of session data: everything else observes it through
// Current and Subscribe. Expiry is re-validated on every read, not just at
// login.
type Store struct {
	repo         Repository
	pollInterval time.Duration

	lock        sync.Mutex
	current     Session
	subscribers []chan Event

	stopOnce sync.Once
	stop     chan struct{}
}

// StoreOption modifies a Store during construction.
type StoreOption func(*Store)

// WithPollInterval sets how often the watcher re-checks expiry and polls the
// repository for external writes.
func WithPollInterval(d time.Duration) StoreOption {
	return func(s *Store) {
		s.pollInterval = d
	}
}

// NewStore loads any persisted session and returns a Store. Call StartWatcher
// to enable the continuous expiry check and external-change polling.
func NewStore(repo Repository, options ...StoreOption) (*Store, error) {
	if repo == nil {
		return nil, errors.New("[NewStore] repository is required")
	}

	s := &Store{
		repo:         repo,
		pollInterval: defaultPollInterval,
		stop:         make(chan struct{}),
	}
	for _, opt := range options {
		opt(s)
	}

	tok, username, err := repo.Get()
	if err != nil {
		return nil, errors.Wrap(err, "[NewStore] load persisted session")
	}
	s.current = Session{Token: tok, Username: username}
	return s, nil
}

// StartWatcher launches the background loop.
func (s *Store) StartWatcher() {
	go s.watch()
}

// Stop terminates the watcher.
func (s *Store) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *Store) watch() {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.Current()
			s.syncExternal()
		}
	}
}

// syncExternal reconciles the in-memory session with the repository. Last
// writer wins; there is no locking across processes.
func (s *Store) syncExternal() {
	tok, username, err := s.repo.Get()
	if err != nil {
		log.Warn().Err(err).Msg("session repository poll failed")
		return
	}

	s.lock.Lock()
	if tok == s.current.Token && username == s.current.Username {
		s.lock.Unlock()
		return
	}
	s.current = Session{Token: tok, Username: username}
	snapshot := s.current
	s.lock.Unlock()

	s.emit(Event{Type: EventExternalChange, Session: snapshot})
}

// Save persists the token/username pair and makes it the current session.
func (s *Store) Save(tok, username string) error {
	if err := s.repo.Set(tok, username); err != nil {
		return errors.Wrap(err, "[Store.Save] persist")
	}

	s.lock.Lock()
	s.current = Session{Token: tok, Username: username}
	snapshot := s.current
	s.lock.Unlock()

	s.emit(Event{Type: EventSaved, Session: snapshot})
	return nil
}

// Clear drops the session everywhere.
func (s *Store) Clear() error {
	if err := s.repo.Clear(); err != nil {
		return errors.Wrap(err, "[Store.Clear] persist")
	}

	s.lock.Lock()
	s.current = Session{}
	s.lock.Unlock()

	s.emit(Event{Type: EventCleared})
	return nil
}

// Current returns the session and whether it is authenticated. A token found
// past its expiry is dropped here, including its persisted copy, and an
// EventExpired is delivered to subscribers.
func (s *Store) Current() (Session, bool) {
	s.lock.Lock()
	if s.current.Token == "" {
		s.lock.Unlock()
		return Session{}, false
	}
	if token.IsValid(s.current.Token) {
		snapshot := s.current
		s.lock.Unlock()
		return snapshot, true
	}
	s.current = Session{}
	s.lock.Unlock()

	if err := s.repo.Clear(); err != nil {
		log.Warn().Err(err).Msg("failed clearing expired session")
	}
	s.emit(Event{Type: EventExpired})
	return Session{}, false
}

// Token returns the current valid bearer token, or an empty string.
func (s *Store) Token() string {
	sess, ok := s.Current()
	if !ok {
		return ""
	}
	return sess.Token
}

// Subscribe returns a channel receiving session events for the life of the
// process. Slow subscribers lose events rather than block the store; the
// current state can always be re-read.
func (s *Store) Subscribe() <-chan Event {
	ch := make(chan Event, 8)
	s.lock.Lock()
	s.subscribers = append(s.subscribers, ch)
	s.lock.Unlock()
	return ch
}

func (s *Store) emit(event Event) {
	s.lock.Lock()
	subs := make([]chan Event, len(s.subscribers))
	copy(subs, s.subscribers)
	s.lock.Unlock()

	for _, ch := range subs {
		select {
		case ch <- event:
		default:
		}
	}
}
