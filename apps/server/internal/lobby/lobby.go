package lobby

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"gift-village/apps/server/internal/catalog"
	"gift-village/village"
)

// Session is one player's village world.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu    sync.Mutex
	world *village.World
}

// Do runs fn with exclusive access to the session's world.
func (s *Session) Do(fn func(w *village.World) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.world)
}

// Lobby manages all live sessions. Each session gets its own copy of the
// catalog, so quest progress never crosses sessions.
type Lobby struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	catalog  catalog.Service
	worldCfg village.Config
}

func New(catalogService catalog.Service, worldCfg village.Config) *Lobby {
	return &Lobby{
		sessions: make(map[string]*Session),
		catalog:  catalogService,
		worldCfg: worldCfg,
	}
}

// Open builds a new world from the current catalog and registers it.
func (l *Lobby) Open(ctx context.Context) (*Session, error) {
	seed, err := catalog.Snapshot(ctx, l.catalog)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	world, err := village.NewWorld(l.worldCfg, seed)
	if err != nil {
		return nil, fmt.Errorf("create world: %w", err)
	}

	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		world:     world,
	}
	l.mu.Lock()
	l.sessions[s.ID] = s
	total := len(l.sessions)
	l.mu.Unlock()

	log.Printf("[Lobby] Session %s opened, total: %d", s.ID, total)
	return s, nil
}

// Get returns a session by ID
func (l *Lobby) Get(id string) *Session {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.sessions[id]
}

func (l *Lobby) Close(id string) {
	l.mu.Lock()
	_, ok := l.sessions[id]
	delete(l.sessions, id)
	total := len(l.sessions)
	l.mu.Unlock()

	if ok {
		log.Printf("[Lobby] Session %s closed, total: %d", id, total)
	}
}

func (l *Lobby) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.sessions)
}
