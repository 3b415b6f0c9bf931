package players

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"dartscorer/internal/engine"
	"dartscorer/internal/utility"
)

var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrEmptyName      = errors.New("player name is empty")
)

type Player struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store is the roster of known players, shared by every board.
type Store struct {
	mu      sync.Mutex
	players map[string]*Player
}

func NewStore() *Store {
	return &Store{
		players: make(map[string]*Player),
	}
}

// Add registers a player under a fresh id.
func (s *Store) Add(name string) (Player, error) {
	return s.Put(uuid.NewString(), name)
}

// Put creates or renames the player with the given id.
func (s *Store) Put(id, name string) (Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Player{}, ErrEmptyName
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.players[id]; ok {
		p.Name = name
		return *p, nil
	}
	p := &Player{ID: id, Name: name, Color: utility.RandomColorHex(), CreatedAt: time.Now()}
	s.players[id] = p
	return *p, nil
}

func (s *Store) Get(id string) (Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	if !ok {
		return Player{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}
	return *p, nil
}

// GetList returns every player ordered by name.
func (s *Store) GetList() []Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	playerList := make([]Player, 0, len(s.players))
	for _, p := range s.players {
		playerList = append(playerList, *p)
	}
	sort.Slice(playerList, func(i, j int) bool {
		if playerList[i].Name != playerList[j].Name {
			return playerList[i].Name < playerList[j].Name
		}
		return playerList[i].ID < playerList[j].ID
	})
	return playerList
}

func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[id]; !ok {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}
	delete(s.players, id)
	return nil
}

// Entrants resolves ids into a session roster, keeping the given order.
func (s *Store) Entrants(ids []string) ([]engine.Entrant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]engine.Entrant, 0, len(ids))
	for _, id := range ids {
		p, ok := s.players[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
		}
		out = append(out, engine.Entrant{ID: p.ID, Name: p.Name})
	}
	return out, nil
}
