package players

import (
	"errors"
	"sync"
	"testing"
)

func TestNewStore(t *testing.T) {
	s := NewStore()
	if s == nil {
		t.Fatal("NewStore() returned nil")
	}
	list := s.GetList()
	if len(list) != 0 {
		t.Errorf("new store should be empty, got %d players", len(list))
	}
}

func TestStore_Add(t *testing.T) {
	s := NewStore()
	p, err := s.Add("  Alice ")
	if err != nil {
		t.Fatal(err)
	}

	if p.ID == "" {
		t.Error("player ID should not be empty")
	}
	if p.Name != "Alice" {
		t.Errorf("player Name = %q, want %q", p.Name, "Alice")
	}
	if p.Color == "" {
		t.Error("player Color should not be empty")
	}
}

func TestStore_AddEmptyName(t *testing.T) {
	s := NewStore()
	if _, err := s.Add("   "); !errors.Is(err, ErrEmptyName) {
		t.Errorf("Add(blank) error = %v, want ErrEmptyName", err)
	}
}

func TestStore_PutRenames(t *testing.T) {
	s := NewStore()
	first, _ := s.Put("id1", "Alice")
	second, _ := s.Put("id1", "Alicia")

	if second.Name != "Alicia" {
		t.Errorf("Name = %q, want %q", second.Name, "Alicia")
	}
	if second.Color != first.Color {
		t.Errorf("Color changed on rename: %q -> %q", first.Color, second.Color)
	}
	if len(s.GetList()) != 1 {
		t.Errorf("GetList() = %d players, want 1", len(s.GetList()))
	}
}

func TestStore_Get(t *testing.T) {
	s := NewStore()
	s.Put("id1", "Alice")

	p, err := s.Get("id1")
	if err != nil {
		t.Fatalf("Get returned error for existing player: %v", err)
	}
	if p.Name != "Alice" {
		t.Errorf("Name = %q, want %q", p.Name, "Alice")
	}

	if _, err := s.Get("nonexistent"); !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("Get(nonexistent) error = %v, want ErrPlayerNotFound", err)
	}
}

func TestStore_GetListSorted(t *testing.T) {
	s := NewStore()
	s.Add("Carol")
	s.Add("Alice")
	s.Add("Bob")

	list := s.GetList()
	if len(list) != 3 {
		t.Fatalf("GetList() returned %d players, want 3", len(list))
	}
	for i, want := range []string{"Alice", "Bob", "Carol"} {
		if list[i].Name != want {
			t.Errorf("list[%d] = %q, want %q", i, list[i].Name, want)
		}
	}
}

func TestStore_Remove(t *testing.T) {
	s := NewStore()
	p, _ := s.Add("Alice")

	if err := s.Remove(p.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.Remove(p.ID); !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("second Remove error = %v, want ErrPlayerNotFound", err)
	}
}

func TestStore_Entrants(t *testing.T) {
	s := NewStore()
	s.Put("a", "Alice")
	s.Put("b", "Bob")

	roster, err := s.Entrants([]string{"b", "a"})
	if err != nil {
		t.Fatal(err)
	}
	if len(roster) != 2 || roster[0].ID != "b" || roster[1].Name != "Alice" {
		t.Errorf("roster = %+v, want [b a] in order", roster)
	}

	if _, err := s.Entrants([]string{"a", "zz"}); !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("Entrants(unknown) error = %v, want ErrPlayerNotFound", err)
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, _ := s.Add("player")
			s.Get(p.ID)
			s.GetList()
		}()
	}
	wg.Wait()

	if len(s.GetList()) != 100 {
		t.Errorf("GetList() = %d players, want 100", len(s.GetList()))
	}
}
