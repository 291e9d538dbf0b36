// Package memory is an in-process store used for development and tests.
// Everything is lost when the process exits.
package memory

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"chores/internal/core"
	"chores/internal/store"
)

var _ store.Store = (*Store)(nil)

type Store struct {
	mu     sync.Mutex
	chores []core.Chore
	logs   []core.ChoreLog
}

// New returns a store holding a copy of chores.
func New(chores []core.Chore) *Store {
	return &Store{chores: append([]core.Chore(nil), chores...)}
}

// NewFromFiles seeds the catalog from base/seed_chores.txt, one
// "Category|Name|Points" per line. A negative number marks a negative chore.
// Falls back to the default catalog when the file is missing or empty.
func NewFromFiles(base string) *Store {
	chores := parseChores(readLines(filepath.Join(base, "seed_chores.txt")))
	if len(chores) == 0 {
		chores = core.DefaultChores()
	}
	return New(chores)
}

func (s *Store) ListChores(_ context.Context) ([]core.Chore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]core.Chore(nil), s.chores...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetChore(_ context.Context, id string) (core.Chore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.choreIndex(id)
	if i < 0 {
		return core.Chore{}, fmt.Errorf("chore %q: %w", id, core.ErrNotFound)
	}
	return s.chores[i], nil
}

func (s *Store) CreateChore(_ context.Context, c core.Chore) (core.Chore, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Category = strings.TrimSpace(c.Category)
	if err := c.Validate(); err != nil {
		return core.Chore{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	s.chores = append(s.chores, c)
	return c, nil
}

// UpdateChore applies u to the chore. Existing logs keep their points.
func (s *Store) UpdateChore(_ context.Context, id string, u core.ChoreUpdate) (core.Chore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.choreIndex(id)
	if i < 0 {
		return core.Chore{}, fmt.Errorf("chore %q: %w", id, core.ErrNotFound)
	}
	updated := u.Apply(s.chores[i])
	if err := updated.Validate(); err != nil {
		return core.Chore{}, err
	}
	s.chores[i] = updated
	return updated, nil
}

// DeleteChore removes the chore; logs recorded from it are kept.
func (s *Store) DeleteChore(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.choreIndex(id)
	if i < 0 {
		return fmt.Errorf("chore %q: %w", id, core.ErrNotFound)
	}
	s.chores = append(s.chores[:i], s.chores[i+1:]...)
	return nil
}

// ListLogs returns matching logs by date descending, newest recorded first
// within a day.
func (s *Store) ListLogs(_ context.Context, f store.LogFilter) ([]core.ChoreLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.ChoreLog, 0, len(s.logs))
	// Walk newest first so the stable sort keeps same-day logs newest first.
	for i := len(s.logs) - 1; i >= 0; i-- {
		if f.Match(s.logs[i]) {
			out = append(out, s.logs[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date.Time) })
	return out, nil
}

func (s *Store) CreateLog(_ context.Context, l core.ChoreLog) (core.ChoreLog, error) {
	if err := l.Validate(); err != nil {
		return core.ChoreLog{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	s.logs = append(s.logs, l)
	return l, nil
}

func (s *Store) DeleteLog(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.logs {
		if l.ID == id {
			s.logs = append(s.logs[:i], s.logs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("log %q: %w", id, core.ErrNotFound)
}

func (s *Store) choreIndex(id string) int {
	for i, c := range s.chores {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func parseChores(lines []string) []core.Chore {
	var out []core.Chore
	for _, line := range lines {
		parts := strings.Split(line, "|")
		if len(parts) != 3 {
			continue
		}
		points, err := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil {
			continue
		}
		c := core.Chore{
			ID:       strconv.Itoa(len(out) + 1),
			Category: strings.TrimSpace(parts[0]),
			Name:     strings.TrimSpace(parts[1]),
			Points:   points,
		}
		if points < 0 {
			c.Points = -points
			c.IsNegative = true
		}
		if c.Validate() != nil {
			continue
		}
		out = append(out, c)
	}
	return out
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}
