package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"chores/internal/core"
	"chores/internal/store"
)

func TestChoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := New(nil)

	c, err := s.CreateChore(ctx, core.Chore{Name: " Mopping ", Category: "Cleaning", Points: 4})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.ID == "" || c.Name != "Mopping" {
		t.Fatalf("unexpected chore: %+v", c)
	}

	points := 6
	updated, err := s.UpdateChore(ctx, c.ID, core.ChoreUpdate{Points: &points})
	if err != nil || updated.Points != 6 || updated.Name != "Mopping" {
		t.Fatalf("unexpected update: %+v err=%v", updated, err)
	}

	got, err := s.GetChore(ctx, c.ID)
	if err != nil || got != updated {
		t.Fatalf("get mismatch: %+v err=%v", got, err)
	}

	if err := s.DeleteChore(ctx, c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetChore(ctx, c.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteChore(ctx, c.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestCreateChoreRejectsInvalid(t *testing.T) {
	s := New(nil)
	if _, err := s.CreateChore(context.Background(), core.Chore{Name: "", Points: 1}); !errors.Is(err, core.ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	bad := -3
	c, _ := s.CreateChore(context.Background(), core.Chore{Name: "x", Points: 1})
	if _, err := s.UpdateChore(context.Background(), c.ID, core.ChoreUpdate{Points: &bad}); !errors.Is(err, core.ErrNegativePoints) {
		t.Fatalf("expected ErrNegativePoints, got %v", err)
	}
}

func TestListChoresSortedByName(t *testing.T) {
	s := New(core.DefaultChores())
	list, err := s.ListChores(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].Name > list[i].Name {
			t.Fatalf("not sorted at %d: %q > %q", i, list[i-1].Name, list[i].Name)
		}
	}
	// Callers get a copy.
	list[0].Name = "changed"
	again, _ := s.ListChores(context.Background())
	if again[0].Name == "changed" {
		t.Fatalf("ListChores leaked internal state")
	}
}

func TestLogsFilterAndOrder(t *testing.T) {
	ctx := context.Background()
	s := New(core.DefaultChores())
	add := func(p core.Partner, d core.Date, pts int) core.ChoreLog {
		t.Helper()
		l, err := s.CreateLog(ctx, core.ChoreLog{ChoreID: "1", Partner: p, Date: d, Points: pts})
		if err != nil {
			t.Fatalf("create log: %v", err)
		}
		return l
	}
	a := add(core.Partner1, core.NewDate(2024, 1, 1), 5)
	add(core.Partner2, core.NewDate(2024, 1, 3), 3)
	add(core.Partner1, core.NewDate(2024, 1, 2), -2)
	if a.ID == "" {
		t.Fatalf("expected generated id")
	}

	all, _ := s.ListLogs(ctx, store.LogFilter{})
	if len(all) != 3 || all[0].Date.String() != "2024-01-03" || all[2].Date.String() != "2024-01-01" {
		t.Fatalf("unexpected order: %+v", all)
	}

	p1, _ := s.ListLogs(ctx, store.LogFilter{Partner: core.Partner1})
	if len(p1) != 2 {
		t.Fatalf("expected 2 partner1 logs, got %d", len(p1))
	}

	day, _ := s.ListLogs(ctx, store.LogFilter{Date: core.NewDate(2024, 1, 2)})
	if len(day) != 1 || day[0].Points != -2 {
		t.Fatalf("unexpected day filter result: %+v", day)
	}

	since, _ := s.ListLogs(ctx, store.LogFilter{Since: core.NewDate(2024, 1, 2)})
	if len(since) != 2 {
		t.Fatalf("expected 2 logs since 2024-01-02, got %d", len(since))
	}

	if err := s.DeleteLog(ctx, a.ID); err != nil {
		t.Fatalf("delete log: %v", err)
	}
	if err := s.DeleteLog(ctx, a.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListLogsSameDayNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := New(core.DefaultChores())
	day := core.NewDate(2024, 1, 5)
	var ids []string
	for _, choreID := range []string{"1", "2", "3"} {
		l, err := s.CreateLog(ctx, core.ChoreLog{ChoreID: choreID, Partner: core.Partner1, Date: day, Points: 1})
		if err != nil {
			t.Fatalf("create log: %v", err)
		}
		ids = append(ids, l.ID)
	}
	if _, err := s.CreateLog(ctx, core.ChoreLog{ChoreID: "4", Partner: core.Partner2, Date: core.NewDate(2024, 1, 4), Points: 1}); err != nil {
		t.Fatalf("create log: %v", err)
	}

	logs, _ := s.ListLogs(ctx, store.LogFilter{})
	if len(logs) != 4 {
		t.Fatalf("expected 4 logs, got %d", len(logs))
	}
	for i, want := range []string{ids[2], ids[1], ids[0]} {
		if logs[i].ID != want {
			t.Fatalf("position %d: got %s, want %s", i, logs[i].ID, want)
		}
	}
	if logs[3].ChoreID != "4" {
		t.Fatalf("older day must come last, got %+v", logs[3])
	}
}

func TestCreateLogValidates(t *testing.T) {
	s := New(nil)
	_, err := s.CreateLog(context.Background(), core.ChoreLog{ChoreID: "1", Partner: "someone", Date: core.NewDate(2024, 1, 1)})
	if !errors.Is(err, core.ErrInvalidPartner) {
		t.Fatalf("expected ErrInvalidPartner, got %v", err)
	}
}

func TestDeleteChoreKeepsLogs(t *testing.T) {
	ctx := context.Background()
	s := New(core.DefaultChores())
	if _, err := s.CreateLog(ctx, core.ChoreLog{ChoreID: "1", Partner: core.Partner1, Date: core.NewDate(2024, 1, 1), Points: 5}); err != nil {
		t.Fatalf("create log: %v", err)
	}
	if err := s.DeleteChore(ctx, "1"); err != nil {
		t.Fatalf("delete chore: %v", err)
	}
	logs, _ := s.ListLogs(ctx, store.LogFilter{})
	if len(logs) != 1 {
		t.Fatalf("expected log to survive chore deletion")
	}
}

func TestNewFromFilesSeeds(t *testing.T) {
	dir := t.TempDir()
	// No file -> defaults
	s := NewFromFiles(dir)
	list, _ := s.ListChores(context.Background())
	if len(list) != len(core.DefaultChores()) {
		t.Fatalf("expected defaults when file missing, got %d", len(list))
	}

	content := "# header\nKitchen|Dishes|5\n\nCleaning|Left socks|-2\nbroken line\nGarden|Mowing|abc\n"
	if err := os.WriteFile(filepath.Join(dir, "seed_chores.txt"), []byte(content), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	s = NewFromFiles(dir)
	list, _ = s.ListChores(context.Background())
	if len(list) != 2 {
		t.Fatalf("expected 2 chores, got %+v", list)
	}
	// Sorted by name: "Dishes" < "Left socks"
	if list[0].Name != "Dishes" || list[0].IsNegative || list[0].Points != 5 {
		t.Fatalf("unexpected first chore: %+v", list[0])
	}
	if list[1].Name != "Left socks" || !list[1].IsNegative || list[1].Points != 2 {
		t.Fatalf("unexpected second chore: %+v", list[1])
	}
}
