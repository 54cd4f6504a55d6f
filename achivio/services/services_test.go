package services

import (
	"testing"

	"github.com/achivio/achivio-core/achivio/chain"
	"github.com/achivio/achivio-core/achivio/contracts/board"
	"github.com/achivio/achivio-core/achivio/node"
)

const deployer = chain.Principal("deployer")

func newNode(t *testing.T) *node.Node {
	t.Helper()
	n, err := node.New(deployer, chain.NewSimClock(0))
	if err != nil {
		t.Fatalf("node.New() error = %v", err)
	}
	return n
}

func seedTasks(t *testing.T, n *node.Node) {
	t.Helper()
	catalog := []struct {
		title    string
		category string
	}{
		{title: "Morning run", category: "health"},
		{title: "Morning pages", category: "mind"},
		{title: "Read a chapter", category: "mind"},
		{title: "Drink water", category: "health"},
	}
	for _, c := range catalog {
		if _, err := n.CreateTask(deployer, c.title, "", 100, c.category, 1); err != nil {
			t.Fatalf("CreateTask(%q) error = %v", c.title, err)
		}
	}
}

func TestSearchEmptyQueryReturnsActiveCatalog(t *testing.T) {
	n := newNode(t)
	seedTasks(t, n)
	if err := n.DeactivateTask(deployer, 4); err != nil {
		t.Fatalf("DeactivateTask() error = %v", err)
	}

	svc := NewTaskSearchService(n)
	got := svc.Search("", 0)
	if len(got) != 3 {
		t.Fatalf("Search(\"\") returned %d results, want 3 active tasks", len(got))
	}
	for i, want := range []uint64{1, 2, 3} {
		if got[i].Task.ID != want {
			t.Errorf("result[%d].ID = %d, want %d", i, got[i].Task.ID, want)
		}
	}
}

func TestSearchFuzzyMatch(t *testing.T) {
	n := newNode(t)
	seedTasks(t, n)
	svc := NewTaskSearchService(n)

	got := svc.Search("morning", 0)
	if len(got) != 2 {
		t.Fatalf("Search(\"morning\") returned %d results, want 2", len(got))
	}
	for _, r := range got {
		if r.Task.ID != 1 && r.Task.ID != 2 {
			t.Errorf("unexpected match %+v", r.Task)
		}
	}

	if got := svc.Search("zzzzqq", 0); len(got) != 0 {
		t.Errorf("Search(no match) returned %d results, want 0", len(got))
	}
}

func TestSearchLimit(t *testing.T) {
	n := newNode(t)
	seedTasks(t, n)
	svc := NewTaskSearchService(n)
	if got := len(svc.Search("", 2)); got != 2 {
		t.Errorf("Search with limit 2 returned %d results", got)
	}
}

func TestSearchByCategory(t *testing.T) {
	n := newNode(t)
	seedTasks(t, n)
	svc := NewTaskSearchService(n)

	got := svc.SearchByCategory("health", "", 0)
	if len(got) != 2 {
		t.Fatalf("SearchByCategory(health) returned %d results, want 2", len(got))
	}
	for _, r := range got {
		if r.Task.Category != "health" {
			t.Errorf("result category = %q", r.Task.Category)
		}
	}
}

func TestBoardCache(t *testing.T) {
	n := newNode(t)
	if _, err := n.UpdateUserStats(deployer, "alice", 10, 0, 0, 0, 0, 1); err != nil {
		t.Fatalf("UpdateUserStats() error = %v", err)
	}

	cache, err := NewBoardCache(n, 8)
	if err != nil {
		t.Fatalf("NewBoardCache() error = %v", err)
	}

	top := cache.Top(board.BoardOverall, board.TimeframeAllTime, 10)
	if len(top) != 1 || top[0].User != "alice" {
		t.Fatalf("Top() = %+v, want alice", top)
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cache.Len())
	}

	// A stale cache serves the old ranking until invalidated.
	if _, err := n.UpdateUserStats(deployer, "bob", 50, 0, 0, 0, 0, 1); err != nil {
		t.Fatalf("UpdateUserStats() error = %v", err)
	}
	if got := cache.Top(board.BoardOverall, board.TimeframeAllTime, 10); len(got) != 1 {
		t.Fatalf("cached Top() = %d entries, want stale single entry", len(got))
	}

	cache.Invalidate()
	if cache.Len() != 0 {
		t.Errorf("Len() after Invalidate() = %d, want 0", cache.Len())
	}
	top = cache.Top(board.BoardOverall, board.TimeframeAllTime, 10)
	if len(top) != 2 || top[0].User != "bob" {
		t.Errorf("refreshed Top() = %+v, want bob first", top)
	}
}
