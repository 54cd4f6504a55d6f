package services

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/achivio/achivio-core/achivio/contracts/tasks"
	"github.com/achivio/achivio-core/achivio/node"
)

// TaskSearchService ranks catalog tasks against a free-text query.
type TaskSearchService struct {
	node *node.Node
}

func NewTaskSearchService(n *node.Node) *TaskSearchService {
	return &TaskSearchService{node: n}
}

// SearchResult pairs a task with its fuzzy match score.
type SearchResult struct {
	Task  tasks.Task `json:"task"`
	Score int        `json:"score"`
}

type taskSource []tasks.Task

func (s taskSource) String(i int) string {
	return s[i].Title + " " + s[i].Category
}

func (s taskSource) Len() int { return len(s) }

// Search returns active tasks matching the query, best match first. An
// empty query returns the whole active catalog in ID order.
func (svc *TaskSearchService) Search(query string, limit int) []SearchResult {
	all := svc.node.TaskList()
	active := make(taskSource, 0, len(all))
	for _, t := range all {
		if t.IsActive {
			active = append(active, t)
		}
	}

	query = strings.TrimSpace(query)
	if query == "" {
		results := make([]SearchResult, len(active))
		for i, t := range active {
			results[i] = SearchResult{Task: t}
		}
		return clip(results, limit)
	}

	matches := fuzzy.FindFrom(query, active)
	results := make([]SearchResult, len(matches))
	for i, m := range matches {
		results[i] = SearchResult{Task: active[m.Index], Score: m.Score}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return clip(results, limit)
}

// SearchByCategory narrows to one category before ranking.
func (svc *TaskSearchService) SearchByCategory(category, query string, limit int) []SearchResult {
	results := svc.Search(query, 0)
	filtered := results[:0]
	for _, r := range results {
		if strings.EqualFold(r.Task.Category, category) {
			filtered = append(filtered, r)
		}
	}
	return clip(filtered, limit)
}

func clip(results []SearchResult, limit int) []SearchResult {
	if limit > 0 && limit < len(results) {
		return results[:limit]
	}
	return results
}
