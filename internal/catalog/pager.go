// Package catalog pages the quiz list for display.
package catalog

import "github.com/mind-engage/quizforge/internal/quiz"

// PageSize is the number of quizzes shown per page.
const PageSize = 4

// Page is a view over one slice of the catalog. Number is 1-based.
type Page struct {
	Items      []quiz.Summary `json:"items"`
	Number     int            `json:"pageNumber"`
	TotalPages int            `json:"totalPages"`
	Window     []WindowItem   `json:"window"`
}

// TotalPages returns ceil(n/size).
func TotalPages(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// clampPage keeps page within [1, total], and at 1 for an empty catalog.
func clampPage(page, total int) int {
	if page > total {
		page = total
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Slice returns page number page of items. Out-of-range pages are clamped.
func Slice(items []quiz.Summary, page, size int) Page {
	total := TotalPages(len(items), size)
	page = clampPage(page, total)
	start := (page - 1) * size
	end := start + size
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}
	out := make([]quiz.Summary, end-start)
	copy(out, items[start:end])
	return Page{Items: out, Number: page, TotalPages: total, Window: Window(page, total)}
}

// Pager holds the catalog and the current page for the browsing flow.
// It is not safe for concurrent use.
type Pager struct {
	items []quiz.Summary
	page  int
	size  int
}

func NewPager(items []quiz.Summary) *Pager {
	p := &Pager{size: PageSize}
	p.SetItems(items)
	return p
}

// SetItems replaces the catalog and returns to the first page.
func (p *Pager) SetItems(items []quiz.Summary) {
	p.items = append([]quiz.Summary(nil), items...)
	p.page = 1
}

func (p *Pager) Len() int              { return len(p.items) }
func (p *Pager) PageNumber() int       { return p.page }
func (p *Pager) TotalPages() int       { return TotalPages(len(p.items), p.size) }
func (p *Pager) Items() []quiz.Summary { return append([]quiz.Summary(nil), p.items...) }
func (p *Pager) Current() Page         { return Slice(p.items, p.page, p.size) }

func (p *Pager) GoTo(page int) { p.page = clampPage(page, p.TotalPages()) }
func (p *Pager) Next()         { p.GoTo(p.page + 1) }
func (p *Pager) Prev()         { p.GoTo(p.page - 1) }

// Remove drops the quiz with the given ID and clamps the current page to the
// new page count. It reports whether anything was removed.
func (p *Pager) Remove(id string) bool {
	for i, s := range p.items {
		if s.ID == id {
			p.items = append(p.items[:i], p.items[i+1:]...)
			p.page = clampPage(p.page, p.TotalPages())
			return true
		}
	}
	return false
}

// SetLastAttempt updates the attempt shown next to a quiz.
func (p *Pager) SetLastAttempt(id string, a quiz.Attempt) {
	for i := range p.items {
		if p.items[i].ID == id {
			p.items[i].LastAttempt = &a
			return
		}
	}
}
