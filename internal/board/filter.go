package board

import (
	"strconv"
	"strings"

	"github.com/atelierhq/connection-manager/internal/domain"
)

const DefaultPageSize = 20

// Query parameters owned by the filter state. Nothing else in the query
// string is touched.
const (
	paramSearch = "search"
	paramFilter = "filter"
	paramPage   = "page"
)

// FilterState is the single source of truth for which subset of connections
// is visible: free-text search term, selected relationship state (empty means
// "all") and 1-based page. Defaults are omitted from the query string so
// locations stay canonical.
type FilterState struct {
	history  History
	pageSize int

	search string
	state  domain.RelationshipState
	page   int
}

// View is the derived projection for one snapshot of connections.
type View struct {
	Filtered   []*domain.Connection
	TotalPages int
	Page       int
	PageItems  []*domain.Connection
}

func NewFilterState(history History, pageSize int) *FilterState {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	f := &FilterState{
		history:  history,
		pageSize: pageSize,
		page:     1,
	}
	f.hydrate()
	return f
}

// hydrate reads the location once. Values are untrusted: an unknown filter
// falls back to "all" and a bad page number to 1.
func (f *FilterState) hydrate() {
	q := f.history.Query()
	f.search = q.Get(paramSearch)
	if s, err := domain.ParseState(q.Get(paramFilter)); err == nil {
		f.state = s
	}
	f.page = coercePage(q.Get(paramPage))
}

func coercePage(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func (f *FilterState) Search() string { return f.search }

func (f *FilterState) State() domain.RelationshipState { return f.state }

func (f *FilterState) Page() int { return f.page }

func (f *FilterState) PageSize() int { return f.pageSize }

func (f *FilterState) SetSearch(term string) {
	f.search = term
	f.page = 1
	f.push()
}

// SetState selects one relationship state, or "all" when given the empty
// value. Anything outside the catalog is treated as "all".
func (f *FilterState) SetState(s domain.RelationshipState) {
	if !domain.IsValidState(s) {
		s = ""
	}
	f.state = s
	f.page = 1
	f.push()
}

func (f *FilterState) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	f.page = n
	f.push()
}

func (f *FilterState) ClearAll() {
	f.search = ""
	f.state = ""
	f.page = 1
	f.push()
}

// push projects the current state into the location, leaving unrelated
// parameters alone. Writing an unchanged query is a no-op.
func (f *FilterState) push() {
	q := f.history.Query()
	if f.search != "" {
		q.Set(paramSearch, f.search)
	} else {
		q.Del(paramSearch)
	}
	if f.state != "" {
		q.Set(paramFilter, string(f.state))
	} else {
		q.Del(paramFilter)
	}
	if f.page > 1 {
		q.Set(paramPage, strconv.Itoa(f.page))
	} else {
		q.Del(paramPage)
	}
	if q.Encode() == f.history.Query().Encode() {
		return
	}
	f.history.SetQuery(q)
}

// Derive narrows the snapshot by search term and selected state, then pages
// it. The stored page is clamped into [1, max(totalPages, 1)]; a clamp also
// corrects the location, and clamping an already valid page changes nothing.
func (f *FilterState) Derive(conns []*domain.Connection) View {
	term := strings.ToLower(f.search)

	var filtered []*domain.Connection
	for _, c := range conns {
		if term != "" && !strings.Contains(c.SearchBlob(), term) {
			continue
		}
		if f.state != "" && c.State != f.state {
			continue
		}
		filtered = append(filtered, c)
	}

	totalPages := (len(filtered) + f.pageSize - 1) / f.pageSize
	maxPage := totalPages
	if maxPage < 1 {
		maxPage = 1
	}
	if f.page > maxPage {
		f.page = maxPage
		f.push()
	}

	start := (f.page - 1) * f.pageSize
	end := start + f.pageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	var items []*domain.Connection
	if start < len(filtered) {
		items = filtered[start:end]
	}

	return View{
		Filtered:   filtered,
		TotalPages: totalPages,
		Page:       f.page,
		PageItems:  items,
	}
}
