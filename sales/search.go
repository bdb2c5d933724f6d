package sales

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/cruisedesk/sales-service/model"
	"github.com/cruisedesk/sales-service/service"
)

var (
	// ErrEmptyQuery rejects blank search input before any backend call.
	ErrEmptyQuery = errors.New("search query must not be empty")

	// ErrSearchSuperseded is delivered to a waiter whose query was replaced
	// by a newer keystroke before (or while) its lookup ran.
	ErrSearchSuperseded = errors.New("search superseded by a newer query")
)

// SearchResult is what a Search call eventually delivers.
type SearchResult struct {
	Query     string
	Customers []model.Customer
	Err       error
}

// CustomerSearcher debounces search-as-you-type customer lookups per sales
// session. Each new query restarts the settle timer and supersedes the
// previous query: its in-flight backend call is cancelled and its waiter is
// released with ErrSearchSuperseded. A late backend response for a stale
// query is discarded by comparing query tokens, never delivered.
type CustomerSearcher struct {
	svc      service.CustomerService
	debounce time.Duration
	limit    int

	mu       sync.Mutex
	sessions map[string]*searchSession
}

type searchSession struct {
	token   uint64
	current *searchAttempt
}

type searchAttempt struct {
	token  uint64
	query  string
	timer  *time.Timer
	cancel context.CancelFunc
	ch     chan SearchResult
	once   sync.Once
}

func (a *searchAttempt) deliver(res SearchResult) {
	a.once.Do(func() { a.ch <- res })
}

// NewCustomerSearcher builds a searcher with the given settle window.
func NewCustomerSearcher(svc service.CustomerService, debounce time.Duration, limit int) *CustomerSearcher {
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}
	return &CustomerSearcher{
		svc:      svc,
		debounce: debounce,
		limit:    limit,
		sessions: make(map[string]*searchSession),
	}
}

// Search registers a keystroke for a session and returns a channel that
// receives exactly one SearchResult: the customer list once the query
// settles, or ErrSearchSuperseded / ErrEmptyQuery.
func (cs *CustomerSearcher) Search(ctx context.Context, sessionID, companyID, query string) <-chan SearchResult {
	attempt := &searchAttempt{
		query: strings.TrimSpace(query),
		ch:    make(chan SearchResult, 1),
	}
	if attempt.query == "" {
		attempt.deliver(SearchResult{Err: ErrEmptyQuery})
		return attempt.ch
	}

	cs.mu.Lock()
	sess := cs.sessions[sessionID]
	if sess == nil {
		sess = &searchSession{}
		cs.sessions[sessionID] = sess
	}
	sess.token++
	attempt.token = sess.token
	previous := sess.current
	sess.current = attempt
	attempt.timer = time.AfterFunc(cs.debounce, func() {
		cs.run(ctx, sessionID, attempt, companyID)
	})
	var prevCancel context.CancelFunc
	if previous != nil {
		previous.timer.Stop()
		prevCancel = previous.cancel
	}
	cs.mu.Unlock()

	if previous != nil {
		if prevCancel != nil {
			prevCancel()
		}
		previous.deliver(SearchResult{Query: previous.query, Err: ErrSearchSuperseded})
	}
	return attempt.ch
}

func (cs *CustomerSearcher) run(ctx context.Context, sessionID string, attempt *searchAttempt, companyID string) {
	searchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	cs.mu.Lock()
	sess := cs.sessions[sessionID]
	if sess == nil || sess.token != attempt.token {
		cs.mu.Unlock()
		attempt.deliver(SearchResult{Query: attempt.query, Err: ErrSearchSuperseded})
		return
	}
	attempt.cancel = cancel
	cs.mu.Unlock()

	customers, err := cs.svc.SearchCustomers(searchCtx, companyID, attempt.query, cs.limit)

	// Re-check after the call: a keystroke may have superseded this query
	// while the lookup was in flight. Its late response is discarded.
	cs.mu.Lock()
	sess = cs.sessions[sessionID]
	stale := sess == nil || sess.token != attempt.token
	cs.mu.Unlock()

	if stale {
		attempt.deliver(SearchResult{Query: attempt.query, Err: ErrSearchSuperseded})
		return
	}
	attempt.deliver(SearchResult{Query: attempt.query, Customers: customers, Err: err})
}

// Forget drops a session's search state, cancelling any in-flight lookup.
func (cs *CustomerSearcher) Forget(sessionID string) {
	cs.mu.Lock()
	sess := cs.sessions[sessionID]
	delete(cs.sessions, sessionID)
	var current *searchAttempt
	var cancel context.CancelFunc
	if sess != nil && sess.current != nil {
		current = sess.current
		current.timer.Stop()
		cancel = current.cancel
	}
	cs.mu.Unlock()

	if current != nil {
		if cancel != nil {
			cancel()
		}
		current.deliver(SearchResult{Query: current.query, Err: ErrSearchSuperseded})
	}
}
