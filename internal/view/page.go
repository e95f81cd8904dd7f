package view

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"stockpulse/internal/poll"
	"stockpulse/pkg/stockpulse"
)

// Page is a reconciled view that can be polled.
type Page interface {
	Activate()
	Deactivate()
	Refresh(ctx context.Context)
}

// page is the commit core embedded by every concrete page. All writes to
// state go through begin, settle, reject or update; each is one atomic
// commit that is published to subscribers in commit order.
type page struct {
	name string
	log  *slog.Logger

	mu     sync.Mutex
	state  State
	active bool
	cycle  uint64 // current refresh cycle; bumped by begin, reject and Deactivate

	nextSubID int
	subs      map[int]chan State
}

func newPage(name string, log *slog.Logger) *page {
	if log == nil {
		log = slog.Default()
	}
	return &page{
		name: name,
		log:  log.With("page", name),
		subs: make(map[int]chan State),
	}
}

// Activate allows the page to commit.
func (p *page) Activate() {
	p.mu.Lock()
	p.active = true
	p.mu.Unlock()
}

// Deactivate stops the page from committing. Work still in flight settles
// but its results are discarded, even if the page is activated again.
func (p *page) Deactivate() {
	p.mu.Lock()
	p.active = false
	p.cycle++
	p.mu.Unlock()
}

// Active reports whether the page currently accepts commits.
func (p *page) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// Snapshot returns a copy of the current state.
func (p *page) Snapshot() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.clone()
}

// Subscribe returns a channel that receives a copy of every commit. Sends
// never block; a slow subscriber misses commits.
func (p *page) Subscribe(bufSize int) (id int, ch <-chan State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id = p.nextSubID
	p.nextSubID++
	c := make(chan State, bufSize)
	p.subs[id] = c
	return id, c
}

// Unsubscribe removes a subscription and closes its channel.
func (p *page) Unsubscribe(id int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ch, ok := p.subs[id]; ok {
		close(ch)
		delete(p.subs, id)
	}
}

// begin starts a refresh cycle: Loading is set, Err cleared and fn (if any)
// applied in one commit. ok is false when the page is inactive.
func (p *page) begin(fn func(*State)) (cycle uint64, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.active {
		return 0, false
	}
	p.cycle++
	p.state.Loading = true
	p.state.Err = ""
	if fn != nil {
		fn(&p.state)
	}
	p.publishLocked()
	return p.cycle, true
}

// settle ends cycle: fn is applied and Loading released in one commit. The
// commit is dropped when the page was deactivated or a newer cycle started.
func (p *page) settle(cycle uint64, fn func(*State)) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.active || cycle != p.cycle {
		p.log.Debug("discarding stale settlement", "cycle", cycle)
		return false
	}
	fn(&p.state)
	p.state.Loading = false
	p.publishLocked()
	return true
}

// reject ends any cycle in flight and commits fn with Loading released. Used
// for input refused before a request is made; the abandoned cycle's
// settlement is then discarded.
func (p *page) reject(fn func(*State)) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.active {
		return false
	}
	p.cycle++
	fn(&p.state)
	p.state.Loading = false
	p.publishLocked()
	return true
}

// update commits fn outside any refresh cycle. fn returns false to skip the
// commit.
func (p *page) update(fn func(*State) bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.active || !fn(&p.state) {
		return false
	}
	p.publishLocked()
	return true
}

// SetSearch changes the filter applied by FilteredRecords.
func (p *page) SetSearch(term string) {
	p.update(func(s *State) bool {
		if s.SearchTerm == term {
			return false
		}
		s.SearchTerm = term
		return true
	})
}

// FilteredRecords returns the records matching the current search term.
func (p *page) FilteredRecords() []stockpulse.StockRecord {
	return p.Snapshot().FilteredRecords()
}

func (p *page) publishLocked() {
	if len(p.subs) == 0 {
		return
	}
	snap := p.state.clone()
	for _, ch := range p.subs {
		select {
		case ch <- snap:
		default:
			// Slow subscriber, drop commit.
		}
	}
}

// Mounted is a page activated and polled by Mount.
type Mounted struct {
	page   Page
	handle *poll.Handle
}

// Mount activates p and refreshes it now and every interval until Unmount.
func Mount(ctx context.Context, p Page, interval time.Duration) *Mounted {
	p.Activate()
	return &Mounted{page: p, handle: poll.Start(ctx, interval, p.Refresh)}
}

// RefreshNow asks the poll loop for an immediate extra refresh.
func (m *Mounted) RefreshNow() {
	m.handle.Trigger()
}

// Unmount deactivates the page and cancels its timer. A refresh in flight
// settles without committing.
func (m *Mounted) Unmount() {
	m.page.Deactivate()
	m.handle.Stop()
}

// Done is closed when the poll loop has exited.
func (m *Mounted) Done() <-chan struct{} {
	return m.handle.Done()
}
