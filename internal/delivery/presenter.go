package delivery

import (
	"sync"

	"github.com/noah-isme/sma-announcer/internal/models"
)

// State of the presentation surface.
type State string

const (
	StateIdle    State = "idle"
	StateShowing State = "showing"
)

// View is what the presentation surface renders for the current item.
// Position and Total are only set when the queue holds more than one item.
type View struct {
	Open     bool                    `json:"open"`
	ID       string                  `json:"id,omitempty"`
	Type     models.AnnouncementType `json:"type,omitempty"`
	Title    string                  `json:"title,omitempty"`
	Content  string                  `json:"content,omitempty"`
	Position int                     `json:"position,omitempty"`
	Total    int                     `json:"total,omitempty"`
}

// Presenter pages through a fixed queue one item at a time. It only moves forward.
type Presenter struct {
	mu     sync.Mutex
	queue  []models.Announcement
	cursor int
}

// NewPresenter returns an idle presenter.
func NewPresenter() *Presenter {
	return &Presenter{}
}

// Open replaces any current queue and shows its first item.
// An empty queue leaves the presenter untouched.
func (p *Presenter) Open(queue []models.Announcement) {
	if len(queue) == 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queue = append([]models.Announcement(nil), queue...)
	p.cursor = 0
}

// Next acknowledges the current item. On the last item the presenter closes.
func (p *Presenter) Next() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.queue) == 0 {
		return
	}
	if p.cursor < len(p.queue)-1 {
		p.cursor++
		return
	}
	p.reset()
}

// Dismiss closes the presenter at any position. There is no resume.
func (p *Presenter) Dismiss() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
}

// State returns the current state.
func (p *Presenter) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.queue) == 0 {
		return StateIdle
	}
	return StateShowing
}

// Cursor returns the zero-based index of the current item, or -1 when idle.
func (p *Presenter) Cursor() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.queue) == 0 {
		return -1
	}
	return p.cursor
}

// View returns the surface contents for the current item.
func (p *Presenter) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.queue) == 0 {
		return View{}
	}
	current := p.queue[p.cursor]
	v := View{
		Open:    true,
		ID:      current.ID,
		Type:    current.EffectiveType(),
		Title:   current.Title,
		Content: current.Content,
	}
	if len(p.queue) > 1 {
		v.Position = p.cursor + 1
		v.Total = len(p.queue)
	}
	return v
}

func (p *Presenter) reset() {
	p.queue = nil
	p.cursor = 0
}
