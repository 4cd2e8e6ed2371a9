package suggest

import (
	"sync"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// DefaultMaxClients bounds how many clients a Tracker remembers.
const DefaultMaxClients = 10000

// Tracker remembers the most recent input of each client. The least recently
// active clients are forgotten first once the bound is reached.
type Tracker struct {
	mu     sync.Mutex
	inputs *orderedmap.OrderedMap[string, string]
	max    int
}

// NewTracker creates a tracker remembering up to max clients. A max of zero
// uses DefaultMaxClients.
func NewTracker(max int) *Tracker {
	if max <= 0 {
		max = DefaultMaxClients
	}
	return &Tracker{
		inputs: orderedmap.New[string, string](),
		max:    max,
	}
}

// Record stores input as the latest for client.
func (t *Tracker) Record(client, input string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.inputs.Delete(client)
	t.inputs.Set(client, input)
	for t.inputs.Len() > t.max {
		t.inputs.Delete(t.inputs.Oldest().Key)
	}
}

// Latest returns the last input recorded for client.
func (t *Tracker) Latest(client string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.inputs.Get(client)
}

// Len returns the number of tracked clients.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.inputs.Len()
}
