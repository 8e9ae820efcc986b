// Package status tracks the session-wide busy indicator. Each AI operation
// class may run once at a time; the displayed state returns to idle after a
// fixed delay whether or not anything is still pending.
package status

import (
	"errors"
	"sync"
	"time"
)

// LoadingState is the indicator shown to the user
type LoadingState string

// Loading states
const (
	StateIdle       LoadingState = "IDLE"
	StateParsing    LoadingState = "PARSING"
	StateOptimizing LoadingState = "OPTIMIZING"
	StateTailoring  LoadingState = "TAILORING"
	StateError      LoadingState = "ERROR"
	StateSuccess    LoadingState = "SUCCESS"
)

// Operation is an AI operation class
type Operation string

// Operation classes
const (
	OpParse    Operation = "parse"
	OpTailor   Operation = "tailor"
	OpOptimize Operation = "optimize"
)

// Reset delays after an operation finishes
const (
	ParseResetDelay    = 2 * time.Second
	TailorResetDelay   = 2 * time.Second
	OptimizeResetDelay = 1500 * time.Millisecond
)

// ErrBusy is returned when an operation of the same class is already running
var ErrBusy = errors.New("operation already in progress")

var (
	busyStates = map[Operation]LoadingState{
		OpParse:    StateParsing,
		OpTailor:   StateTailoring,
		OpOptimize: StateOptimizing,
	}
	resetDelays = map[Operation]time.Duration{
		OpParse:    ParseResetDelay,
		OpTailor:   TailorResetDelay,
		OpOptimize: OptimizeResetDelay,
	}
)

// Snapshot is the tracker state at one moment
type Snapshot struct {
	State   LoadingState `json:"state"`
	Message string       `json:"message"`
	Running []Operation  `json:"running"`
}

// Tracker holds the indicator and the set of running operation classes
type Tracker struct {
	mu         sync.Mutex
	state      LoadingState
	message    string
	running    map[Operation]bool
	generation uint64
	afterFunc  func(time.Duration, func()) *time.Timer
}

// NewTracker returns an idle tracker
func NewTracker() *Tracker {
	return &Tracker{
		state:     StateIdle,
		running:   make(map[Operation]bool),
		afterFunc: time.AfterFunc,
	}
}

// Begin marks op as running and shows its busy state. It fails with ErrBusy
// while another operation of the same class is running. The returned finish
// func must be called exactly once.
func (t *Tracker) Begin(op Operation, message string) (finish func(err error, message string), err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running[op] {
		return nil, ErrBusy
	}
	t.running[op] = true
	t.show(busyStates[op], message)

	var once sync.Once
	return func(opErr error, message string) {
		once.Do(func() { t.finish(op, opErr, message) })
	}, nil
}

func (t *Tracker) finish(op Operation, opErr error, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.running, op)
	state := StateSuccess
	if opErr != nil {
		state = StateError
	}
	gen := t.show(state, message)

	t.afterFunc(resetDelays[op], func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		// a newer state replaced ours; leave it alone
		if t.generation == gen {
			t.show(StateIdle, "")
		}
	})
}

func (t *Tracker) show(state LoadingState, message string) uint64 {
	t.state = state
	t.message = message
	t.generation++
	return t.generation
}

// Busy reports whether op is running
func (t *Tracker) Busy(op Operation) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running[op]
}

// Snapshot returns the current state
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := Snapshot{State: t.state, Message: t.message, Running: []Operation{}}
	for _, op := range []Operation{OpParse, OpTailor, OpOptimize} {
		if t.running[op] {
			s.Running = append(s.Running, op)
		}
	}
	return s
}
