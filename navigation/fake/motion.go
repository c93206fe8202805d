package fake

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.viam.com/utils"

	"go.viam.com/navcore/navigation"
)

// Motion is a motion executor that records the commands it is given. A
// cancelled command reports its termination asynchronously, the way a real
// executor's acknowledgment arrives after the cancel request.
type Motion struct {
	mu                      sync.Mutex
	ready                   bool
	active                  bool
	done                    navigation.DoneFunc
	commands                []navigation.PathCommand
	cancels                 int
	activeBackgroundWorkers sync.WaitGroup
}

// NewMotion returns an executor that reports ready.
func NewMotion() *Motion {
	return &Motion{ready: true}
}

// SetReady controls whether WaitForReady succeeds.
func (m *Motion) SetReady(ready bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ready = ready
}

// WaitForReady succeeds immediately unless the executor was made unavailable.
func (m *Motion) WaitForReady(ctx context.Context, timeout time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ready {
		return errors.New("motion executor unavailable")
	}
	return nil
}

// FollowPath records the command and holds on to done until the command is
// cancelled or finished.
func (m *Motion) FollowPath(ctx context.Context, cmd navigation.PathCommand, done navigation.DoneFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commands = append(m.commands, cmd)
	m.done = done
	m.active = true
	return nil
}

// CancelAll drops the active command, if any, and reports its cancellation on
// a separate goroutine.
func (m *Motion) CancelAll(ctx context.Context) error {
	m.mu.Lock()
	done := m.done
	wasActive := m.active
	m.active = false
	m.done = nil
	m.cancels++
	m.mu.Unlock()

	if wasActive && done != nil {
		m.activeBackgroundWorkers.Add(1)
		utils.PanicCapturingGo(func() {
			defer m.activeBackgroundWorkers.Done()
			done(navigation.MotionResult{Outcome: navigation.MotionCanceled})
		})
	}
	return nil
}

// Finish reports the given result for the active command, as if the executor
// terminated on its own. It returns false when no command is active.
func (m *Motion) Finish(result navigation.MotionResult) bool {
	m.mu.Lock()
	done := m.done
	wasActive := m.active
	m.active = false
	m.done = nil
	m.mu.Unlock()

	if !wasActive || done == nil {
		return false
	}
	done(result)
	return true
}

// Active reports whether a command is currently being followed.
func (m *Motion) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Commands returns every command received so far.
func (m *Motion) Commands() []navigation.PathCommand {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]navigation.PathCommand(nil), m.commands...)
}

// CancelCount returns how many times CancelAll was called.
func (m *Motion) CancelCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancels
}

// Close waits for outstanding cancellation reports to be delivered.
func (m *Motion) Close(ctx context.Context) error {
	m.activeBackgroundWorkers.Wait()
	return nil
}
