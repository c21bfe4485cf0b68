package inhibit

import (
	"fmt"
	"log/slog"
	"strings"
)

// Grant names as they appear in status messages.
const (
	GrantScreenSaver = "screen saver"
	GrantIdle        = "idle"
	GrantSleep       = "sleep"
)

// ActiveMessage is published after a successful acquisition.
const ActiveMessage = "Inhibitors active (screen saver, idle, sleep)."

// sessionInhibitor and powerInhibitor are what the controller needs from the
// two bus clients. Tests substitute fakes.
type sessionInhibitor interface {
	Acquire() error
	Release()
	Held() bool
	Close()
}

type powerInhibitor interface {
	Acquire(kind string) error
	Release(kind string)
	Held(kind string) bool
	Close()
}

// Controller owns the aggregate inhibitor state. The aggregate is active iff
// all three grants (screen saver, idle, sleep) were acquired in one attempt;
// a partial acquisition is rolled back before the attempt reports failure.
//
// The controller is not safe for concurrent use: the daemon control loop is
// its only caller.
type Controller struct {
	session sessionInhibitor
	power   powerInhibitor
	active  bool
}

// NewController wires a controller to the real session and system bus
// clients. appName identifies the daemon on both buses.
func NewController(appName, lockReason, sleepReason string) *Controller {
	return &Controller{
		session: NewScreenSaverClient(appName, lockReason),
		power:   NewLogin1Client(appName, sleepReason),
	}
}

// Active reports the aggregate state.
func (c *Controller) Active() bool {
	return c.active
}

// AcquireAll attempts all three grants. The attempts are independent: a
// failed grant does not short-circuit the remaining ones. Aggregate success
// requires all three; on failure every grant obtained during the attempt is
// released again and the returned error names the failed acquisitions.
//
// Calling AcquireAll while already active is a no-op.
func (c *Controller) AcquireAll() error {
	if c.active {
		slog.Debug("Acquire ignored; inhibitors already active")
		return nil
	}

	attempts := []struct {
		name string
		err  error
	}{
		{GrantScreenSaver, c.session.Acquire()},
		{GrantIdle, c.power.Acquire(KindIdle)},
		{GrantSleep, c.power.Acquire(KindSleep)},
	}

	var failures []string
	for _, attempt := range attempts {
		if attempt.err != nil {
			slog.Debug(fmt.Sprintf("Acquisition of %s inhibitor failed: %v", attempt.name, attempt.err))
			failures = append(failures, fmt.Sprintf("%s (%v)", attempt.name, attempt.err))
		}
	}

	if len(failures) > 0 {
		// Roll back whatever the attempt did obtain. Releases of grants
		// that were never acquired are no-ops.
		c.session.Release()
		c.power.Release(KindIdle)
		c.power.Release(KindSleep)
		return fmt.Errorf("inhibitor acquisition failed: %s", strings.Join(failures, "; "))
	}

	c.active = true
	return nil
}

// ReleaseAll releases every held grant and closes both bus connections. Safe
// to call from the inactive state, where all releases are no-ops.
func (c *Controller) ReleaseAll() {
	c.session.Release()
	c.power.Release(KindIdle)
	c.power.Release(KindSleep)

	c.session.Close()
	c.power.Close()

	c.active = false
}
