package inhibit

import (
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"
	"golang.org/x/sys/unix"
)

const (
	login1Dest  = "org.freedesktop.login1"
	login1Iface = "org.freedesktop.login1.Manager"
	login1Path  = dbus.ObjectPath("/org/freedesktop/login1")

	// KindIdle and KindSleep are the two inhibition kinds held while active.
	KindIdle  = "idle"
	KindSleep = "sleep"

	invalidFD = -1
)

// Login1Client holds logind inhibitor locks, one per kind. Each lock is a
// file descriptor handed over by the Inhibit call; closing the descriptor
// releases the lock. An invalid descriptor is marked with -1.
type Login1Client struct {
	who string
	why string

	connect connectFunc
	conn    busConn
	fds     map[string]int

	// closeFD is unix.Close outside of tests.
	closeFD func(fd int) error
}

func NewLogin1Client(who, why string) *Login1Client {
	return &Login1Client{
		who:     who,
		why:     why,
		connect: systemBus,
		fds: map[string]int{
			KindIdle:  invalidFD,
			KindSleep: invalidFD,
		},
		closeFD: unix.Close,
	}
}

// Acquire takes a block-mode inhibitor lock of the given kind from logind.
// The reply must carry a unix file descriptor; anything else fails the
// acquisition without a grant being held.
func (c *Login1Client) Acquire(kind string) error {
	if c.conn == nil {
		conn, err := c.connect()
		if err != nil {
			return fmt.Errorf("connect to system bus: %w", err)
		}
		c.conn = conn
	}

	obj := c.conn.Object(login1Dest, login1Path)
	call := obj.Call(login1Iface+".Inhibit", 0, kind, c.who, c.why, "block")
	if call.Err != nil {
		return fmt.Errorf("login1.Inhibit(%s): %w", kind, call.Err)
	}
	if len(call.Body) == 0 {
		return fmt.Errorf("login1.Inhibit(%s): reply has no arguments", kind)
	}

	fd, ok := call.Body[0].(dbus.UnixFD)
	if !ok {
		return fmt.Errorf("login1.Inhibit(%s): reply argument is %T, not a unix fd", kind, call.Body[0])
	}

	c.fds[kind] = int(fd)
	slog.Debug("logind inhibitor acquired", "kind", kind, "fd", int(fd))
	return nil
}

// Release closes the lock descriptor for the given kind. Safe to call when
// no lock of that kind is held.
func (c *Login1Client) Release(kind string) {
	fd, ok := c.fds[kind]
	if !ok || fd == invalidFD {
		return
	}
	if err := c.closeFD(fd); err != nil {
		slog.Debug(fmt.Sprintf("Closing logind inhibitor fd failed: %v", err), "kind", kind)
	}
	c.fds[kind] = invalidFD
	slog.Debug("logind inhibitor released", "kind", kind)
}

// Held reports whether a lock of the given kind is currently held.
func (c *Login1Client) Held(kind string) bool {
	fd, ok := c.fds[kind]
	return ok && fd != invalidFD
}

// Close drops the bus connection. A later Acquire reconnects.
func (c *Login1Client) Close() {
	if c.conn == nil {
		return
	}
	if err := c.conn.Close(); err != nil {
		slog.Debug(fmt.Sprintf("Closing system bus connection failed: %v", err))
	}
	c.conn = nil
}
