package inhibit

import (
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"
)

const (
	screenSaverDest  = "org.freedesktop.ScreenSaver"
	screenSaverIface = "org.freedesktop.ScreenSaver"
	// Most screen savers also answer on /org/freedesktop/ScreenSaver, but
	// the short path is the one every implementation serves.
	screenSaverPath = dbus.ObjectPath("/ScreenSaver")
)

// ScreenSaverClient holds at most one screen-saver inhibition grant,
// identified by the cookie returned from Inhibit. A zero cookie means no
// grant is held.
type ScreenSaverClient struct {
	appName string
	reason  string

	connect connectFunc
	conn    busConn
	cookie  uint32
}

func NewScreenSaverClient(appName, reason string) *ScreenSaverClient {
	return &ScreenSaverClient{
		appName: appName,
		reason:  reason,
		connect: sessionBus,
	}
}

// Acquire asks the session screen saver to suspend idle locking. The bus
// connection is opened lazily on first use and reused afterwards. On any
// failure no grant is held.
func (c *ScreenSaverClient) Acquire() error {
	if c.conn == nil {
		conn, err := c.connect()
		if err != nil {
			return fmt.Errorf("connect to session bus: %w", err)
		}
		c.conn = conn
	}

	obj := c.conn.Object(screenSaverDest, screenSaverPath)

	var cookie uint32
	if err := obj.Call(screenSaverIface+".Inhibit", 0, c.appName, c.reason).Store(&cookie); err != nil {
		return fmt.Errorf("ScreenSaver.Inhibit: %w", err)
	}

	c.cookie = cookie
	slog.Debug("Screen saver inhibitor acquired", "cookie", cookie)
	return nil
}

// Release returns the grant via UnInhibit. Holding no grant is a no-op. A
// failed UnInhibit still drops the cookie locally, since the screen saver
// forgets cookies of dead connections anyway.
func (c *ScreenSaverClient) Release() {
	if c.cookie == 0 || c.conn == nil {
		return
	}

	obj := c.conn.Object(screenSaverDest, screenSaverPath)
	if call := obj.Call(screenSaverIface+".UnInhibit", 0, c.cookie); call.Err != nil {
		slog.Debug(fmt.Sprintf("ScreenSaver.UnInhibit failed: %v", call.Err))
	}

	c.cookie = 0
	slog.Debug("Screen saver inhibitor released")
}

// Held reports whether a grant is currently held.
func (c *ScreenSaverClient) Held() bool {
	return c.cookie != 0
}

// Close drops the bus connection. A later Acquire reconnects.
func (c *ScreenSaverClient) Close() {
	if c.conn == nil {
		return
	}
	if err := c.conn.Close(); err != nil {
		slog.Debug(fmt.Sprintf("Closing session bus connection failed: %v", err))
	}
	c.conn = nil
}
