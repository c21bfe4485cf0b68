// Package inhibit acquires and releases the three inhibition grants that
// keep a desktop session awake: the session bus screen-saver cookie and the
// logind idle and sleep locks on the system bus.
package inhibit

import (
	"github.com/godbus/dbus/v5"
)

// busConn is the slice of *dbus.Conn the clients need. Tests substitute a
// fake so no bus is required.
type busConn interface {
	Object(dest string, path dbus.ObjectPath) dbus.BusObject
	Close() error
}

type connectFunc func() (busConn, error)

func sessionBus() (busConn, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func systemBus() (busConn, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, err
	}
	return conn, nil
}
