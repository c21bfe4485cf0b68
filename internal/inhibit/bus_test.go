package inhibit

import (
	"github.com/godbus/dbus/v5"
)

// fakeBusObject embeds dbus.BusObject so only Call needs an implementation.
// Replies are served per method name; unknown methods fail the call.
type fakeBusObject struct {
	dbus.BusObject

	replies map[string]*dbus.Call
	calls   []fakeCall
}

type fakeCall struct {
	method string
	args   []interface{}
}

func (o *fakeBusObject) Call(method string, flags dbus.Flags, args ...interface{}) *dbus.Call {
	o.calls = append(o.calls, fakeCall{method: method, args: args})
	if call, ok := o.replies[method]; ok {
		return call
	}
	return &dbus.Call{Err: dbus.ErrMsgUnknownMethod}
}

type fakeBus struct {
	object *fakeBusObject
	closed int
}

func (b *fakeBus) Object(dest string, path dbus.ObjectPath) dbus.BusObject {
	return b.object
}

func (b *fakeBus) Close() error {
	b.closed++
	return nil
}

func reply(body ...interface{}) *dbus.Call {
	return &dbus.Call{Body: body}
}

func failure(name string) *dbus.Call {
	return &dbus.Call{Err: dbus.Error{Name: name}}
}
