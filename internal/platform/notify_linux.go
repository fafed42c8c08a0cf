//go:build linux

package platform

import (
	"github.com/godbus/dbus/v5"
)

// Notify posts to org.freedesktop.Notifications on the session bus. The
// canvas picture goes in the image-path hint so servers show it beside the
// text rather than as the app icon.
func Notify(title, body string, opts Options) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return err
	}
	defer conn.Close()

	obj := conn.Object("org.freedesktop.Notifications", "/org/freedesktop/Notifications")
	call := obj.Call("org.freedesktop.Notifications.Notify", 0,
		AppName, uint32(0), "", title, body, []string{}, hints(opts), int32(opts.timeout().Milliseconds()))
	return call.Err
}

func hints(opts Options) map[string]dbus.Variant {
	h := map[string]dbus.Variant{
		"desktop-entry": dbus.MakeVariant("darrow"),
		"urgency":       dbus.MakeVariant(byte(0)),
	}
	if c := opts.Kind.category(); c != "" {
		h["category"] = dbus.MakeVariant(c)
	}
	if opts.ImagePath != "" {
		h["image-path"] = dbus.MakeVariant(opts.ImagePath)
	}
	return h
}
