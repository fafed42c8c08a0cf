//go:build darwin

package platform

import (
	"fmt"
	"os/exec"
)

// Notify shows a Notification Center banner through osascript. Banners
// cannot carry the canvas picture, so ImagePath is ignored.
func Notify(title, body string, opts Options) error {
	subtitle := opts.Kind.Subtitle()
	if subtitle == "" {
		subtitle = AppName
	}
	script := fmt.Sprintf("display notification %q with title %q subtitle %q", body, title, subtitle)
	return exec.Command("osascript", "-e", script).Run()
}
