package platform

import "time"

// AppName is the application name shown by notification centres.
const AppName = "Darrow"

// DefaultTimeout is how long a notification stays up where the platform
// lets us choose.
const DefaultTimeout = 5 * time.Second

// Kind says what happened to the canvas.
type Kind int

const (
	KindOther Kind = iota
	KindSaved
	KindCopied
	KindImported
)

// Subtitle is the short heading shown under the app name where supported.
func (k Kind) Subtitle() string {
	switch k {
	case KindSaved:
		return "Canvas saved"
	case KindCopied:
		return "Canvas copied"
	case KindImported:
		return "Layer imported"
	}
	return ""
}

// category is the freedesktop notification category for k.
func (k Kind) category() string {
	switch k {
	case KindSaved:
		return "transfer.complete"
	case KindCopied, KindImported:
		return "transfer"
	}
	return ""
}

// Options configures how a notification is displayed on the host platform.
type Options struct {
	Kind Kind
	// ImagePath is a picture of the canvas shown with the notification
	// where the platform supports one.
	ImagePath string
	// Timeout overrides DefaultTimeout. Only honoured on Linux.
	Timeout time.Duration
}

func (o Options) timeout() time.Duration {
	if o.Timeout > 0 {
		return o.Timeout
	}
	return DefaultTimeout
}
