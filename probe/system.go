package probe

// SystemProbe is the host capability the detection logic reads from.
type SystemProbe interface {
	// ListProcessNames returns the names of the running processes. A nil
	// slice or an error means the list is unavailable.
	ListProcessNames() ([]string, error)
	// IsSecureDisplayFlagSet reports whether the current window is marked
	// non-capturable.
	IsSecureDisplayFlagSet() bool
}
