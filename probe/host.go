package probe

import (
	"fmt"

	"github.com/shirou/gopsutil/process"
)

// HostProbe reads the running processes of the local machine through gopsutil.
// Desktop hosts have no per-window secure flag, so the flag is whatever the
// shell configured.
type HostProbe struct {
	SecureDisplay bool
}

func NewHostProbe(secureDisplay bool) *HostProbe {
	return &HostProbe{SecureDisplay: secureDisplay}
}

func (h *HostProbe) ListProcessNames() ([]string, error) {
	processes, err := process.Processes()
	if err != nil {
		return nil, fmt.Errorf("ListProcessNames: %w", err)
	}
	names := make([]string, 0, len(processes))
	for _, p := range processes {
		if p == nil {
			continue
		}
		// processes can exit between the listing and the lookup
		name, err := p.Name()
		if err != nil || name == "" {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

func (h *HostProbe) IsSecureDisplayFlagSet() bool {
	return h.SecureDisplay
}
