// Package probe answers whether the screen is likely being recorded right now.
//
// The answer is a low-confidence signal built from running process names. Any
// failure to read the host resolves to false.
package probe

import (
	"log"
	"strings"
	"sync"
)

// Verdict is the outcome of a single check.
type Verdict struct {
	Recording      bool
	MatchedProcess string
	Keyword        string
	// SecureFlagChecked is false when the check returned before consulting
	// the secure display flag.
	SecureFlagChecked bool
	SecureFlagSet     bool
}

// ScreenRecordingProbe keeps no verdict state between checks.
type ScreenRecordingProbe struct {
	system     SystemProbe
	policy     DetectionPolicy
	secureMode SecureFlagMode
	logger     *log.Logger
	// the unset flag is reported once per probe, not on every check
	insecureOnce sync.Once
}

type Option func(*ScreenRecordingProbe)

func WithSecureFlagMode(m SecureFlagMode) Option {
	return func(p *ScreenRecordingProbe) { p.secureMode = m }
}

func WithLogger(l *log.Logger) Option {
	return func(p *ScreenRecordingProbe) { p.logger = l }
}

func New(system SystemProbe, policy DetectionPolicy, opts ...Option) *ScreenRecordingProbe {
	p := &ScreenRecordingProbe{
		system: system,
		policy: policy,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *ScreenRecordingProbe) Policy() DetectionPolicy {
	return p.policy
}

func (p *ScreenRecordingProbe) IsScreenRecording() bool {
	return p.Check().Recording
}

// Check runs the policy against a fresh process snapshot.
func (p *ScreenRecordingProbe) Check() Verdict {
	set, scans := p.policy.Keywords()
	if !scans || p.system == nil {
		return Verdict{}
	}

	names, err := p.system.ListProcessNames()
	if err != nil || len(names) == 0 {
		return Verdict{}
	}

	for _, name := range names {
		if kw, ok := set.Match(name); ok {
			p.logger.Printf("ScreenCheck: possible screen recording process detected: %s", strings.ToLower(name))
			return Verdict{Recording: true, MatchedProcess: name, Keyword: kw}
		}
	}

	v := Verdict{SecureFlagChecked: true, SecureFlagSet: p.system.IsSecureDisplayFlagSet()}
	if !v.SecureFlagSet {
		p.insecureOnce.Do(func() {
			p.logger.Printf("ScreenCheck: secure display flag is off, screen may be capturable")
		})
		if p.secureMode == SecureFlagEnforce {
			v.Recording = true
		}
	}
	return v
}
