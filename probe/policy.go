package probe

import "fmt"

// DetectionPolicy decides how a probe turns host state into a verdict.
type DetectionPolicy interface {
	Name() string
	// Keywords returns the set to scan with, or false when the policy never
	// looks at the host.
	Keywords() (KeywordSet, bool)
}

type alwaysFalse struct{}

// AlwaysFalse is the placeholder policy: every check reports no recording
// without touching the host.
func AlwaysFalse() DetectionPolicy { return alwaysFalse{} }

func (alwaysFalse) Name() string                 { return "stub" }
func (alwaysFalse) Keywords() (KeywordSet, bool) { return KeywordSet{}, false }

type keywordHeuristic struct {
	set KeywordSet
}

// KeywordHeuristic matches every running process name against set.
func KeywordHeuristic(set KeywordSet) DetectionPolicy {
	return keywordHeuristic{set: set}
}

func (keywordHeuristic) Name() string                   { return "keyword" }
func (k keywordHeuristic) Keywords() (KeywordSet, bool) { return k.set, true }

// PolicyByName maps a configured policy name to a policy.
func PolicyByName(name string, set KeywordSet) (DetectionPolicy, error) {
	switch name {
	case "stub":
		return AlwaysFalse(), nil
	case "keyword", "":
		return KeywordHeuristic(set), nil
	default:
		return nil, fmt.Errorf("unknown detection policy %q", name)
	}
}

// SecureFlagMode controls what an unset secure display flag does.
type SecureFlagMode int

const (
	// SecureFlagInert consults the flag and logs when it is unset, without
	// affecting the verdict.
	SecureFlagInert SecureFlagMode = iota
	// SecureFlagEnforce reports recording whenever the flag is unset.
	SecureFlagEnforce
)

func ParseSecureFlagMode(s string) (SecureFlagMode, error) {
	switch s {
	case "inert", "":
		return SecureFlagInert, nil
	case "enforce":
		return SecureFlagEnforce, nil
	default:
		return SecureFlagInert, fmt.Errorf("unknown secure flag mode %q", s)
	}
}

func (m SecureFlagMode) String() string {
	if m == SecureFlagEnforce {
		return "enforce"
	}
	return "inert"
}
