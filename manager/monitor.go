package manager

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"phishsafe/entity"
	"phishsafe/probe"
)

// DetectionStore persists the outcome of each check.
type DetectionStore interface {
	SaveDetection(d entity.DetectionRecord) (int64, error)
}

// ScreenMonitor answers isScreenRecording for the bridge. It owns the current
// probe and replaces it whenever the keyword set changes.
type ScreenMonitor struct {
	system     probe.SystemProbe
	policyName string
	secureMode probe.SecureFlagMode
	keywords   *KeywordManager
	store      DetectionStore
	current    atomic.Pointer[probe.ScreenRecordingProbe]
	// held across a keyword change and the probe swap that follows it
	keywordMu  sync.Mutex
	now        func() time.Time
}

func NewScreenMonitor(system probe.SystemProbe, policyName string, secureMode probe.SecureFlagMode, keywords *KeywordManager, store DetectionStore) (*ScreenMonitor, error) {
	sm := &ScreenMonitor{
		system:     system,
		policyName: policyName,
		secureMode: secureMode,
		keywords:   keywords,
		store:      store,
		now:        time.Now,
	}
	if err := sm.Rebuild(); err != nil {
		return nil, err
	}
	return sm, nil
}

// Rebuild swaps in a probe built from the current keyword snapshot.
func (sm *ScreenMonitor) Rebuild() error {
	set := probe.DefaultKeywords()
	if sm.keywords != nil {
		set = sm.keywords.Snapshot()
	}
	policy, err := probe.PolicyByName(sm.policyName, set)
	if err != nil {
		return err
	}
	sm.current.Store(probe.New(sm.system, policy, probe.WithSecureFlagMode(sm.secureMode)))
	return nil
}

func (sm *ScreenMonitor) Probe() *probe.ScreenRecordingProbe {
	return sm.current.Load()
}

// Check runs the probe and records the verdict. A failed save is logged and
// does not change the verdict.
func (sm *ScreenMonitor) Check() probe.Verdict {
	p := sm.current.Load()
	v := p.Check()
	if sm.store == nil {
		return v
	}
	rec := entity.DetectionRecord{
		CheckID:        uuid.NewString(),
		CheckedAt:      sm.now(),
		Recording:      v.Recording,
		MatchedProcess: v.MatchedProcess,
		Keyword:        v.Keyword,
		Policy:         p.Policy().Name(),
	}
	if _, err := sm.store.SaveDetection(rec); err != nil {
		log.Println("ScreenCheck: could not save detection:", err)
	}
	return v
}

func (sm *ScreenMonitor) IsScreenRecording() bool {
	return sm.Check().Recording
}

func (sm *ScreenMonitor) AddKeyword(name string) error {
	sm.keywordMu.Lock()
	defer sm.keywordMu.Unlock()
	if err := sm.keywords.Add(name); err != nil {
		return err
	}
	return sm.Rebuild()
}

func (sm *ScreenMonitor) RemoveKeyword(name string) error {
	sm.keywordMu.Lock()
	defer sm.keywordMu.Unlock()
	if err := sm.keywords.Remove(name); err != nil {
		return err
	}
	return sm.Rebuild()
}

// Watch calls check every interval until stop is closed, logging only when
// the verdict changes.
func Watch(check func() bool, interval time.Duration, stop <-chan struct{}, onChange func(bool)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := false
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			recording := check()
			if recording == last {
				continue
			}
			last = recording
			if recording {
				log.Println("ScreenCheck: screen recording started")
			} else {
				log.Println("ScreenCheck: screen recording stopped")
			}
			if onChange != nil {
				onChange(recording)
			}
		}
	}
}
