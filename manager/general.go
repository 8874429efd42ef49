package manager

import (
	"fmt"
	"strings"
	"sync"

	"phishsafe/probe"
)

// KeywordStore persists custom keywords. *query.Database implements it.
type KeywordStore interface {
	GetAllKeywords() ([]string, error)
	InsertKeyword(name string) error
	DeleteKeyword(name string) error
}

// KeywordManager keeps the custom recorder keywords in memory and in the
// recorder_keywords table.
type KeywordManager struct {
	db       KeywordStore
	defaults probe.KeywordSet
	custom   map[string]struct{}
	mutex    sync.RWMutex
}

func NewKeywordManager(db KeywordStore, defaults probe.KeywordSet) (*KeywordManager, error) {
	km := &KeywordManager{
		db:       db,
		defaults: defaults,
		custom:   make(map[string]struct{}),
	}

	if err := km.Refresh(); err != nil {
		return nil, err
	}

	return km, nil
}

// Refresh reloads the custom keywords from the database.
func (km *KeywordManager) Refresh() error {
	names, err := km.db.GetAllKeywords()
	if err != nil {
		return fmt.Errorf("Refresh: %w", err)
	}

	custom := make(map[string]struct{}, len(names))
	for _, name := range names {
		custom[name] = struct{}{}
	}

	km.mutex.Lock()
	km.custom = custom
	km.mutex.Unlock()

	return nil
}

// Snapshot returns the built-in keywords joined with the custom ones. Later
// changes to the manager do not affect a returned set.
func (km *KeywordManager) Snapshot() probe.KeywordSet {
	return km.defaults.Union(probe.NewKeywordSet(km.customWords()...))
}

func (km *KeywordManager) Custom() []string {
	return probe.NewKeywordSet(km.customWords()...).Words()
}

func (km *KeywordManager) customWords() []string {
	km.mutex.RLock()
	defer km.mutex.RUnlock()
	words := make([]string, 0, len(km.custom))
	for name := range km.custom {
		words = append(words, name)
	}
	return words
}

func normalize(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", fmt.Errorf("empty keyword")
	}
	return name, nil
}

func (km *KeywordManager) Add(name string) error {
	name, err := normalize(name)
	if err != nil {
		return err
	}
	if err := km.db.InsertKeyword(name); err != nil {
		return fmt.Errorf("Add: %w", err)
	}

	km.mutex.Lock()
	km.custom[name] = struct{}{}
	km.mutex.Unlock()

	return nil
}

func (km *KeywordManager) Remove(name string) error {
	name, err := normalize(name)
	if err != nil {
		return err
	}
	if err := km.db.DeleteKeyword(name); err != nil {
		return fmt.Errorf("Remove: %w", err)
	}

	km.mutex.Lock()
	delete(km.custom, name)
	km.mutex.Unlock()

	return nil
}
