package service

import "sync"

// projectLocks serializes generate/approve calls against the same project.
// The aggregate is read-modify-written as a whole, so concurrent callers on
// one project would otherwise lose updates.
type projectLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

// acquire locks the named project and returns the matching unlock.
func (l *projectLocks) acquire(projectID string) func() {
	l.mu.Lock()
	if l.m == nil {
		l.m = make(map[string]*sync.Mutex)
	}
	pm, ok := l.m[projectID]
	if !ok {
		pm = &sync.Mutex{}
		l.m[projectID] = pm
	}
	l.mu.Unlock()

	pm.Lock()
	return pm.Unlock
}
