package service

import "sync"

// attemptLocker serializes work against a single attempt. Reveals and the
// hypothesis submission for one (player, puzzle) pair run one at a time;
// different attempts proceed in parallel.
type attemptLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newAttemptLocker() *attemptLocker {
	return &attemptLocker{
		locks: make(map[string]*sync.Mutex),
	}
}

func (l *attemptLocker) lock(playerID, puzzleID string) func() {
	key := playerID + ":" + puzzleID

	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
