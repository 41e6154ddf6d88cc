package repofakes

import (
	"sync"

	"github.com/tylerpac/solace-client/session"
)

var _ session.Repository = (*FakeSessionRepo)(nil)

// FakeSessionRepo is an in-memory Repository. Tests simulate a write from
// another process by calling Set/Clear on the repo directly instead of going
// through the Store.
type FakeSessionRepo struct {
	lock     sync.RWMutex
	token    string
	username string

	setCalls   int
	clearCalls int
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{}
}

func (r *FakeSessionRepo) Get() (string, string, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.token, r.username, nil
}

func (r *FakeSessionRepo) Set(token, username string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.token = token
	r.username = username
	r.setCalls++
	return nil
}

func (r *FakeSessionRepo) Clear() error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.token = ""
	r.username = ""
	r.clearCalls++
	return nil
}

// SetCalls returns how many times Set has been called.
func (r *FakeSessionRepo) SetCalls() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.setCalls
}

// ClearCalls returns how many times Clear has been called.
func (r *FakeSessionRepo) ClearCalls() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.clearCalls
}
