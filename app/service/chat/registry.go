package chat

import (
	"fmt"
	"sync"
)

// registry holds live sessions and enforces the per-IP connection cap.
type registry struct {
	mu       sync.Mutex
	sessions map[string]*session
	perIP    map[string]int
	maxPerIP int
}

func newRegistry(maxPerIP int) *registry {
	return &registry{
		sessions: make(map[string]*session),
		perIP:    make(map[string]int),
		maxPerIP: maxPerIP,
	}
}

func (r *registry) create(id, email, remoteIP string) (*session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.maxPerIP > 0 && r.perIP[remoteIP] >= r.maxPerIP {
		return nil, fmt.Errorf("connection limit reached for %s", remoteIP)
	}

	sess := newSession(id, email, remoteIP)
	r.sessions[id] = sess
	r.perIP[remoteIP]++

	return sess, nil
}

func (r *registry) remove(sess *session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[sess.id]; !ok {
		return
	}

	delete(r.sessions, sess.id)

	if r.perIP[sess.remoteIP] > 1 {
		r.perIP[sess.remoteIP]--
	} else {
		delete(r.perIP, sess.remoteIP)
	}
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sessions)
}

func (r *registry) snapshotInfo() []ConnectionInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]ConnectionInfo, 0, len(r.sessions))
	for _, sess := range r.sessions {
		result = append(result, sess.info())
	}

	return result
}
