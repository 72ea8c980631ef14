package server

import (
	"sync"

	"golang.org/x/time/rate"

	"github.com/Goden-Gun/vis-server/pkg/auth"
	"github.com/Goden-Gun/vis-server/pkg/subscription"
)

// session is the per-connection state: the client's subscriptions, its
// authorization grant and its request rate limiter.
type session struct {
	conn     *safeConn
	registry *subscription.Registry
	limiter  *rate.Limiter
	clientID string

	mu    sync.Mutex
	grant auth.Grant
}

func newSession(conn *safeConn, clientID string, perSecond, burst int) *session {
	return &session{
		conn:     conn,
		registry: subscription.NewRegistry(conn),
		limiter:  rate.NewLimiter(rate.Limit(perSecond), burst),
		clientID: clientID,
	}
}

// authorized reports whether the session holds a live grant.
func (s *session) authorized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grant.Valid()
}

func (s *session) setGrant(g auth.Grant) {
	s.mu.Lock()
	s.grant = g
	s.mu.Unlock()
}
