package session

import (
	"github.com/charmbracelet/log"
)

// Decision is the outcome of [Guard.Enter].
type Decision int

const (
	Denied Decision = iota
	Allowed
)

func (d Decision) String() string {
	if d == Allowed {
		return "allowed"
	}
	return "denied"
}

// Guard gates entry to the dashboard on the presence of an access token.
type Guard struct {
	store  Store
	logger *log.Logger
}

func NewGuard(store Store, logger *log.Logger) *Guard {
	return &Guard{store: store, logger: logger}
}

// Enter returns [Allowed] when an access token is stored. A store failure is treated as no session.
//
// On [Denied] the caller navigates to [RouteHome].
func (g *Guard) Enter() Decision {
	sess, err := g.store.Get()
	if err != nil {
		g.logger.Warn("session lookup failed", "error", err)
		return Denied
	}
	if !sess.Authenticated() {
		g.logger.Debug("no access token, denying entry")
		return Denied
	}
	return Allowed
}
