package bancho

import (
	"context"
	"log/slog"
	"time"
)

const (
	janitorInterval = 30 * time.Second

	// sessionTimeout is how long a session may go without polling before
	// it is swept. Healthy clients poll every few seconds.
	sessionTimeout = 5 * time.Minute
)

// RunJanitor sweeps dead sessions until ctx is cancelled: clients whose
// write queue overran and clients that silently stopped polling.
func (s *Server) RunJanitor(ctx context.Context) error {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Server) sweep() {
	deadline := time.Now().Add(-sessionTimeout).Unix()

	s.mu.RLock()
	var stale []*User
	s.users.ForEach(func(u *User) {
		if u.IsBot() {
			return
		}
		if u.Dropped() || u.LatestActivity < deadline {
			stale = append(stale, u)
		}
	})
	s.mu.RUnlock()

	for _, u := range stale {
		slog.Info("sweeping dead session", "user", u.Name, "dropped", u.Dropped())
		s.ForceLogout(u)
	}
}
