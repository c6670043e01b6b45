package provider

import (
	"context"
	"sync"
)

// Static returns a fixed reply and records every call. Tests use it in place
// of a live provider.
type Static struct {
	Reply string
	Err   error

	mu    sync.Mutex
	calls []Request
}

func (s *Static) Complete(ctx context.Context, req Request) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, req)
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.Err != nil {
		return "", s.Err
	}
	return s.Reply, nil
}

// Calls returns a copy of the requests seen so far.
func (s *Static) Calls() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.calls))
	copy(out, s.calls)
	return out
}
