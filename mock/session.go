package mock

import (
	"context"

	"github.com/sitedigest/sitedigest"
)

var _ sitedigest.Session = (*Session)(nil)

// Session is a mock implementation of sitedigest.Session.
type Session struct {
	StateFn    func() sitedigest.SessionState
	NavigateFn func(ctx context.Context, url string) (html, title string, err error)
	CloseFn    func() error
}

func (s *Session) State() sitedigest.SessionState {
	if s.StateFn == nil {
		return sitedigest.SessionUnprobed
	}
	return s.StateFn()
}

func (s *Session) Navigate(ctx context.Context, url string) (string, string, error) {
	return s.NavigateFn(ctx, url)
}

func (s *Session) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}
