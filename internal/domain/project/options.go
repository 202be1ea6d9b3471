package project

import "time"

// Observer is told about every successful write.
type Observer interface {
	ProjectSubmitted()
	ResponseRecorded()
}

// Option customizes a Service.
type Option func(*Service)

// WithObserver registers o for write notifications.
func WithObserver(o Observer) Option {
	return func(s *Service) {
		s.observer = o
	}
}

// WithClock replaces the time source. Returned times are converted to UTC.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = func() time.Time { return now().UTC() }
	}
}

type noopObserver struct{}

func (noopObserver) ProjectSubmitted() {}
func (noopObserver) ResponseRecorded() {}
