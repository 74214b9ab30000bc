package wills

type ServiceOption func(*Service)

// WithClock overrides the time source, mainly for testing purposes.
func WithClock(clock Clock) ServiceOption {
	return func(svc *Service) {
		svc.clock = clock
	}
}

// WithConfig overrides the environment-parsed timeframe bounds.
func WithConfig(cfg Config) ServiceOption {
	return func(svc *Service) {
		svc.cfg = cfg
	}
}
