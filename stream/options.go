package stream

// config holds stream configuration.
type config struct {
	encoding string
}

// newConfig creates a new config with defaults and applies options.
func newConfig(opts ...Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Option configures the streaming parser behavior.
type Option func(*config)

// WithEncoding carries a transport-supplied charset label for parity with
// the top-level package's Option; streaming parses decode as UTF-8
// regardless (see encoding.Decode), so this is recorded but not consulted.
func WithEncoding(enc string) Option {
	return func(c *config) {
		c.encoding = enc
	}
}
