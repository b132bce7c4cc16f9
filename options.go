package lazyframe

type options struct {
	logger *Logger
}

// Option configures series and frame construction.
//
// Today options primarily exist to avoid exploding the API surface;
// notably they inject the logger the index-builder dispatcher reports its
// dispatch decisions to.
type Option func(*options)

// WithLogger configures the logger used for Debug-level dispatch
// decisions. If nil is passed, logging is disabled.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

func applyOptions(optFns []Option) options {
	opts := options{
		logger: NoopLogger(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return opts
}
