package database

import "github.com/okian/courtside/pkg/logger"

// Option applies a configuration option to the Provider.
type Option func(*Provider)

// WithLogger sets the logger used for connection lifecycle entries.
func WithLogger(l logger.Logger) Option {
	return func(p *Provider) {
		if l != nil {
			p.logger = l
		}
	}
}
