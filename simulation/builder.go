package simulation

import (
	"errors"

	"github.com/rs/zerolog"
	"github.com/sarchlab/cachesim/cache"
)

// Builder can be used to build a simulator.
type Builder struct {
	config    cache.Config
	policy    cache.ReplacementPolicy
	tags      cache.TagArray
	logger    zerolog.Logger
	hooks     []Hook
	hasConfig bool
}

// MakeBuilder creates a new builder. The replacement policy defaults to LRU.
func MakeBuilder() Builder {
	return Builder{
		policy: cache.LRU{},
		logger: zerolog.Nop(),
	}
}

// WithConfig sets the cache geometry.
func (b Builder) WithConfig(c cache.Config) Builder {
	b.config = c
	b.hasConfig = true

	return b
}

// WithPolicy sets the replacement policy.
func (b Builder) WithPolicy(p cache.ReplacementPolicy) Builder {
	b.policy = p
	return b
}

// WithTagArray replaces the tag array that would be built from the config.
func (b Builder) WithTagArray(t cache.TagArray) Builder {
	b.tags = t
	return b
}

// WithLogger sets the logger of the simulator.
func (b Builder) WithLogger(l zerolog.Logger) Builder {
	b.logger = l
	return b
}

// WithHook registers a hook on the simulator being built.
func (b Builder) WithHook(h Hook) Builder {
	b.hooks = append(b.hooks[:len(b.hooks):len(b.hooks)], h)
	return b
}

// Build builds the simulator. It fails if the config is missing or invalid.
func (b Builder) Build() (*Simulator, error) {
	if !b.hasConfig {
		return nil, errors.New("simulation: cache config is not set")
	}

	if err := b.config.Validate(); err != nil {
		return nil, err
	}

	if b.policy == nil {
		return nil, errors.New("simulation: replacement policy is not set")
	}

	s := &Simulator{
		config: b.config,
		policy: b.policy,
		tags:   b.tags,
		logger: b.logger,
	}

	if s.tags == nil {
		s.tags = cache.NewTagArray(b.config, b.policy)
	}

	for _, h := range b.hooks {
		s.AcceptHook(h)
	}

	return s, nil
}
