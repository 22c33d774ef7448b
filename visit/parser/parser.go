package parser

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/c360studio/visitparse/visit"
)

// Option configures parsing.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger parse warnings are reported to. The default
// is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Parse parses visit file content into a Visit. Parsing is a pure
// function of the content: independent calls share no state and may run
// concurrently. Recoverable problems are collected on the returned
// visit's Warnings and logged; structural violations are errors.
func Parse(content []byte, opts ...Option) (*visit.Visit, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	templates, commands := Tokenize(content)

	b := &builder{logger: o.logger}
	preamble, groups, err := b.buildHierarchy(commands)
	if err != nil {
		return nil, err
	}

	v, err := visit.New(templates, preamble, groups)
	if err != nil {
		return nil, err
	}
	v.Warnings = b.warnings
	return v, nil
}

// ParseFile reads and parses one visit file.
func ParseFile(path string, opts ...Option) (*visit.Visit, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read visit file: %w", err)
	}
	v, err := Parse(content, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return v, nil
}
