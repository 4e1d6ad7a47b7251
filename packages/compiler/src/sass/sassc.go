package sass

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// ErrUnavailable signals that the external SASS processor cannot be used.
// Callers must treat it as a degradation, never as a compilation failure.
var ErrUnavailable = errors.New("sass: external processor unavailable")

// Processor transforms raw or scoped CSS text. Implementations return the
// processed CSS text, or an error wrapping ErrUnavailable when the processor
// cannot run; either outcome is a valid result for the caller.
type Processor interface {
	Process(ctx context.Context, cssText string) (string, error)
}

// SasscProcessor compiles SASS-flavored stylesheets into minified CSS by
// invoking the sassc executable with the stylesheet on stdin.
type SasscProcessor struct {
	path    string
	timeout time.Duration

	probeOnce sync.Once
	available bool
}

// SasscOption configures a SasscProcessor
type SasscOption func(*SasscProcessor)

// WithPath overrides the sassc executable path
func WithPath(path string) SasscOption {
	return func(p *SasscProcessor) {
		p.path = path
	}
}

// WithTimeout bounds a single sassc invocation
func WithTimeout(timeout time.Duration) SasscOption {
	return func(p *SasscProcessor) {
		p.timeout = timeout
	}
}

// NewSasscProcessor creates a new SasscProcessor
func NewSasscProcessor(opts ...SasscOption) *SasscProcessor {
	p := &SasscProcessor{
		path:    "sassc",
		timeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Available checks once whether the sassc executable can run on this system
func (p *SasscProcessor) Available() bool {
	p.probeOnce.Do(func() {
		cmd := exec.Command(p.path, "-h")
		cmd.Stdout = &bytes.Buffer{}
		cmd.Stderr = &bytes.Buffer{}
		p.available = cmd.Run() == nil
	})
	return p.available
}

// Process compiles the stylesheet with `sassc -s -t compressed`. A missing
// executable, a non-zero exit or a timeout all surface as errors wrapping
// ErrUnavailable so the caller degrades to the unprocessed stylesheet.
func (p *SasscProcessor) Process(ctx context.Context, cssText string) (string, error) {
	if !p.Available() {
		return "", fmt.Errorf("%q not found on this system: %w", p.path, ErrUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.path, "-s", "-t", "compressed")
	cmd.Stdin = strings.NewReader(cssText)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("%s: %w", msg, ErrUnavailable)
	}
	return strings.TrimSpace(stdout.String()), nil
}
