package compiler

import (
	"context"
	"fmt"
	"hash/fnv"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"elc-go/packages/compiler/src/output"
	"elc-go/packages/compiler/src/sass"
)

// Result represents the per-file outcome of a multi-file build
type Result struct {
	Path      string
	Component *CompiledComponent
	Err       error
}

// BuildSession owns the state shared across one multi-file build invocation:
// the scope-token registry and the set of runtime helpers already emitted.
// A session must not be reused across builds.
type BuildSession struct {
	mu         sync.Mutex
	usedTokens map[string]bool
	processor  sass.Processor
	workers    int
	runtime    string
}

// BuildOption configures a BuildSession
type BuildOption func(*BuildSession)

// WithProcessor sets the external style processor used for every style block
func WithProcessor(processor sass.Processor) BuildOption {
	return func(s *BuildSession) {
		s.processor = processor
	}
}

// WithWorkers bounds the number of files compiled in parallel
func WithWorkers(workers int) BuildOption {
	return func(s *BuildSession) {
		if workers > 0 {
			s.workers = workers
		}
	}
}

// NewBuildSession creates a new BuildSession
func NewBuildSession(opts ...BuildOption) *BuildSession {
	s := &BuildSession{
		usedTokens: map[string]bool{},
		workers:    runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Build compiles the given documents, in parallel, and returns one Result per
// document in input order. A failure is scoped to its own file; cancellation
// of ctx stops scheduling files that have not started yet and records the
// cancellation error for them.
func (s *BuildSession) Build(ctx context.Context, docs []SourceDocument) []Result {
	results := make([]Result, len(docs))

	// Tokens are claimed sequentially in input order so that the token of a
	// given file does not depend on worker scheduling.
	tokens := make([]string, len(docs))
	for i, doc := range docs {
		tokens[i] = s.claimScopeToken(doc.Path)
	}

	g := &errgroup.Group{}
	g.SetLimit(s.workers)
	for i := range docs {
		i := i
		doc := docs[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{Path: doc.Path, Err: err}
				return nil
			}
			component, err := CompileDocument(ctx, doc, tokens[i], s.processor)
			results[i] = Result{Path: doc.Path, Component: component, Err: err}
			return nil
		})
	}
	g.Wait()

	s.attachRuntime(results)
	return results
}

// claimScopeToken derives a short unique token from the file path. Distinct
// paths hashing to the same token get a counter suffix, so tokens are unique
// across one build invocation.
func (s *BuildSession) claimScopeToken(path string) string {
	h := fnv.New32a()
	h.Write([]byte(path))
	token := fmt.Sprintf("elc-%06x", h.Sum32()&0xffffff)

	s.mu.Lock()
	defer s.mu.Unlock()
	candidate := token
	for n := 2; s.usedTokens[candidate]; n++ {
		candidate = fmt.Sprintf("%s-%d", token, n)
	}
	s.usedTokens[candidate] = true
	return candidate
}

// attachRuntime emits the shared runtime helpers exactly once per build,
// prepended to the first successful component in input order. Components
// reference the helpers without re-emitting them.
func (s *BuildSession) attachRuntime(results []Result) {
	needed := map[output.RuntimeHelper]bool{}
	first := -1
	for i, result := range results {
		if result.Component == nil {
			continue
		}
		if first == -1 {
			first = i
		}
		for _, helper := range result.Component.Helpers {
			needed[helper] = true
		}
	}
	if first == -1 || len(needed) == 0 {
		return
	}
	s.runtime = output.RuntimeSource(output.SortHelpers(needed))
	results[first].Component.JSCode = s.runtime + "\n" + results[first].Component.JSCode
}

// Runtime returns the helper source of the last Build, for hosts that bundle
// the runtime separately from the first component's module.
func (s *BuildSession) Runtime() string {
	return s.runtime
}
