package depreq

import "context"

// Resource is implemented by any provided value that owns something which
// must be released after the scope that produced it ends (a DB connection,
// a file handle, a lock). Detection is structural: no registration is
// needed, the resolver simply checks whether the produced value satisfies
// this interface.
type Resource interface {
	Acquire() error
	Release() error
}

// AsyncResource is the context-aware counterpart of Resource, for
// acquire/release steps that may need to respect cancellation.
type AsyncResource interface {
	Acquire(ctx context.Context) error
	Release(ctx context.Context) error
}

type releaseEntry struct {
	spec  ProviderSpec
	sync  func() error
	async func(context.Context) error
}

func (e releaseEntry) run(ctx context.Context) error {
	if e.async != nil {
		return e.async(ctx)
	}
	return e.sync()
}

// releaseStack runs entries LIFO, matching acquire order in reverse, and
// never stops early: every entry gets a chance to release even if an
// earlier one failed, with every failure reported rather than just the
// first.
type releaseStack struct {
	entries []releaseEntry
}

func (s *releaseStack) push(e releaseEntry) {
	s.entries = append(s.entries, e)
}

func (s *releaseStack) runAll(ctx context.Context, onErr func(spec ProviderSpec, err error)) {
	for i := len(s.entries) - 1; i >= 0; i-- {
		e := s.entries[i]
		if err := e.run(ctx); err != nil && onErr != nil {
			onErr(e.spec, err)
		}
	}
	s.entries = nil
}

// detectResource acquires v if it implements Resource or AsyncResource,
// returning a releaseEntry to push onto the owning scope's stack. ok is
// false when v owns no releasable resource.
func detectResource(ctx context.Context, spec ProviderSpec, v any) (entry releaseEntry, ok bool, err error) {
	switch r := v.(type) {
	case AsyncResource:
		if aerr := r.Acquire(ctx); aerr != nil {
			return releaseEntry{}, false, aerr
		}
		return releaseEntry{spec: spec, async: r.Release}, true, nil
	case Resource:
		if aerr := r.Acquire(); aerr != nil {
			return releaseEntry{}, false, aerr
		}
		return releaseEntry{spec: spec, sync: r.Release}, true, nil
	default:
		return releaseEntry{}, false, nil
	}
}
