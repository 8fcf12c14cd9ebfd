package depreq

// MockMap is a set of provider substitutions, built with Mock/MockValue
// and activated for the duration of a test via Container.WithMocks. It is
// process-wide and NOT safe for concurrent requests while active: it
// exists for sequential test use, not production traffic shaping.
type MockMap struct {
	subs map[ProviderSpec]mockEntry
}

type mockEntry struct {
	isValue  bool
	value    any
	provider AnyProvider
}

// NewMockMap builds an empty substitution set.
func NewMockMap() *MockMap {
	return &MockMap{subs: map[ProviderSpec]mockEntry{}}
}

// Mock replaces provider's subgraph with a differently-implemented
// *Provider[T] of the same element type for the lifetime of the active
// MockMap, preserving the original ProviderSpec identity so every caller
// of provider (directly or transitively) is redirected transparently.
func Mock[T any](mm *MockMap, provider *Provider[T], replacement *Provider[T]) {
	mm.subs[provider.Spec()] = mockEntry{provider: replacement}
}

// MockValue replaces provider's subgraph with a fixed value, skipping
// invocation (and resource acquisition) entirely.
func MockValue[T any](mm *MockMap, provider *Provider[T], value T) {
	mm.subs[provider.Spec()] = mockEntry{isValue: true, value: value}
}

func (mm *MockMap) lookup(spec ProviderSpec) (mockEntry, bool) {
	if mm == nil {
		return mockEntry{}, false
	}
	e, ok := mm.subs[spec]
	return e, ok
}

// WithMocks activates mm for the duration of fn. Mock activations nest: an
// inner WithMocks shadows outer substitutions for specs it also covers,
// and the outer set is restored on return.
func (c *Container) WithMocks(mm *MockMap, fn func()) {
	c.mockMu.Lock()
	c.mockStack = append(c.mockStack, mm)
	c.mockMu.Unlock()

	defer func() {
		c.mockMu.Lock()
		c.mockStack = c.mockStack[:len(c.mockStack)-1]
		c.mockMu.Unlock()
	}()

	fn()
}

func (c *Container) activeMock(spec ProviderSpec) (mockEntry, bool) {
	c.mockMu.RLock()
	defer c.mockMu.RUnlock()
	for i := len(c.mockStack) - 1; i >= 0; i-- {
		if e, ok := c.mockStack[i].lookup(spec); ok {
			return e, true
		}
	}
	return mockEntry{}, false
}
