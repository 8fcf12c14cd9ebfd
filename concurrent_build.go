package depreq

import "golang.org/x/sync/errgroup"

// buildConcurrentN resolves N sibling dependencies in parallel, per the
// resolution algorithm's "independent providers run with maximal permitted
// concurrency" step. Each fails independently; the first *Failure observed
// (in slot order) is what callers surface, but every goroutine is allowed
// to finish so scoped caches/in-flight handles settle deterministically.

func buildConcurrent1[A any](rs *requestScope, path []ProviderSpec, da Dep[A]) (A, *Failure) {
	return da.build(rs, path)
}

func buildConcurrent2[A, B any](rs *requestScope, path []ProviderSpec, da Dep[A], db Dep[B]) (A, B, *Failure) {
	var a A
	var b B
	var fa, fb *Failure
	g := &errgroup.Group{}
	g.Go(func() error { a, fa = da.build(rs, path); return nil })
	g.Go(func() error { b, fb = db.build(rs, path); return nil })
	_ = g.Wait()
	if fa != nil {
		return a, b, fa
	}
	return a, b, fb
}

func buildConcurrent3[A, B, C any](rs *requestScope, path []ProviderSpec, da Dep[A], db Dep[B], dc Dep[C]) (A, B, C, *Failure) {
	var a A
	var b B
	var c C
	var fa, fb, fc *Failure
	g := &errgroup.Group{}
	g.Go(func() error { a, fa = da.build(rs, path); return nil })
	g.Go(func() error { b, fb = db.build(rs, path); return nil })
	g.Go(func() error { c, fc = dc.build(rs, path); return nil })
	_ = g.Wait()
	for _, f := range []*Failure{fa, fb, fc} {
		if f != nil {
			return a, b, c, f
		}
	}
	return a, b, c, nil
}

func buildConcurrent4[A, B, C, D any](rs *requestScope, path []ProviderSpec, da Dep[A], db Dep[B], dc Dep[C], dd Dep[D]) (A, B, C, D, *Failure) {
	var a A
	var b B
	var c C
	var d D
	var fa, fb, fc, fd *Failure
	g := &errgroup.Group{}
	g.Go(func() error { a, fa = da.build(rs, path); return nil })
	g.Go(func() error { b, fb = db.build(rs, path); return nil })
	g.Go(func() error { c, fc = dc.build(rs, path); return nil })
	g.Go(func() error { d, fd = dd.build(rs, path); return nil })
	_ = g.Wait()
	for _, f := range []*Failure{fa, fb, fc, fd} {
		if f != nil {
			return a, b, c, d, f
		}
	}
	return a, b, c, d, nil
}

func buildConcurrent5[A, B, C, D, E any](rs *requestScope, path []ProviderSpec, da Dep[A], db Dep[B], dc Dep[C], dd Dep[D], de Dep[E]) (A, B, C, D, E, *Failure) {
	var a A
	var b B
	var c C
	var d D
	var e E
	var fa, fb, fc, fd, fe *Failure
	g := &errgroup.Group{}
	g.Go(func() error { a, fa = da.build(rs, path); return nil })
	g.Go(func() error { b, fb = db.build(rs, path); return nil })
	g.Go(func() error { c, fc = dc.build(rs, path); return nil })
	g.Go(func() error { d, fd = dd.build(rs, path); return nil })
	g.Go(func() error { e, fe = de.build(rs, path); return nil })
	_ = g.Wait()
	for _, f := range []*Failure{fa, fb, fc, fd, fe} {
		if f != nil {
			return a, b, c, d, e, f
		}
	}
	return a, b, c, d, e, nil
}
