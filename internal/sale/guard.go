package sale

// guard is a non-blocking reentrancy lock. Execution is serial, so a held guard can only mean
// the current entrypoint has been called back into.
type guard struct {
	entered bool
}

// enter takes the guard and returns the function that releases it.
func (g *guard) enter() (func(), error) {
	if g.entered {
		return nil, ErrReentrantCall
	}
	g.entered = true
	return func() { g.entered = false }, nil
}
