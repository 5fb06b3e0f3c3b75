package interaction

import "github.com/go-drift/headless/pkg/errors"

// Guard detects re-entrant mutation of a component: a callback fired during
// a transition that calls back into the same component's transition function.
// The zero value is ready to use.
type Guard struct {
	active bool
	op     string
}

// Run executes fn unless another Run on the same guard is in progress, in
// which case it returns an InvalidTransition error without calling fn. The
// guard is released even if fn panics.
func (g *Guard) Run(op, component string, fn func() error) error {
	if g.active {
		return errors.InvalidTransition(op, component, reentrant(g.op))
	}
	g.active = true
	g.op = op
	defer func() {
		g.active = false
		g.op = ""
	}()
	return fn()
}

// Active reports whether a transition is in progress.
func (g *Guard) Active() bool {
	return g.active
}

type reentrantError struct {
	during string
}

func reentrant(during string) error {
	return &reentrantError{during: during}
}

func (e *reentrantError) Error() string {
	return errors.ErrReentrant.Error() + " during " + e.during
}

func (e *reentrantError) Unwrap() error {
	return errors.ErrReentrant
}
