package panicutil

import (
	"github.com/sourcegraph/conc/panics"
)

// Container runs functions with a double defer sandwich so that a panicking
// function is reported as an error instead of unwinding the calling
// goroutine.
type Container struct {
	// OnGoexit is called when the function exits via runtime.Goexit.
	// In that case Run never returns.
	OnGoexit func()
}

// Run invokes f. If f returns normally, Run returns f's error. If f panics,
// Run returns the recovered value as a *panics.ErrRecovered. If f calls
// runtime.Goexit, Run calls OnGoexit (when set) and the goroutine exits.
func (c *Container) Run(f func() error) (err error) {
	var (
		returned  bool
		recovered panics.Recovered
	)
	defer func() {
		if returned {
			return
		}
		if recovered.Value != nil {
			err = recovered.AsError()
			return
		}
		// Neither a normal return nor a panic: runtime.Goexit is unwinding.
		if c.OnGoexit != nil {
			c.OnGoexit()
		}
	}()
	func() {
		defer func() {
			recovered = panics.NewRecovered(2, recover())
		}()
		err = f()
		returned = true
	}()
	return
}
