// Package workload is the idiomatic Go analogue of pysample's
// find_script/exec(code_object) launcher: Go has no facility for compiling
// and running an arbitrary source file handed to it at runtime, so instead
// callers register an in-process function under a label and record selects
// it by name, exercising the same begin/collect/end lifecycle end to end.
package workload

import (
	"crypto/sha256"
	"fmt"
	"sync"
)

// Func is a unit of work record can profile. It takes no arguments and
// returns nothing; any output belongs on stdout/stderr or a side channel
// the caller owns.
type Func func()

var (
	mu        sync.Mutex
	workloads = map[string]Func{}
)

// Register adds fn to the registry under label, overwriting any previous
// registration for the same label.
func Register(label string, fn Func) {
	mu.Lock()
	defer mu.Unlock()
	workloads[label] = fn
}

// Get returns the workload registered under label, if any.
func Get(label string) (Func, bool) {
	mu.Lock()
	defer mu.Unlock()
	fn, ok := workloads[label]
	return fn, ok
}

// Labels returns every registered workload label.
func Labels() []string {
	mu.Lock()
	defer mu.Unlock()
	labels := make([]string, 0, len(workloads))
	for label := range workloads {
		labels = append(labels, label)
	}
	return labels
}

func init() {
	Register("busyloop", busyLoop)
}

// busyLoop is the Go analogue of pysample's tests/scripts/busy_loop.py: a
// CPU-bound loop that repeatedly hashes and discards data, long enough for
// a handful of timer ticks to land inside it.
func busyLoop() {
	for i := 0; i < 50; i++ {
		h := sha256.New()
		for j := 0; j < 10000; j++ {
			fmt.Fprintf(h, "%d-%d", i, j)
		}
		_ = h.Sum(nil)
	}
}
