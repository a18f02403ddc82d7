// Package logging provides one leveled, tagged logger per process,
// following the teacher's text_color_set/dw_printf convention of tagging
// every output line with its source (log.go, textcolor.go in the teacher
// tree) instead of the teacher's literal ANSI escape codes.
package logging

import (
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	once   sync.Once
	root   *log.Logger
	cached = map[string]*log.Logger{}
	mu     sync.Mutex
)

func initRoot() {
	root = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           log.InfoLevel,
	})
}

// Root returns the process-wide root logger.
func Root() *log.Logger {
	once.Do(initRoot)
	return root
}

// SetLevel adjusts the root logger's verbosity. Called once from
// cmd/dectphy after the worker_pool_config is loaded and its log level
// field is known.
func SetLevel(level log.Level) {
	Root().SetLevel(level)
}

// For returns a sub-logger tagged with component, e.g. "worker_sync",
// "resample", "tx". Sub-loggers are cached so repeated calls in a hot loop
// don't allocate.
func For(component string) *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	if l, ok := cached[component]; ok {
		return l
	}
	l := Root().With("component", component)
	cached[component] = l
	return l
}
