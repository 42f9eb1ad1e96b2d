package peggrove

import (
	"os"

	"github.com/hashicorp/go-hclog"
)

// logger is the package-level structured logger used for rule-evaluation
// tracing. It defaults to a quiet (off) logger so that importing this
// package produces no output by itself; callers that want to watch a
// grammar run opt in with SetLogger, the same way lab47-peggysue exposes
// its hclog.Logger field for callers to wire up.
var logger hclog.Logger = hclog.NewNullLogger()

// SetLogger installs l as the engine's structured logger. Pass a logger
// at hclog.Trace level to watch rule entry/exit while debugging a
// grammar; the zero value (nil) restores the null logger.
func SetLogger(l hclog.Logger) {
	if l == nil {
		l = hclog.NewNullLogger()
	}
	logger = l
}

// DefaultLogger returns an hclog.Logger writing to stderr at Trace level,
// so the rule entry/exit log grammar.go emits is actually visible; this is
// what a CLI driver's -trace flag should wire up.
func DefaultLogger(name string) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   name,
		Level:  hclog.Trace,
		Output: os.Stderr,
	})
}
