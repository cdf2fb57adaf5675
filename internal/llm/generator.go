package llm

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Generator produces a text completion for a single prompt. Implementations
// wrap a concrete provider; callers are responsible for interpreting the
// returned text.
type Generator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

func logError(logger *logrus.Logger, fields logrus.Fields, err error, message string) {
	if logger == nil || err == nil {
		return
	}

	entry := logger.WithField("error", err.Error())
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Error(message)
}
