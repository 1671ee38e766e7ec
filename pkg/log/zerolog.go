package log

import (
	"github.com/rs/zerolog"

	"github.com/sheetstats/regress/pkg/errors"
)

// UseZerolog routes library warnings through the given zerolog logger.
// Warnings implementing zerolog.LogObjectMarshaler are logged with
// their structured fields attached.
func UseZerolog(logger zerolog.Logger) {
	errors.SetZerologWarnFunc(func(warning error) {
		event := logger.Warn()
		if m, ok := warning.(zerolog.LogObjectMarshaler); ok {
			event = event.Object("warning", m)
		} else {
			event = event.Err(warning)
		}
		event.Msg(warning.Error())
	})
}
