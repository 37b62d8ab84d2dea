package mpeg

import "go.uber.org/zap"

// sugar is the package-wide diagnostic logger, following the log.Sugar
// convention this codebase uses elsewhere. It defaults to a no-op logger so
// the library stays silent unless a host process opts in.
var sugar = zap.NewNop().Sugar()

// SetLogger installs the logger used for mux/demux diagnostics (start-code
// resyncs, unknown stream discovery, encrypted-stream rejection). Passing nil
// restores the no-op logger.
func SetLogger(l *zap.SugaredLogger) {
	if l == nil {
		sugar = zap.NewNop().Sugar()
		return
	}
	sugar = l
}
