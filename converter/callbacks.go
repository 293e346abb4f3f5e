package converter

import "time"

// Progress phases reported through ProgressCallback.
const (
	PhaseEncoding  = "encoding"
	PhaseWriting   = "writing"
	PhaseVerifying = "verifying"
	PhaseComplete  = "complete"
)

// Progress contains information about the conversion progress.
// Passed to ProgressCallback during Convert and ConvertHex.
type Progress struct {
	// Phase describes the current operation phase:
	//   "encoding"  - Validating input and planning blocks
	//   "writing"   - Writing UF2 blocks
	//   "verifying" - Decoding the written stream back
	//   "complete"  - Operation completed successfully
	Phase string

	// CurrentBlock is the number of blocks written so far
	CurrentBlock int

	// TotalBlocks is the total number of blocks in the stream
	TotalBlocks int

	// Percentage is the completion percentage (0.0 to 100.0)
	Percentage float64

	// BytesWritten is the total number of UF2 bytes written so far
	BytesWritten int

	// ElapsedTime is the time elapsed since the conversion started
	ElapsedTime time.Duration
}

// ProgressCallback is called after every block to report progress.
// Implementations should return quickly to avoid stalling the writer.
//
// Example:
//
//	conv := converter.New(f,
//	    converter.WithProgressCallback(func(p converter.Progress) {
//	        fmt.Printf("[%s] %.1f%% - Block %d/%d\n",
//	            p.Phase, p.Percentage, p.CurrentBlock, p.TotalBlocks)
//	    }),
//	)
type ProgressCallback func(Progress)

// Logger is an optional logging interface that can be provided to the converter.
// This allows integration with any logging framework.
//
// Example with log/slog:
//
//	type SlogLogger struct{ l *slog.Logger }
//	func (s SlogLogger) Debug(msg string, kv ...interface{}) { s.l.Debug(msg, kv...) }
//	func (s SlogLogger) Info(msg string, kv ...interface{})  { s.l.Info(msg, kv...) }
//	func (s SlogLogger) Error(msg string, kv ...interface{}) { s.l.Error(msg, kv...) }
//
//	conv := converter.New(f, converter.WithLogger(SlogLogger{slog.Default()}))
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}
