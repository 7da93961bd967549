// Package shared holds helpers used across the prenoms packages.
//
// The testutil subpackage provides BufferedSlogHandler, a slog.Handler that
// captures records in memory so tests can assert on what a component logged:
//
//	logger, handler := testutil.NewTestLogger(t)
//	loader := dataprocessing.NewLoader(logger)
//	...
//	testutil.AssertLogContains(t, handler, slog.LevelWarn, "Unmapped sex codes")
package shared
