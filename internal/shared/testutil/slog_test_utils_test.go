package testutil

import (
	"log/slog"
	"testing"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures log records", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("loaded file", slog.String("file", "Prenoms2003.csv"))
		logger.Error("export failed", slog.Int("code", 13))

		records := handler.GetRecords()
		if len(records) != 2 {
			t.Errorf("Expected 2 records, got %d", len(records))
		}
		if !handler.ContainsMessage("loaded") {
			t.Error("Expected to find 'loaded'")
		}
		if !handler.ContainsAttr("file", "Prenoms2003.csv") {
			t.Error("Expected to find attribute file=Prenoms2003.csv")
		}
	})

	t.Run("filters by level", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Debug("debug msg")
		logger.Info("info msg")
		logger.Warn("warn msg")
		logger.Error("error msg")

		if got := len(handler.GetRecordsByLevel(slog.LevelWarn)); got != 1 {
			t.Errorf("Expected 1 warn record, got %d", got)
		}
		if got := len(handler.GetRecordsByLevel(slog.LevelDebug)); got != 1 {
			t.Errorf("Expected 1 debug record, got %d", got)
		}
	})

	t.Run("derived loggers share the buffer and keep attributes", func(t *testing.T) {
		logger, handler := NewTestLogger(t)
		child := logger.With(slog.String("component", "loader"))

		logger.Info("root")
		child.Info("child", slog.Int("rows", 3))

		if handler.Count() != 2 {
			t.Fatalf("Expected 2 records, got %d", handler.Count())
		}
		found := handler.FindMessage("child")
		if len(found) != 1 {
			t.Fatalf("Expected 1 child record, got %d", len(found))
		}
		if v, ok := found[0].Attr("component"); !ok || v != "loader" {
			t.Errorf("Expected component=loader, got %v", v)
		}
		if v, _ := found[0].Attr("rows"); v != int64(3) {
			t.Errorf("Expected rows=3, got %v", v)
		}
		if _, ok := handler.FindMessage("root")[0].Attr("component"); ok {
			t.Error("Root logger should not carry child attributes")
		}
	})

	t.Run("clear", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("message 1")
		logger.Info("message 2")
		handler.Clear()

		if handler.Count() != 0 {
			t.Errorf("Expected 0 records after clear, got %d", handler.Count())
		}
	})
}

func TestAssertHelpers(t *testing.T) {
	logger, handler := NewTestLogger(t)

	logger.Warn("Unmapped sex codes", slog.String("file", "a.csv"))

	AssertLogContains(t, handler, slog.LevelWarn, "Unmapped")
	AssertLogAttr(t, handler, "file", "a.csv")
	AssertNoErrors(t, handler)
}
