package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestSetupConsoleOnly(t *testing.T) {
	logger, cleanup := Setup("", slog.LevelInfo)
	defer cleanup()

	if logger == nil {
		t.Fatal("expected a logger")
	}
	if !logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info level should be enabled")
	}
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug level should be filtered out")
	}
}

func TestMultiHandlerFansOut(t *testing.T) {
	var records []slog.Record
	capture := &capturingHandler{records: &records}
	multi := &multiHandler{handlers: []slog.Handler{capture, capture}}

	logger := slog.New(multi)
	logger.Info("opened export file", slog.String("charset", "AL32UTF8"))

	if len(records) != 2 {
		t.Fatalf("expected the record on both handlers, got %d", len(records))
	}
}

type capturingHandler struct {
	records *[]slog.Record
}

func (h *capturingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *capturingHandler) Handle(_ context.Context, r slog.Record) error {
	*h.records = append(*h.records, r)
	return nil
}

func (h *capturingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h *capturingHandler) WithGroup(string) slog.Handler { return h }
