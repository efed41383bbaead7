package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"log/slog"
)

func newCaptureLogger(t *testing.T, format logFormat) (*bytes.Buffer, *slog.Logger, *asyncWriter) {
	t.Helper()
	buf := &bytes.Buffer{}
	aw := newAsyncWriter(buf, nil, 512)
	h := newStructuredHandler(handlerConfig{
		level:    slog.LevelDebug,
		writer:   aw,
		format:   format,
		keyOrder: append([]string(nil), defaultKeyOrder...),
	})
	return buf, slog.New(h), aw
}

func captured(t *testing.T, buf *bytes.Buffer, aw *asyncWriter) string {
	t.Helper()
	if err := aw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatal("expected a log line")
	}
	return line
}

func TestHandlerOrdersBroadcastKeys(t *testing.T) {
	buf, log, aw := newCaptureLogger(t, formatKV)
	log.With("component", "dialog").LogAttrs(Background(), slog.LevelInfo, "notice broadcast",
		slog.String("event", "notice.broadcast"),
		slog.String("group_id", "eng"),
		slog.Int("recipients", 3),
		slog.Int("sent", 2),
		slog.Int("failed", 1),
	)
	line := captured(t, buf, aw)

	if !strings.HasPrefix(line, "ts=") {
		t.Fatalf("line should lead with ts: %s", line)
	}
	ordered := []string{"level=INFO", "component=dialog", "event=notice.broadcast", "group_id=eng", "recipients=3", "sent=2", "failed=1"}
	pos := -1
	for _, tok := range ordered {
		idx := strings.Index(line, tok)
		if idx == -1 || idx < pos {
			t.Fatalf("token %s out of order in %s", tok, line)
		}
		pos = idx
	}
}

func TestHandlerCompactsContextRID(t *testing.T) {
	buf, log, aw := newCaptureLogger(t, formatKV)
	raw := BuildRID(900, 42, 42)
	ctx := WithRID(Background(), raw)
	ctx = WithUpdateMeta(ctx, 900, 42, 42)
	log.With("component", "tg").LogAttrs(ctx, slog.LevelDebug, "update.received",
		slog.String("status", "ok"),
	)
	line := captured(t, buf, aw)

	if !strings.Contains(line, "rid="+CompactRID(raw)) {
		t.Errorf("expected compact rid in %s", line)
	}
	if strings.Contains(line, "rid_full=") {
		t.Errorf("rid_full is JSON-only, got %s", line)
	}
	for _, tok := range []string{"update_id=900", "user_id=42", "chat_id=42"} {
		if !strings.Contains(line, tok) {
			t.Errorf("missing context field %s in %s", tok, line)
		}
	}
}

func TestHandlerJSONKeepsRawRID(t *testing.T) {
	buf, log, aw := newCaptureLogger(t, formatJSON)
	raw := "900:42:42"
	ctx := WithRID(Background(), raw)
	log.With("component", "tg").LogAttrs(ctx, slog.LevelError, "handler.failed",
		slog.String("status", "fail"),
		slog.String("err", "boom"),
	)
	line := captured(t, buf, aw)

	if !strings.HasPrefix(line, `{"ts":`) {
		t.Fatalf("expected JSON leading with ts: %s", line)
	}
	if !strings.Contains(line, `"rid":"`+CompactRID(raw)+`"`) {
		t.Errorf("expected compact rid in %s", line)
	}
	if !strings.Contains(line, `"rid_full":"`+raw+`"`) {
		t.Errorf("expected raw rid preserved in %s", line)
	}
	if !strings.Contains(line, `"ts_unix_nano"`) {
		t.Errorf("expected ts_unix_nano in %s", line)
	}
}

func TestHandlerKeepsDeniedStatusAndPrunesEmpty(t *testing.T) {
	buf, log, aw := newCaptureLogger(t, formatKV)
	log.With("component", "dialog").LogAttrs(Background(), slog.LevelInfo, "gate",
		slog.String("event", "gate"),
		slog.String("status", "DENIED"),
		slog.String("command", "/notice"),
		slog.String("username", ""),
	)
	line := captured(t, buf, aw)

	if !strings.Contains(line, "status=denied") {
		t.Errorf("status should normalize to denied: %s", line)
	}
	if strings.Contains(line, "username=") {
		t.Errorf("empty attrs should be pruned: %s", line)
	}
}

func TestHandlerNormalizesDurations(t *testing.T) {
	buf, log, aw := newCaptureLogger(t, formatKV)
	log.With("component", "app").LogAttrs(Background(), slog.LevelInfo, "ready",
		slog.String("event", "ready"),
		slog.Duration("duration", 1500*time.Millisecond),
	)
	line := captured(t, buf, aw)

	if !strings.Contains(line, "duration_ms=1500") {
		t.Errorf("duration should land in duration_ms: %s", line)
	}
}

type failingSink struct{ err error }

func (f failingSink) Write(p []byte) (int, error) { return 0, f.err }

func TestAsyncWriterSurfacesSinkFailure(t *testing.T) {
	aw := newAsyncWriter(failingSink{err: errors.New("sink closed")}, nil, 64)
	if err := aw.Write([]byte("line\n")); err != nil {
		t.Fatalf("enqueue should not fail: %v", err)
	}
	if err := aw.Close(); err == nil {
		t.Fatal("expected the sink failure to surface on close")
	}
}

func TestAsyncWriterFlushReachesBothSinks(t *testing.T) {
	console := &bytes.Buffer{}
	file := &bytes.Buffer{}
	aw := newAsyncWriter(console, file, 1024)
	if err := aw.Write([]byte("hello\n")); err != nil {
		t.Fatal(err)
	}
	if err := aw.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if got := console.String(); got != "hello\n" {
		t.Errorf("console = %q", got)
	}
	if got := file.String(); got != "hello\n" {
		t.Errorf("file = %q", got)
	}
	if err := aw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
