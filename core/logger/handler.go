package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"
)

type logFormat string

const (
	formatJSON logFormat = "json"
	formatKV   logFormat = "kv"

	timeFormatMillis = "2006-01-02T15:04:05.000Z07:00"
)

type handlerConfig struct {
	level    slog.Leveler
	writer   *asyncWriter
	format   logFormat
	keyOrder []string
}

// structuredHandler renders records as single-line KV or JSON output with a
// stable key order so logs stay grep- and eyeball-friendly.
type structuredHandler struct {
	cfg   handlerConfig
	attrs []slog.Attr
}

func newStructuredHandler(cfg handlerConfig) *structuredHandler {
	if cfg.level == nil {
		cfg.level = slog.LevelInfo
	}
	if cfg.keyOrder == nil {
		cfg.keyOrder = append([]string(nil), defaultKeyOrder...)
	}
	return &structuredHandler{cfg: cfg}
}

// Enabled reports whether the handler allows processing the provided level.
func (h *structuredHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.cfg.level.Level()
}

// Handle formats the slog.Record and writes it using the configured writer.
func (h *structuredHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.cfg.writer == nil {
		return fmt.Errorf("logger: writer not initialized")
	}

	fields := make(map[string]any, 16)
	ts := r.Time.UTC()
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	fields["ts"] = ts.Truncate(time.Millisecond).Format(timeFormatMillis)
	fields["level"] = normalizeLevel(r.Level.String())

	collectAttrs(fields, h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		collectAttr(fields, a)
		return true
	})

	addContextFields(ctx, fields)

	if rid, ok := fields["rid"].(string); ok && rid != "" {
		if compact := CompactRID(rid); compact != rid {
			if h.cfg.format == formatJSON {
				fields["rid_full"] = rid
			}
			fields["rid"] = compact
		}
	}

	if event, _ := fields["event"].(string); event == "" {
		if r.Message != "" {
			fields["event"] = r.Message
		} else {
			fields["event"] = "unknown"
		}
	}
	if component, _ := fields["component"].(string); component == "" {
		fields["component"] = "app"
	}
	if status, ok := fields["status"].(string); ok {
		if normalized, valid := normalizeStatus(status); valid {
			fields["status"] = normalized
		}
	}

	pruneEmpty(fields)

	var (
		line []byte
		err  error
	)
	switch h.cfg.format {
	case formatKV:
		line, err = renderKV(fields, h.cfg.keyOrder)
	default:
		line, err = renderJSON(fields, h.cfg.keyOrder)
	}
	if err != nil {
		return err
	}
	line = append(line, '\n')
	return h.cfg.writer.Write(line)
}

// WithAttrs returns a shallow copy of the handler enriched with attrs.
func (h *structuredHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &clone
}

// WithGroup is accepted but groups are flattened; key order matters more here
// than nesting.
func (h *structuredHandler) WithGroup(string) slog.Handler {
	return h
}

func collectAttrs(fields map[string]any, attrs []slog.Attr) {
	for _, a := range attrs {
		collectAttr(fields, a)
	}
}

func collectAttr(fields map[string]any, a slog.Attr) {
	if a.Key == "" {
		return
	}
	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindGroup:
		for _, ga := range v.Group() {
			collectAttr(fields, ga)
		}
	case slog.KindDuration:
		fields[a.Key+"_ms"] = v.Duration().Milliseconds()
	case slog.KindString:
		fields[a.Key] = v.String()
	case slog.KindInt64:
		fields[a.Key] = v.Int64()
	case slog.KindUint64:
		fields[a.Key] = v.Uint64()
	case slog.KindBool:
		fields[a.Key] = v.Bool()
	case slog.KindFloat64:
		fields[a.Key] = v.Float64()
	case slog.KindTime:
		fields[a.Key] = v.Time().UTC().Format(timeFormatMillis)
	default:
		fields[a.Key] = fmt.Sprint(v.Any())
	}
}

func addContextFields(ctx context.Context, fields map[string]any) {
	if ctx == nil {
		return
	}
	if _, ok := fields["rid"]; !ok {
		if rid := RIDFrom(ctx); rid != "" {
			fields["rid"] = rid
		}
	}
	if _, ok := fields["update_id"]; !ok {
		if id := UpdateIDFrom(ctx); id != 0 {
			fields["update_id"] = int64(id)
		}
	}
	if _, ok := fields["user_id"]; !ok {
		if id := UserIDFrom(ctx); id != 0 {
			fields["user_id"] = id
		}
	}
	if _, ok := fields["chat_id"]; !ok {
		if id := ChatIDFrom(ctx); id != 0 {
			fields["chat_id"] = id
		}
	}
	if _, ok := fields["handler"]; !ok {
		if handler := HandlerFrom(ctx); handler != "" {
			fields["handler"] = handler
		}
	}
}

func pruneEmpty(fields map[string]any) {
	for k, v := range fields {
		if s, ok := v.(string); ok && s == "" {
			delete(fields, k)
		}
	}
}

func orderedKeys(fields map[string]any, keyOrder []string) []string {
	keys := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, k := range keyOrder {
		if _, ok := fields[k]; ok {
			keys = append(keys, k)
			seen[k] = struct{}{}
		}
	}
	var rest []string
	for k := range fields {
		if _, ok := seen[k]; !ok {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func renderKV(fields map[string]any, keyOrder []string) ([]byte, error) {
	var b strings.Builder
	for i, k := range orderedKeys(fields, keyOrder) {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(kvValue(fields[k]))
	}
	return []byte(b.String()), nil
}

func kvValue(v any) string {
	s, ok := v.(string)
	if !ok {
		return fmt.Sprint(v)
	}
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}

func renderJSON(fields map[string]any, keyOrder []string) ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range orderedKeys(fields, keyOrder) {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(fields[k])
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		b.Write(val)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}
