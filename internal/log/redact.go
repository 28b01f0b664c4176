package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// MaskValue is the string used to replace sensitive values.
const MaskValue = "***REDACTED***"

// credentialKeys are attribute keys that always carry a credential.
var credentialKeys = map[string]bool{
	"authorization": true,
	"cookie":        true,
	"set-cookie":    true,
	"password":      true,
	"password_hash": true,
	"passwd":        true,
	"hash":          true,
	"secret":        true,
	"token":         true,
	"credentials":   true,
}

// credentialFragments mark a key as sensitive when contained anywhere in it,
// e.g. "user_password" or "auth_header".
var credentialFragments = []string{
	"password", "passwd", "secret", "token", "auth", "credential",
}

// credentialValues match values that are credentials whatever their key.
var credentialValues = []*regexp.Regexp{
	// bcrypt hashes as written to the configuration file
	regexp.MustCompile(`^\$2[abxy]?\$\d{2}\$[./A-Za-z0-9]{53}$`),
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),
	regexp.MustCompile(`(?i)^bearer\s+.+`),
}

// emailPattern finds e-mail addresses inside a value. The inspection form
// collects the inspector's address in the "Endereço de e-mail" column.
var emailPattern = regexp.MustCompile(`([A-Za-z0-9._%+-])[A-Za-z0-9._%+-]*@([A-Za-z0-9.-]+\.[A-Za-z]{2,})`)

// RedactingHandler wraps an slog.Handler and rewrites attributes that carry
// credentials or e-mail addresses before they reach the wrapped handler.
//
// Design decision: We use a handler wrapper rather than a custom logger so
// that every component can keep taking a plain *slog.Logger.
type RedactingHandler struct {
	next slog.Handler
}

// NewRedactingHandler wraps next. A nil next wraps slog.Default().Handler().
func NewRedactingHandler(next slog.Handler) *RedactingHandler {
	if next == nil {
		next = slog.Default().Handler()
	}
	return &RedactingHandler{next: next}
}

// Enabled delegates to the wrapped handler.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle redacts the record's attributes and its message.
func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, RedactEmails(r.Message), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(Redact(a))
		return true
	})
	return h.next.Handle(ctx, out)
}

// WithAttrs redacts attrs before attaching them.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = Redact(a)
	}
	return &RedactingHandler{next: h.next.WithAttrs(redacted)}
}

// WithGroup returns a handler that nests attributes under name.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{next: h.next.WithGroup(name)}
}

// Redact returns a with any credential masked and any e-mail address
// shortened. Groups are redacted recursively.
func Redact(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		redacted := make([]slog.Attr, len(group))
		for i, g := range group {
			redacted[i] = Redact(g)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(redacted...)}
	}

	if isCredentialKey(a.Key) {
		return slog.String(a.Key, MaskValue)
	}

	if a.Value.Kind() != slog.KindString {
		return a
	}
	v := a.Value.String()
	if isCredentialValue(v) {
		return slog.String(a.Key, MaskValue)
	}
	if masked := RedactEmails(v); masked != v {
		return slog.String(a.Key, masked)
	}
	return a
}

// RedactEmails replaces every e-mail address in s with its first letter,
// three asterisks and the domain.
func RedactEmails(s string) string {
	if !strings.Contains(s, "@") {
		return s
	}
	return emailPattern.ReplaceAllString(s, "$1***@$2")
}

func isCredentialKey(key string) bool {
	key = strings.ToLower(key)
	if credentialKeys[key] {
		return true
	}
	for _, f := range credentialFragments {
		if strings.Contains(key, f) {
			return true
		}
	}
	return false
}

func isCredentialValue(v string) bool {
	for _, p := range credentialValues {
		if p.MatchString(v) {
			return true
		}
	}
	return false
}

// options configures NewLogger.
type options struct {
	verbose bool
	json    bool
}

// Option configures NewLogger.
type Option func(*options)

// WithVerbose lowers the level to Debug. The default level is Warn.
func WithVerbose(verbose bool) Option {
	return func(o *options) {
		o.verbose = verbose
	}
}

// WithJSON writes JSON lines instead of logfmt-style text.
func WithJSON(enabled bool) Option {
	return func(o *options) {
		o.json = enabled
	}
}

// NewLogger returns a redacting logger writing to w.
func NewLogger(w io.Writer, opts ...Option) *slog.Logger {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	ho := &slog.HandlerOptions{Level: level}

	var base slog.Handler
	if o.json {
		base = slog.NewJSONHandler(w, ho)
	} else {
		base = slog.NewTextHandler(w, ho)
	}
	return slog.New(NewRedactingHandler(base))
}
