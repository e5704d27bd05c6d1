// Package i18n provides translated messages for the command line.
package i18n

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/multierr"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFS embed.FS

var (
	bundleMu sync.RWMutex
	bundle   *i18n.Bundle
)

// Init loads the embedded locale files. It may be called more than once.
func Init() error {
	b := i18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	if _, err := b.LoadMessageFileFS(localeFS, "locales/en.toml"); err != nil {
		return fmt.Errorf("failed to load en.toml: %w", err)
	}
	if _, err := b.LoadMessageFileFS(localeFS, "locales/zh-CN.toml"); err != nil {
		return fmt.Errorf("failed to load zh-CN.toml: %w", err)
	}

	bundleMu.Lock()
	bundle = b
	bundleMu.Unlock()
	return nil
}

// NewLocalizer creates a new localizer for the given language, loading the
// bundle on first use.
func NewLocalizer(lang string) *i18n.Localizer {
	bundleMu.RLock()
	b := bundle
	bundleMu.RUnlock()
	if b == nil {
		if err := Init(); err != nil {
			panic(err)
		}
		return NewLocalizer(lang)
	}
	return i18n.NewLocalizer(b, lang)
}

// ParseLocale normalizes a language string to a supported locale.
// POSIX forms such as "zh_CN.UTF-8" are accepted.
func ParseLocale(s string) string {
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	tag, err := language.Parse(strings.ReplaceAll(s, "_", "-"))
	if err != nil {
		return "en"
	}
	if base, _ := tag.Base(); base.String() == "zh" {
		return "zh-CN"
	}
	return "en"
}

// LocaleFromEnv picks the locale from LC_ALL, LC_MESSAGES or LANG, in that order.
func LocaleFromEnv() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(key); v != "" {
			return ParseLocale(v)
		}
	}
	return "en"
}

// T translates a message with the given localizer
func T(localizer *i18n.Localizer, msgID string) string {
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID: msgID,
	})
	if err != nil {
		return msgID // fallback to key
	}
	return msg
}

// TWithData translates a message with template data
func TWithData(localizer *i18n.Localizer, msgID string, data map[string]interface{}) string {
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    msgID,
		TemplateData: data,
	})
	if err != nil {
		return msgID
	}
	return msg
}

// TPlural translates a message with plural support
func TPlural(localizer *i18n.Localizer, msgID string, count int, data map[string]interface{}) string {
	if data == nil {
		data = make(map[string]interface{})
	}
	data["Count"] = count
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    msgID,
		TemplateData: data,
		PluralCount:  count,
	})
	if err != nil {
		return msgID
	}
	return msg
}

// ========== context.Context related functions ==========

// contextKey is the type for keys used to store values in context.Context
type contextKey string

// ContextKeyLocalizer is the key for Localizer in context.Context
const ContextKeyLocalizer contextKey = "i18n.localizer"

// WithLocalizer stores a Localizer in context.Context
func WithLocalizer(ctx context.Context, localizer *i18n.Localizer) context.Context {
	return context.WithValue(ctx, ContextKeyLocalizer, localizer)
}

// LocalizerFromContext retrieves a Localizer from context.Context
// If not found, returns an English Localizer
func LocalizerFromContext(ctx context.Context) *i18n.Localizer {
	if localizer, ok := ctx.Value(ContextKeyLocalizer).(*i18n.Localizer); ok {
		return localizer
	}
	return NewLocalizer("en")
}

// Ctx is a convenient translation function
func Ctx(ctx context.Context, msgID string) string {
	return T(LocalizerFromContext(ctx), msgID)
}

// CtxWithData is a convenient translation function with data
func CtxWithData(ctx context.Context, msgID string, data map[string]interface{}) string {
	return TWithData(LocalizerFromContext(ctx), msgID, data)
}

// CtxPlural is a convenient plural translation function
func CtxPlural(ctx context.Context, msgID string, count int, data map[string]interface{}) string {
	return TPlural(LocalizerFromContext(ctx), msgID, count, data)
}

// ========== I18nError error type ==========

// Error is a translatable error type.
// Lower layers return it so the CLI can print the message in the user's
// language while errors.Is/As still reach Cause.
type Error struct {
	// MsgID is the key for the translated message
	MsgID string
	// Data is the data for the translation template (optional)
	Data map[string]interface{}
	// Cause is the original error (optional)
	Cause error
}

// Error implements the error interface.
// Returns the message ID (for logging and other scenarios)
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.MsgID, e.Cause)
	}
	return e.MsgID
}

// Unwrap returns the original error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Translate translates the error message using the given localizer
func (e *Error) Translate(localizer *i18n.Localizer) string {
	if e.Data != nil {
		return TWithData(localizer, e.MsgID, e.Data)
	}
	return T(localizer, e.MsgID)
}

// TranslateCtx translates the error message using the localizer from context
func (e *Error) TranslateCtx(ctx context.Context) string {
	return e.Translate(LocalizerFromContext(ctx))
}

// NewI18nError creates a new I18nError
func NewI18nError(msgID string) *Error {
	return &Error{MsgID: msgID}
}

// NewI18nErrorWithData creates an I18nError with data
func NewI18nErrorWithData(msgID string, data map[string]interface{}) *Error {
	return &Error{MsgID: msgID, Data: data}
}

// WithCause sets the original error
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

// WithData sets the translation data
func (e *Error) WithData(data map[string]interface{}) *Error {
	e.Data = data
	return e
}

// IsI18nError checks if the error is an I18nError
func IsI18nError(err error) (*Error, bool) {
	var i18nErr *Error
	if errors.As(err, &i18nErr) {
		return i18nErr, true
	}
	return nil, false
}

// Message renders err for the user, one line per error combined with
// multierr: the first translatable error in each chain, or Error() when the
// chain has none.
func Message(localizer *i18n.Localizer, err error) string {
	if err == nil {
		return ""
	}
	var lines []string
	for _, e := range multierr.Errors(err) {
		if i18nErr, ok := IsI18nError(e); ok {
			lines = append(lines, i18nErr.Translate(localizer))
			continue
		}
		lines = append(lines, e.Error())
	}
	return strings.Join(lines, "\n")
}
