package i18n

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestInit(t *testing.T) {
	err := Init()
	require.NoError(t, err, "Init should not return error")
	assert.NotNil(t, bundle, "bundle should be initialized")
}

func TestParseLocale(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Chinese with region", "zh-CN", "zh-CN"},
		{"Chinese without region", "zh", "zh-CN"},
		{"Chinese with other region", "zh-TW", "zh-CN"},
		{"POSIX Chinese", "zh_CN.UTF-8", "zh-CN"},
		{"English", "en", "en"},
		{"English with region", "en-US", "en"},
		{"POSIX English", "en_GB.UTF-8", "en"},
		{"C locale", "C", "en"},
		{"Other language defaults to en", "fr", "en"},
		{"Empty string defaults to en", "", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLocale(tt.input))
		})
	}
}

func TestLocaleFromEnv(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "zh_CN.UTF-8")
	assert.Equal(t, "zh-CN", LocaleFromEnv())

	t.Setenv("LC_ALL", "en_US.UTF-8")
	assert.Equal(t, "en", LocaleFromEnv())

	t.Setenv("LC_ALL", "")
	t.Setenv("LANG", "")
	assert.Equal(t, "en", LocaleFromEnv())
}

func TestTranslationFunctions(t *testing.T) {
	require.NoError(t, Init())

	t.Run("T function with English", func(t *testing.T) {
		assert.Equal(t, "An error occurred", T(NewLocalizer("en"), ErrGeneric))
	})

	t.Run("T function with Chinese", func(t *testing.T) {
		assert.Equal(t, "发生错误", T(NewLocalizer("zh-CN"), ErrGeneric))
	})

	t.Run("T function falls back to key", func(t *testing.T) {
		assert.Equal(t, "no_such_key", T(NewLocalizer("en"), "no_such_key"))
	})

	t.Run("TWithData function", func(t *testing.T) {
		msg := TWithData(NewLocalizer("en"), ErrStaleFile, map[string]interface{}{
			"Path": "internal/db/levelgate_gen.go",
		})
		assert.Equal(t, "internal/db/levelgate_gen.go is out of date; run go generate", msg)
	})

	t.Run("TPlural function", func(t *testing.T) {
		localizer := NewLocalizer("en")
		assert.Equal(t, "Generated 1 file", TPlural(localizer, StatusGeneratedFiles, 1, nil))
		assert.Equal(t, "Generated 5 files", TPlural(localizer, StatusGeneratedFiles, 5, nil))

		msg := TPlural(NewLocalizer("zh-CN"), StatusGeneratedFiles, 3, nil)
		assert.Contains(t, msg, "3")
		assert.Contains(t, msg, "文件")
	})
}

func TestContextFunctions(t *testing.T) {
	require.NoError(t, Init())

	t.Run("WithLocalizer and LocalizerFromContext", func(t *testing.T) {
		ctx := WithLocalizer(context.Background(), NewLocalizer("zh-CN"))
		assert.Equal(t, "发生错误", Ctx(ctx, ErrGeneric))
	})

	t.Run("LocalizerFromContext with empty context", func(t *testing.T) {
		localizer := LocalizerFromContext(context.Background())
		require.NotNil(t, localizer)
		assert.Equal(t, "An error occurred", T(localizer, ErrGeneric))
	})

	t.Run("CtxWithData convenience function", func(t *testing.T) {
		ctx := WithLocalizer(context.Background(), NewLocalizer("en"))
		msg := CtxWithData(ctx, ErrModuleNotFound, map[string]interface{}{"Dir": "/tmp/x"})
		assert.Equal(t, "No go.mod found above /tmp/x", msg)
	})

	t.Run("CtxPlural convenience function", func(t *testing.T) {
		ctx := WithLocalizer(context.Background(), NewLocalizer("en"))
		assert.Equal(t, "Generated 2 files", CtxPlural(ctx, StatusGeneratedFiles, 2, nil))
	})
}

func TestI18nError(t *testing.T) {
	require.NoError(t, Init())

	t.Run("NewI18nError", func(t *testing.T) {
		i18nErr := NewI18nError(ErrGeneric)
		assert.Equal(t, ErrGeneric, i18nErr.MsgID)
		assert.Nil(t, i18nErr.Data)
		assert.Nil(t, i18nErr.Cause)
		assert.Equal(t, ErrGeneric, i18nErr.Error())
	})

	t.Run("Error method with cause", func(t *testing.T) {
		cause := assert.AnError
		i18nErr := NewI18nError(ErrGeneric).WithCause(cause)
		assert.Contains(t, i18nErr.Error(), ErrGeneric)
		assert.Contains(t, i18nErr.Error(), cause.Error())
		assert.True(t, errors.Is(i18nErr, cause))
		assert.Equal(t, cause, i18nErr.Unwrap())
	})

	t.Run("Translate method", func(t *testing.T) {
		i18nErr := NewI18nErrorWithData(ErrUnknownSeverity, map[string]interface{}{
			"Entry":  "app=Loud",
			"Text":   "Loud",
			"Levels": "off, error, warn, info, debug, trace",
		})
		msg := i18nErr.Translate(NewLocalizer("en"))
		assert.Equal(t, `Unknown level "Loud" in filter "app=Loud"; expected one of off, error, warn, info, debug, trace`, msg)
	})

	t.Run("TranslateCtx method", func(t *testing.T) {
		ctx := WithLocalizer(context.Background(), NewLocalizer("zh-CN"))
		i18nErr := NewI18nError(ErrGeneric)
		assert.Equal(t, "发生错误", i18nErr.TranslateCtx(ctx))
	})

	t.Run("WithData", func(t *testing.T) {
		data := map[string]interface{}{"Dir": "x"}
		i18nErr := NewI18nError(ErrPackageNotFound).WithData(data)
		assert.Equal(t, data, i18nErr.Data)
	})

	t.Run("IsI18nError", func(t *testing.T) {
		wrapped := errors.Join(errors.New("outer"), NewI18nError(ErrGeneric))
		got, ok := IsI18nError(wrapped)
		require.True(t, ok)
		assert.Equal(t, ErrGeneric, got.MsgID)

		_, ok = IsI18nError(assert.AnError)
		assert.False(t, ok)
	})
}

func TestMessage(t *testing.T) {
	require.NoError(t, Init())
	localizer := NewLocalizer("en")

	assert.Empty(t, Message(localizer, nil))
	assert.Equal(t, assert.AnError.Error(), Message(localizer, assert.AnError))

	combined := multierr.Combine(
		NewI18nErrorWithData(ErrPackageNotFound, map[string]interface{}{"Dir": "a"}),
		errors.New("plain"),
	)
	assert.Equal(t, "No Go package found in a\nplain", Message(localizer, combined))
}
