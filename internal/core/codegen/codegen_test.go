package codegen

import (
	"errors"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xzzpig/levelgate"
	"github.com/xzzpig/levelgate/internal/core/errs"
	"github.com/xzzpig/levelgate/internal/core/rules"
)

const roundTripFilters = "Warn; github.com/acme/app/internal=Trace; github.com/acme/app/internal/db=Error; github.com/acme/vendored=Off"

func generate(t *testing.T, filters string, opts Options) string {
	t.Helper()
	set, err := rules.Compile(filters)
	require.NoError(t, err)
	src, err := Generate(set, opts)
	require.NoError(t, err)

	_, err = parser.ParseFile(token.NewFileSet(), DefaultOutput, src, parser.AllErrors)
	require.NoError(t, err, string(src))
	return string(src)
}

func TestGenerate_FoldsLevelIntoConstant(t *testing.T) {
	tests := []struct {
		importPath string
		want       levelgate.Level
		reason     string
	}{
		{"github.com/acme/app/internal/db/query", levelgate.Error, `Selected by filter "github.com/acme/app/internal/db=error".`},
		{"github.com/acme/app/internal/api", levelgate.Trace, `Selected by filter "github.com/acme/app/internal=trace".`},
		{"github.com/acme/app/cmd", levelgate.Warn, `No prefix filter matches; default "warn" applies.`},
		{"github.com/acme/vendored/x", levelgate.Off, `Selected by filter "github.com/acme/vendored=off".`},
	}
	for _, tt := range tests {
		t.Run(tt.importPath, func(t *testing.T) {
			src := generate(t, roundTripFilters, Options{Package: "pkg", ImportPath: tt.importPath})

			assert.True(t, strings.HasPrefix(src, Header+"\n"), src)
			assert.Contains(t, src, "package pkg\n")
			assert.Contains(t, src, "const maxLogLevel = levelgate."+tt.want.GoName()+"\n")
			assert.Contains(t, src, tt.reason)
			assert.Contains(t, src, `"github.com/xzzpig/levelgate"`)
			assert.NotContains(t, src, "go.uber.org/zap")
		})
	}
}

func TestGenerate_EnabledConstants(t *testing.T) {
	src := generate(t, "Info", Options{Package: "pkg", ImportPath: "x"})

	assert.Contains(t, src, "logErrorEnabled = maxLogLevel >= levelgate.Error")
	assert.Contains(t, src, "logWarnEnabled  = maxLogLevel >= levelgate.Warn")
	assert.Contains(t, src, "logInfoEnabled  = maxLogLevel >= levelgate.Info")
	assert.Contains(t, src, "logDebugEnabled = maxLogLevel >= levelgate.Debug")
	assert.Contains(t, src, "logTraceEnabled = maxLogLevel >= levelgate.Trace")
	assert.NotContains(t, src, "OffEnabled")
}

func TestGenerate_NoDefaultReason(t *testing.T) {
	src := generate(t, "", Options{Package: "pkg", ImportPath: "anything"})
	assert.Contains(t, src, "const maxLogLevel = levelgate.Trace\n")
	assert.Contains(t, src, `No filter matches and no default is set; "trace" applies.`)
}

func TestGenerate_ExportedAndCustomNames(t *testing.T) {
	src := generate(t, "Error", Options{Package: "pkg", ImportPath: "x", Const: "maxLevel", Prefix: "trace", Exported: true})

	assert.Contains(t, src, "const MaxLevel = levelgate.Error\n")
	assert.Contains(t, src, "TraceDebugEnabled = MaxLevel >= levelgate.Debug")
}

func TestGenerate_ZapHelper(t *testing.T) {
	src := generate(t, "Warn", Options{Package: "pkg", ImportPath: "x", Zap: true})

	assert.Contains(t, src, `"go.uber.org/zap"`)
	assert.Contains(t, src, "func gateLogger(l *zap.Logger) *zap.Logger {")
	assert.Contains(t, src, "return levelgate.Gate(l, maxLogLevel)")

	src = generate(t, "Warn", Options{Package: "pkg", ImportPath: "x", Zap: true, Exported: true})
	assert.Contains(t, src, "func GateLogger(l *zap.Logger) *zap.Logger {")
}

func TestGenerate_Deterministic(t *testing.T) {
	opts := Options{Package: "pkg", ImportPath: "github.com/acme/app/internal/db"}
	first := generate(t, roundTripFilters, opts)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, generate(t, roundTripFilters, opts))
	}
}

func TestGenerate_RequiresPackage(t *testing.T) {
	_, err := Generate(rules.MustCompile(""), Options{ImportPath: "x"})
	assert.True(t, errors.Is(err, errs.ErrInvalidInput))
}

func TestOptionsNames(t *testing.T) {
	constName, enabled := Options{}.Names()
	assert.Equal(t, "maxLogLevel", constName)
	assert.Len(t, enabled, 5)
	assert.Equal(t, "logTraceEnabled", enabled[levelgate.Trace])

	constName, enabled = Options{Const: "Cap", Prefix: "Gate"}.Names()
	assert.Equal(t, "cap", constName)
	assert.Equal(t, "gateWarnEnabled", enabled[levelgate.Warn])
}
