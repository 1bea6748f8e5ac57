package validate

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/john-rochester/fast-parser/internal/dslparser"
)

func TestValidateUndefinedSymbol(t *testing.T) {
	g, err := dslparser.Parse(`main = missing`)
	require.NoError(t, err)
	err = Validate(g, zerolog.Nop())
	require.Error(t, err)
	require.Contains(t, err.Error(), "undefined rule")
	require.Contains(t, err.Error(), "missing")
}

func TestValidateLeftRecursion(t *testing.T) {
	g, err := dslparser.Parse(`main = (main '+')* sub
sub = /\d+/`)
	require.NoError(t, err)
	err = Validate(g, zerolog.Nop())
	require.Error(t, err)
	require.Contains(t, err.Error(), "left recursion")
	require.Contains(t, err.Error(), "main")
}

func TestValidateWildcardOverNullable(t *testing.T) {
	g, err := dslparser.Parse(`main = opt*
opt = 'x'?`)
	require.NoError(t, err)
	err = Validate(g, zerolog.Nop())
	require.Error(t, err)
	require.Contains(t, err.Error(), "wildcard over nullable")
	require.Contains(t, err.Error(), "main")
}

func TestValidateUndefinedSymbolSuggestsClosestName(t *testing.T) {
	g, err := dslparser.Parse(`main = nunber
number = /[0-9]+/`)
	require.NoError(t, err)
	err = Validate(g, zerolog.Nop())
	require.Error(t, err)
	require.Contains(t, err.Error(), "undefined rule")
	require.Contains(t, err.Error(), "did you mean")
	require.Contains(t, err.Error(), `"number"`)
}

func TestDiagnosticsReportsLeftRecursiveCycle(t *testing.T) {
	g, err := dslparser.Parse(`main = (main '+')* sub
sub = /\d+/`)
	require.NoError(t, err)
	diags := Diagnostics(g, zerolog.Nop())
	require.Len(t, diags, 1)
	require.Equal(t, "left-recursion", diags[0].Category)
	require.Equal(t, []string{"main"}, diags[0].Rules)
}

func TestDiagnosticsEmptyForWellFormedGrammar(t *testing.T) {
	g, err := dslparser.Parse(`main = 'a'+`)
	require.NoError(t, err)
	require.Empty(t, Diagnostics(g, zerolog.Nop()))
}

func TestValidateAcceptsWellFormedGrammar(t *testing.T) {
	g, err := dslparser.Parse(`main = 'a'+`)
	require.NoError(t, err)
	require.NoError(t, Validate(g, zerolog.Nop()))
}
