package dataprocessing

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrictStrategy(t *testing.T) {
	table, err := StrictStrategy{}.Parse([]byte(" sexe , prenom,nombre\n1,Jean,3\n"), ',')
	require.NoError(t, err)
	assert.Equal(t, []string{"sexe", "prenom", "nombre"}, table.Header)
	assert.Equal(t, [][]string{{"1", "Jean", "3"}}, table.Rows)
	assert.Equal(t, "strict", table.Strategy)

	_, err = StrictStrategy{}.Parse([]byte("a,b\n1,2,3\n"), ',')
	var strategyErr *StrategyError
	require.ErrorAs(t, err, &strategyErr)
	assert.Equal(t, "strict", strategyErr.Strategy)

	_, err = StrictStrategy{}.Parse(nil, ',')
	assert.True(t, stderrors.Is(err, ErrNoHeader))
}

func TestPermissiveStrategy(t *testing.T) {
	data := []byte("a;b;c\n1;2\n1;2;3\n;;\nx\"y;z;w\n")

	table, err := PermissiveStrategy{}.Parse(data, ';')
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, table.Header)
	assert.Equal(t, [][]string{
		{"1", "2", ""},
		{"1", "2", "3"},
		{"x\"y", "z", "w"},
	}, table.Rows)
	assert.Equal(t, "permissive", table.Strategy)

	_, err = PermissiveStrategy{}.Parse([]byte(""), ';')
	assert.True(t, stderrors.Is(err, ErrNoHeader))
}

func TestPermissiveStrategy_RejectsLongRows(t *testing.T) {
	_, err := PermissiveStrategy{}.Parse([]byte("sexe,prenom,nombre\n1,Jean,5\n2,Marie,7,99\n"), ',')
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, ErrTooManyFields))
	assert.Contains(t, err.Error(), "line 3")
	assert.Contains(t, err.Error(), "expected 3 fields, saw 4")
}

func TestDefaultStrategies(t *testing.T) {
	strategies := DefaultStrategies()
	require.Len(t, strategies, 2)
	assert.Equal(t, "strict", strategies[0].Name())
	assert.Equal(t, "permissive", strategies[1].Name())
}
