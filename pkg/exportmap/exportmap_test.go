package exportmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/esmshift/pkg/diag"
	"github.com/Sumatoshi-tech/esmshift/pkg/exportmap"
)

func TestRegister_FirstOwnerWins(t *testing.T) {
	t.Parallel()

	sink := diag.NewSink(nil)
	m := exportmap.New()

	assert.True(t, m.Register("Foo", "out/a/Foo.js", sink))
	assert.False(t, m.Register("Foo", "out/b/Foo.js", sink))

	owner, ok := m.Lookup("Foo")

	assert.True(t, ok)
	assert.Equal(t, "out/a/Foo.js", owner)
	assert.Equal(t, 1, sink.Count(diag.CategoryDuplicateSymbol))
	assert.Equal(t, 1, m.Len())
}

func TestLookup_Missing(t *testing.T) {
	t.Parallel()

	m := exportmap.New()

	_, ok := m.Lookup("Nope")

	assert.False(t, ok)
}

func TestSymbols_RegistrationOrder(t *testing.T) {
	t.Parallel()

	sink := diag.NewSink(nil)
	m := exportmap.New()

	m.Register("B", "out/B.js", sink)
	m.Register("A", "out/A.js", sink)
	m.Register("B", "out/other.js", sink)

	assert.Equal(t, []string{"B", "A"}, m.Symbols())
}
