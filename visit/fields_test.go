package visit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFields_SetAndLookup(t *testing.T) {
	var f Fields

	require.NoError(t, f.Set("OPMODE", ParseValue("IMAGE")))
	require.NoError(t, f.Set("NGROUPS", ParseValue("4")))

	assert.True(t, f.Has("OPMODE"))
	assert.False(t, f.Has("opmode")) // keys are case-sensitive

	text, err := f.Text("OPMODE")
	require.NoError(t, err)
	assert.Equal(t, "IMAGE", text)

	n, err := f.Float("NGROUPS")
	require.NoError(t, err)
	assert.Equal(t, 4.0, n)

	// A numeric lookup of a text field fails rather than guessing.
	_, err = f.Float("OPMODE")
	assert.Error(t, err)

	assert.Equal(t, []string{"OPMODE", "NGROUPS"}, f.Names())
	assert.Equal(t, 2, f.Len())
}

func TestFields_MissingFieldError(t *testing.T) {
	var f Fields

	_, err := f.Get("FILTER")
	assert.ErrorIs(t, err, ErrFieldNotPresent)

	_, err = f.Text("FILTER")
	assert.ErrorIs(t, err, ErrFieldNotPresent)
}

func TestFields_DuplicateRejected(t *testing.T) {
	var f Fields

	require.NoError(t, f.Set("X", TextValue("1")))
	err := f.Set("X", TextValue("2"))
	assert.ErrorIs(t, err, ErrDuplicateField)

	// The first value is untouched.
	text, lookupErr := f.Text("X")
	require.NoError(t, lookupErr)
	assert.Equal(t, "1", text)
}

func TestFields_ReservedNameRejected(t *testing.T) {
	var f Fields

	for _, name := range []string{"id", "args", "name", "gsa"} {
		err := f.Set(name, TextValue("x"))
		assert.ErrorIs(t, err, ErrReservedField, "name %s", name)
	}
	// Uppercase file keys never collide with structural names.
	assert.NoError(t, f.Set("ID", TextValue("1")))
}

func TestValue_Rendering(t *testing.T) {
	assert.Equal(t, "IMAGE", ParseValue("IMAGE").String())
	assert.Equal(t, "4", ParseValue("4.0").String())
	assert.Equal(t, "80.349", ParseValue("80.349").String())
	assert.True(t, ParseValue("1e3").IsNumeric())
	assert.False(t, ParseValue("F200W").IsNumeric())
}

func TestStatement_ScriptSentinel(t *testing.T) {
	st := NewStatement(KindAct, "ACT", []string{"01"})
	_, ok := st.Script()
	assert.False(t, ok)
	assert.Equal(t, NoScript, st.ScriptName())

	st = NewStatement(KindAct, "ACT", []string{"01", "NISMAIN"})
	script, ok := st.Script()
	assert.True(t, ok)
	assert.Equal(t, "NISMAIN", script)
}
