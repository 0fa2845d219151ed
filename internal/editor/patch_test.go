package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsync/internal/apperr"
	"docsync/internal/models"
)

func TestPatcher_ReplacesFirstOccurrence(t *testing.T) {
	got := Patcher{}.Apply("# Title\nBody text here.", []models.ContentChange{
		{OldString: "Body text", NewString: "New body"},
	})
	assert.Equal(t, "# Title\nNew body here.", got)
}

func TestPatcher_OnlyFirstMatchChanges(t *testing.T) {
	got := Patcher{}.Apply("a a a", []models.ContentChange{{OldString: "a", NewString: "b"}})
	assert.Equal(t, "b a a", got)
}

func TestPatcher_Deterministic(t *testing.T) {
	changes := []models.ContentChange{
		{OldString: "one", NewString: "two"},
		{OldString: "three", NewString: "four"},
	}
	original := "one\nthree\none"
	assert.Equal(t, Patcher{}.Apply(original, changes), Patcher{}.Apply(original, changes))
}

func TestPatcher_MissingOldStringIsNoop(t *testing.T) {
	original := "nothing to see"
	got := Patcher{}.Apply(original, []models.ContentChange{{OldString: "absent", NewString: "x"}})
	assert.Equal(t, original, got)
}

func TestPatcher_SkipsEmptyFields(t *testing.T) {
	original := "keep me"
	got := Patcher{}.Apply(original, []models.ContentChange{
		{OldString: "", NewString: "x"},
		{OldString: "keep", NewString: ""},
	})
	assert.Equal(t, original, got)
}

func TestPatcher_SequentialApplication(t *testing.T) {
	// B's old_string only exists after A has been applied.
	a := models.ContentChange{OldString: "alpha", NewString: "beta"}
	b := models.ContentChange{OldString: "beta gamma", NewString: "delta"}
	original := "alpha gamma"

	both := Patcher{}.Apply(original, []models.ContentChange{a, b})
	stepwise := Patcher{}.Apply(Patcher{}.Apply(original, []models.ContentChange{a}), []models.ContentChange{b})

	assert.Equal(t, "delta", both)
	assert.Equal(t, stepwise, both)
	assert.Equal(t, "beta gamma", Patcher{}.Apply(original, []models.ContentChange{b, a}))
}

func TestPatcher_PreservesSurroundingBytes(t *testing.T) {
	got := Patcher{}.Apply("Old line.\nKeep this.\n", []models.ContentChange{
		{OldString: "Old line.", NewString: "New line."},
	})
	assert.Equal(t, "New line.\nKeep this.\n", got)
}

func TestPatcher_StrictReportsMissing(t *testing.T) {
	p := Patcher{Strict: true}
	out, err := p.ApplyChecked("text", []models.ContentChange{{OldString: "missing", NewString: "x"}})
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.Equal(t, "text", out)

	out, err = Patcher{}.ApplyChecked("text", []models.ContentChange{{OldString: "missing", NewString: "x"}})
	require.NoError(t, err)
	assert.Equal(t, "text", out)
}

func TestCheckUnique(t *testing.T) {
	assert.NoError(t, CheckUnique("a b c", []models.ContentChange{{OldString: "b", NewString: "x"}}))
	assert.Error(t, CheckUnique("a b b", []models.ContentChange{{OldString: "b", NewString: "x"}}))
	assert.Error(t, CheckUnique("a b c", []models.ContentChange{{OldString: "z", NewString: "x"}}))
	assert.Error(t, CheckUnique("a b c", []models.ContentChange{{OldString: "", NewString: "x"}}))
	assert.Error(t, CheckUnique("a b c", []models.ContentChange{{OldString: "b ", NewString: ""}}))
	// the second change is unique only after the first is applied
	assert.NoError(t, CheckUnique("x y x", []models.ContentChange{
		{OldString: "x y", NewString: "z y"},
		{OldString: "x", NewString: "w"},
	}))
}
