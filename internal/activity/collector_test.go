package activity

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carbonwise/internal"
)

func TestNewCollectorHasOneBlankRow(t *testing.T) {
	c := NewCollector()
	require.Equal(t, []internal.ManualActivity{{}}, c.List())
	assert.Empty(t, c.Valid())
}

func TestAddUpdateRemove(t *testing.T) {
	c := NewCollector()
	idx := c.Add()
	require.Equal(t, 1, idx)

	_, err := c.Update(0, FieldType, "transport")
	require.NoError(t, err)
	_, err = c.Update(0, FieldValue, "10")
	require.NoError(t, err)
	got, err := c.Update(1, FieldDescription, "groceries")
	require.NoError(t, err)
	assert.Equal(t, "groceries", got.Description)

	require.NoError(t, c.Remove(1))
	want := []internal.ManualActivity{{Type: "transport", Value: "10"}}
	if diff := cmp.Diff(want, c.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveKeepsLastRow(t *testing.T) {
	c := NewCollector()
	err := c.Remove(0)
	assert.True(t, errors.Is(err, ErrLastActivity))
	assert.Len(t, c.List(), 1)
}

func TestUpdateErrors(t *testing.T) {
	c := NewCollector()
	_, err := c.Update(3, FieldType, "food")
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))
	_, err = c.Update(0, "colour", "green")
	assert.True(t, errors.Is(err, ErrUnknownField))
	assert.True(t, errors.Is(c.Remove(-1), ErrIndexOutOfRange))
}

func TestRemoveMiddlePreservesOrder(t *testing.T) {
	c := NewCollector()
	c.Replace([]internal.ManualActivity{
		{Type: "transport", Value: "1"},
		{Type: "energy", Value: "2"},
		{Type: "food", Value: "3"},
	})
	require.NoError(t, c.Remove(1))
	got := c.List()
	require.Len(t, got, 2)
	assert.Equal(t, "transport", got[0].Type)
	assert.Equal(t, "food", got[1].Type)
}

func TestReplaceEmptyKeepsBlankRow(t *testing.T) {
	c := NewCollector()
	c.Replace(nil)
	assert.Equal(t, []internal.ManualActivity{{}}, c.List())
}

func TestFilterValidKeepsOrder(t *testing.T) {
	in := []internal.ManualActivity{
		{Type: "transport", Value: "10"},
		{Type: "", Value: "5"},
		{Type: "food", Value: ""},
		{Type: "energy", Value: "120", Unit: "kWh"},
		{Type: "shopping", Value: "  "},
	}
	want := []internal.ManualActivity{in[0], in[3], in[4]}
	if diff := cmp.Diff(want, FilterValid(in)); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}
