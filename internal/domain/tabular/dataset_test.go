package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *Dataset {
	d := New([]string{"ISIN", "Qty"})
	d.Append([]string{"US0000000001", "10"})
	d.Append([]string{"US0000000002"})
	d.Append([]string{"US0000000001", "30", "extra"})
	return d
}

func TestDataset_Append(t *testing.T) {
	d := sample()

	assert.Equal(t, 3, d.Len())
	assert.Equal(t, []string{"US0000000002", ""}, d.Row(1))
	assert.Equal(t, []string{"US0000000001", "30"}, d.Row(2))
}

func TestDataset_ColumnValues(t *testing.T) {
	d := sample()

	values, err := d.ColumnValues("ISIN")
	require.NoError(t, err)
	assert.Equal(t, []string{"US0000000001", "US0000000002", "US0000000001"}, values)

	_, err = d.ColumnValues("Missing")
	assert.Error(t, err)
}

func TestDataset_SetColumn(t *testing.T) {
	t.Run("appends new column", func(t *testing.T) {
		d := sample()
		require.NoError(t, d.SetColumn("Status", []string{"a", "b", "c"}))

		assert.Equal(t, []string{"ISIN", "Qty", "Status"}, d.Columns())
		assert.Equal(t, "b", d.Value(1, "Status"))
		assert.Equal(t, "10", d.Value(0, "Qty"))
	})

	t.Run("overwrites existing column in place", func(t *testing.T) {
		d := sample()
		require.NoError(t, d.SetColumn("Qty", []string{"1", "2", "3"}))

		assert.Equal(t, []string{"ISIN", "Qty"}, d.Columns())
		assert.Equal(t, "2", d.Value(1, "Qty"))
	})

	t.Run("rejects wrong length", func(t *testing.T) {
		d := sample()
		assert.Error(t, d.SetColumn("Status", []string{"a"}))
	})
}

func TestDataset_Project(t *testing.T) {
	d := sample()
	p := d.Project("Qty", "Missing")

	assert.Equal(t, []string{"Qty", "Missing"}, p.Columns())
	assert.Equal(t, []string{"10", ""}, p.Row(0))
	assert.Equal(t, 3, p.Len())
}

func TestDataset_DistinctBy(t *testing.T) {
	d := New([]string{"Registration No.", "Name"})
	d.Append([]string{"INZ1", "first"})
	d.Append([]string{"INZ2", "second"})
	d.Append([]string{"INZ1", "duplicate"})
	d.Append([]string{"", "no number"})
	d.Append([]string{"", "no number again"})

	out, err := d.DistinctBy("Registration No.")
	require.NoError(t, err)

	names, err := out.ColumnValues("Name")
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "no number"}, names)

	_, err = d.DistinctBy("Missing")
	assert.Error(t, err)
}

func TestDataset_RowsAreCopies(t *testing.T) {
	d := sample()
	rows := d.Rows()
	rows[0][0] = "changed"

	assert.Equal(t, "US0000000001", d.Value(0, "ISIN"))
}

func TestDataset_ColumnIndex(t *testing.T) {
	d := New([]string{"ISIN", "Note", "ISIN"})

	idx, ok := d.ColumnIndex("ISIN")
	assert.True(t, ok)
	assert.Equal(t, 0, idx, "duplicates resolve to the first position")

	require.NoError(t, d.SetColumn("Extra", nil))
	idx, ok = d.ColumnIndex("Extra")
	assert.True(t, ok)
	assert.Equal(t, 3, idx)

	_, ok = d.ColumnIndex("missing")
	assert.False(t, ok)
}
