package epw

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSchema = NewFieldSchema(
	Field{"id", Integer},
	Field{"temp", Float},
	Field{"label", Text},
)

func TestParseRecords_ColumnMajor(t *testing.T) {
	rs, err := ParseRecords("test", []string{"1", "3.5", "a", "2", "", "b"}, testSchema, RejectShortRows)
	require.NoError(t, err)

	assert.Equal(t, 2, rs.Len())

	ids, err := rs.Field("id")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids.Ints())

	temps, err := rs.Field("temp")
	require.NoError(t, err)
	floats := temps.Floats()
	assert.InDelta(t, 3.5, floats[0], 1e-9)
	assert.True(t, math.IsNaN(floats[1]))
	assert.Equal(t, 1, temps.Missing())

	labels, err := rs.Field("label")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, labels.Texts())
	assert.Equal(t, Text, labels.Kind())
	assert.Equal(t, "label", labels.Name())

	row := rs.Row(1)
	require.Len(t, row, 3)
	assert.Equal(t, int64(2), row[0].Int())
	assert.Equal(t, "b", row[2].Text())
}

func TestParseRecords_Empty(t *testing.T) {
	rs, err := ParseRecords("test", nil, testSchema, RejectShortRows)
	require.NoError(t, err)
	assert.Equal(t, 0, rs.Len())

	col, err := rs.Field("temp")
	require.NoError(t, err)
	assert.Equal(t, 0, col.Len())
	assert.Empty(t, rs.Dump())
}

func TestParseRecords_ShortRows(t *testing.T) {
	tokens := []string{"1", "3.5", "a", "2"}

	t.Run("reject", func(t *testing.T) {
		_, err := ParseRecords("test", tokens, testSchema, RejectShortRows)
		require.ErrorIs(t, err, ErrSchemaMismatch)

		var mismatch *SchemaMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, 4, mismatch.Tokens)
		assert.Equal(t, 3, mismatch.Width)
	})

	t.Run("pad", func(t *testing.T) {
		rs, err := ParseRecords("test", tokens, testSchema, PadShortRows)
		require.NoError(t, err)
		assert.Equal(t, 2, rs.Len())

		temps, err := rs.Field("temp")
		require.NoError(t, err)
		assert.True(t, temps.At(1).IsMissing())
		assert.Equal(t, [][]string{{"1", "3.5", "a"}, {"2", "", ""}}, rs.Dump())
	})

	t.Run("pad does not touch caller slice", func(t *testing.T) {
		in := make([]string, 4, 6)
		copy(in, tokens)
		_, err := ParseRecords("test", in, testSchema, PadShortRows)
		require.NoError(t, err)
		assert.Equal(t, tokens, in)
	})

	t.Run("padded empty integer still fails", func(t *testing.T) {
		_, err := ParseRecords("test", []string{"1", "3.5", "a", "2", "1.0", "b", ""}, testSchema, PadShortRows)
		require.ErrorIs(t, err, ErrFieldConversion)
	})
}

func TestParseRecords_ConversionError(t *testing.T) {
	_, err := ParseRecords("test", []string{"1", "3.5", "a", "x", "1", "b"}, testSchema, RejectShortRows)
	require.ErrorIs(t, err, ErrFieldConversion)

	var convErr *FieldConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, "test", convErr.Header)
	assert.Equal(t, "id", convErr.Field)
	assert.Equal(t, "x", convErr.Raw)
	assert.Equal(t, 1, convErr.Row)
	assert.Contains(t, err.Error(), `test.id[1]`)
}

func TestParseRecords_NoFields(t *testing.T) {
	_, err := ParseRecords("test", []string{"x"}, NewFieldSchema(), PadShortRows)
	require.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestRecordSet_FieldNotFound(t *testing.T) {
	rs, err := ParseRecords("test", []string{"1", "2", "a"}, testSchema, RejectShortRows)
	require.NoError(t, err)

	_, err = rs.Field("humidity")
	require.ErrorIs(t, err, ErrFieldNotFound)

	var notFound *FieldNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "test", notFound.Scope)
	assert.Equal(t, "humidity", notFound.Field)
}

func TestRecordSet_FieldLengthMatchesRecords(t *testing.T) {
	tokens := []string{"1", "1.0", "a", "2", "2.0", "b", "3", "", "c"}
	rs, err := ParseRecords("test", tokens, testSchema, RejectShortRows)
	require.NoError(t, err)

	for _, name := range rs.Schema().Names() {
		col, err := rs.Field(name)
		require.NoError(t, err)
		assert.Equal(t, rs.Len(), col.Len(), name)
	}
}

func TestRecordSet_TokensRoundTrip(t *testing.T) {
	tokens := []string{"1", "", "a,b", "2", "-0.50", "", "03", "1e3", "z"}
	rs, err := ParseRecords("test", tokens, testSchema, RejectShortRows)
	require.NoError(t, err)

	assert.Equal(t, tokens, rs.Tokens())
}

func TestColumn_ValuesIsCopy(t *testing.T) {
	rs, err := ParseRecords("test", []string{"1", "2", "a"}, testSchema, RejectShortRows)
	require.NoError(t, err)

	col, err := rs.Field("label")
	require.NoError(t, err)
	vals := col.Values()
	vals[0] = TextValue("mutated")

	again, err := rs.Field("label")
	require.NoError(t, err)
	assert.Equal(t, "a", again.At(0).Text())
}
