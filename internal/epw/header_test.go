package epw

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testLocationLine = "LOCATION,LONDON/GATWICK,-,GBR,IWEC Data,037760,51.15,-0.18,0.0,62.0"
	testGroundLine   = "GROUND TEMPERATURES,3,.5,,,,4.16,5.30,7.51,9.61,13.58,15.67,16.24,15.18,12.74,9.69,6.69,4.70," +
		"2,,,,5.73,6.01,7.27,8.68,11.72,13.67,14.64,14.43,13.03,10.93,8.56,6.69," +
		"4,,,,7.35,7.16,7.71,8.51,10.52,12.03,13.01,13.25,12.64,11.40,9.79,8.34"
	testCommentsLine = `COMMENTS 1,"IWEC- WMO#037760 - Europe -- Original Source Data (c) 2001 American Society of Heating, ` +
		`Refrigerating and Air-Conditioning Engineers (ASHRAE), Inc., Atlanta, GA, USA. The data is provided 'as is'."`
	testDesignLine = "DESIGN CONDITIONS,1,Climate Design Data 2009 ASHRAE Handbook,,Heating,12,-3.8,-1.9,Cooling,7,10.1,Extremes,10.9,9.7"
)

func header(t *testing.T, c *Codec, name string) HeaderSpec {
	t.Helper()
	spec, err := c.Registry().Header(name)
	require.NoError(t, err)
	return spec
}

func TestParseHeader_Location(t *testing.T) {
	c := NewCodec(NewRegistry())

	block, err := c.ParseHeader(testLocationLine, header(t, c, Location))
	require.NoError(t, err)

	city, err := block.Meta("city")
	require.NoError(t, err)
	assert.Equal(t, "LONDON/GATWICK", city.Text())

	lat, err := block.Meta("latitude")
	require.NoError(t, err)
	assert.InDelta(t, 51.15, lat.Float(), 1e-9)

	wmo, err := block.Meta("wmo")
	require.NoError(t, err)
	assert.Equal(t, Text, wmo.Kind())
	assert.Equal(t, "037760", wmo.Text())

	assert.Len(t, block.Metadata(), 9)
	_, ok := block.Records()
	assert.False(t, ok)

	assert.Equal(t, testLocationLine, c.FormatHeader(block))
}

func TestParseHeader_GroundTemperatures(t *testing.T) {
	c := NewCodec(NewRegistry())
	spec := header(t, c, GroundTemperatures)

	t.Run("count matches rows", func(t *testing.T) {
		block, err := c.ParseHeader(testGroundLine, spec)
		require.NoError(t, err)

		records, ok := block.Records()
		require.True(t, ok)
		assert.Equal(t, 3, records.Len())

		depth, err := records.Field("depth")
		require.NoError(t, err)
		assert.Equal(t, []float64{0.5, 2, 4}, depth.Floats())

		conductivity, err := records.Field("soil_conductivity")
		require.NoError(t, err)
		assert.Equal(t, 3, conductivity.Missing())

		december, err := records.Field("december")
		require.NoError(t, err)
		assert.InDelta(t, 4.70, december.At(0).Float(), 1e-9)

		assert.Equal(t, testGroundLine, c.FormatHeader(block))
	})

	t.Run("count exceeds rows", func(t *testing.T) {
		fields := strings.Split(testGroundLine, ",")
		twoRows := strings.Join(fields[:2+2*16], ",")

		_, err := c.ParseHeader(twoRows, spec)
		require.ErrorIs(t, err, ErrRecordCountMismatch)

		var countErr *RecordCountMismatchError
		require.ErrorAs(t, err, &countErr)
		assert.Equal(t, int64(3), countErr.Declared)
		assert.Equal(t, 2, countErr.Actual)
		assert.Equal(t, "number_of_ground_temperature_depths", countErr.CountField)
	})

	t.Run("non numeric temperature", func(t *testing.T) {
		line := strings.Replace(testGroundLine, "4.16", "warm", 1)
		_, err := c.ParseHeader(line, spec)
		require.ErrorIs(t, err, ErrFieldConversion)

		var convErr *FieldConversionError
		require.ErrorAs(t, err, &convErr)
		assert.Equal(t, GroundTemperatures, convErr.Header)
		assert.Equal(t, "january", convErr.Field)
		assert.Equal(t, "warm", convErr.Raw)
	})
}

func TestParseHeader_Comments(t *testing.T) {
	c := NewCodec(NewRegistry())
	spec := header(t, c, Comments1)

	block, err := c.ParseHeader(testCommentsLine, spec)
	require.NoError(t, err)

	v, err := block.Meta("comments_1")
	require.NoError(t, err)
	assert.Equal(t, strings.TrimPrefix(testCommentsLine, "COMMENTS 1,"), v.Text())
	assert.Equal(t, testCommentsLine, c.FormatHeader(block))

	t.Run("empty comment", func(t *testing.T) {
		block, err := c.ParseHeader("COMMENTS 1,", spec)
		require.NoError(t, err)
		assert.Equal(t, "COMMENTS 1,", c.FormatHeader(block))
	})

	t.Run("wrong label", func(t *testing.T) {
		_, err := c.ParseHeader("COMMENTS 2,text", spec)
		require.ErrorIs(t, err, ErrLabelMismatch)
	})
}

func TestParseHeader_DesignConditionsOpaque(t *testing.T) {
	c := NewCodec(NewRegistry())
	spec := header(t, c, DesignConditions)

	block, err := c.ParseHeader(testDesignLine, spec)
	require.NoError(t, err)

	n, err := block.Meta("number_of_design_conditions")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n.Int())

	payload, ok := block.Opaque()
	require.True(t, ok)
	assert.Equal(t, "Heating,12,-3.8,-1.9,Cooling,7,10.1,Extremes,10.9,9.7", payload)

	entry, err := block.Lookup("design_conditions")
	require.NoError(t, err)
	assert.True(t, entry.Nested)
	assert.Equal(t, payload, entry.Value.Text())

	assert.Equal(t, testDesignLine, c.FormatHeader(block))

	t.Run("no payload", func(t *testing.T) {
		line := "DESIGN CONDITIONS,0,,"
		block, err := c.ParseHeader(line, spec)
		require.NoError(t, err)
		assert.Equal(t, line, c.FormatHeader(block))
	})
}

func TestParseHeader_MissingMetafields(t *testing.T) {
	line := "DESIGN CONDITIONS,0"

	t.Run("pad", func(t *testing.T) {
		c := NewCodec(NewRegistry())
		block, err := c.ParseHeader(line, header(t, c, DesignConditions))
		require.NoError(t, err)
		assert.Equal(t, "DESIGN CONDITIONS,0,,", c.FormatHeader(block))
	})

	t.Run("reject", func(t *testing.T) {
		c := NewCodec(NewRegistry(), WithRowPolicy(RejectShortRows))
		_, err := c.ParseHeader(line, header(t, c, DesignConditions))
		require.ErrorIs(t, err, ErrSchemaMismatch)
	})
}

func TestParseHeader_Errors(t *testing.T) {
	c := NewCodec(NewRegistry())

	tests := []struct {
		name    string
		header  string
		line    string
		wantErr error
	}{
		{"label mismatch", Location, "LOCALE,LONDON/GATWICK,-,GBR,IWEC Data,037760,51.15,-0.18,0.0,62.0", ErrLabelMismatch},
		{"label is case sensitive", GroundTemperatures, "Ground Temperatures,0", ErrLabelMismatch},
		{"bad latitude", Location, "LOCATION,LONDON/GATWICK,-,GBR,IWEC Data,037760,north,-0.18,0.0,62.0", ErrFieldConversion},
		{"extra location token", Location, testLocationLine + ",extra", ErrSchemaMismatch},
		{"bad holiday count", HolidaysDaylightSaving, "HOLIDAYS/DAYLIGHT SAVINGS,No,0,0,", ErrFieldConversion},
		{"holiday count mismatch", HolidaysDaylightSaving, "HOLIDAYS/DAYLIGHT SAVINGS,No,0,0,1", ErrRecordCountMismatch},
		{"data period count mismatch", DataPeriods, "DATA PERIODS,2,1,Data,Sunday, 1/ 1,12/31", ErrRecordCountMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.ParseHeader(tt.line, header(t, c, tt.header))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseHeader_ConversionErrorCarriesContext(t *testing.T) {
	c := NewCodec(NewRegistry())
	_, err := c.ParseHeader("LOCATION,LONDON/GATWICK,-,GBR,IWEC Data,037760,north,-0.18,0.0,62.0", header(t, c, Location))

	var convErr *FieldConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, Location, convErr.Header)
	assert.Equal(t, "latitude", convErr.Field)
	assert.Equal(t, "north", convErr.Raw)
	assert.Equal(t, -1, convErr.Row)
}

func TestHeaderBlock_Lookup(t *testing.T) {
	c := NewCodec(NewRegistry())

	holidays, err := c.ParseHeader("HOLIDAYS/DAYLIGHT SAVINGS,Yes,3/30,10/26,2,New Year,1/1,Christmas,12/25", header(t, c, HolidaysDaylightSaving))
	require.NoError(t, err)

	t.Run("metafield first", func(t *testing.T) {
		entry, err := holidays.Lookup("leapyear_observed")
		require.NoError(t, err)
		assert.False(t, entry.Nested)
		assert.Equal(t, "Yes", entry.Value.Text())
	})

	t.Run("nested column", func(t *testing.T) {
		entry, err := holidays.Lookup("holiday_name")
		require.NoError(t, err)
		assert.True(t, entry.Nested)
		assert.Equal(t, []string{"New Year", "Christmas"}, entry.Column.Texts())
	})

	t.Run("no leakage from other headers", func(t *testing.T) {
		_, err := holidays.Lookup("city")
		require.ErrorIs(t, err, ErrFieldNotFound)
		_, err = holidays.Meta("holiday_name")
		require.ErrorIs(t, err, ErrFieldNotFound)
	})

	t.Run("empty nested set", func(t *testing.T) {
		none, err := c.ParseHeader("HOLIDAYS/DAYLIGHT SAVINGS,No,0,0,0", header(t, c, HolidaysDaylightSaving))
		require.NoError(t, err)
		entry, err := none.Lookup("holiday_day")
		require.NoError(t, err)
		assert.Equal(t, 0, entry.Column.Len())
		assert.Equal(t, "HOLIDAYS/DAYLIGHT SAVINGS,No,0,0,0", c.FormatHeader(none))
	})
}

func TestFormatHeader_NaNIsEmpty(t *testing.T) {
	c := NewCodec(NewRegistry())
	block, err := c.ParseHeader("LOCATION,X,-,GBR,src,000000,,,,", header(t, c, Location))
	require.NoError(t, err)

	lat, err := block.Meta("latitude")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(lat.Float()))
	assert.Equal(t, "LOCATION,X,-,GBR,src,000000,,,,", c.FormatHeader(block))
	assert.NotContains(t, c.FormatHeader(block), "NaN")
}
