package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueUnmarshalScalars(t *testing.T) {
	tests := []struct {
		raw  string
		kind Kind
		want string
	}{
		{`null`, KindNull, ""},
		{`"Casablanca"`, KindText, "Casablanca"},
		{`""`, KindText, ""},
		{`1250000`, KindNumeric, "1250000"},
		{`0.5`, KindNumeric, "0.5"},
		{`true`, KindBoolean, "true"},
		{`false`, KindBoolean, "false"},
	}

	for _, tt := range tests {
		var v Value
		require.NoError(t, json.Unmarshal([]byte(tt.raw), &v), tt.raw)
		assert.Equal(t, tt.kind, v.Kind(), tt.raw)
		assert.Equal(t, tt.want, v.String(), tt.raw)
	}
}

func TestValueRejectsObjects(t *testing.T) {
	var v Value
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &v))
}

func TestAbsentFieldIsNull(t *testing.T) {
	var d AdDetails
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x"}`), &d))
	assert.True(t, d.AdID.IsNull())
	assert.Nil(t, d.Price)
}

func TestParamValuePrecedence(t *testing.T) {
	text := "Neuf"
	num := decimal.NewFromInt(3)
	yes := true
	zero := decimal.Zero
	no := false

	assert.Equal(t, Text("Neuf"), (&AdParam{TextValue: &text, NumericValue: &num}).Value())
	assert.Equal(t, Numeric(num).String(), (&AdParam{NumericValue: &num, BooleanValue: &yes}).Value().String())
	assert.Equal(t, Boolean(true), (&AdParam{BooleanValue: &yes}).Value())
	assert.True(t, (&AdParam{}).Value().IsNull())

	// zero and false are values, not absences
	assert.Equal(t, "0", (&AdParam{NumericValue: &zero, BooleanValue: &yes}).Value().String())
	assert.Equal(t, Boolean(false), (&AdParam{BooleanValue: &no}).Value())
}

func TestKeyOf(t *testing.T) {
	_, ok := KeyOf(Row{ColCityName: Null(), ColAreaName: Text("Maarif")})
	assert.False(t, ok, "null city has no key")

	withArea, ok := KeyOf(Row{ColCityName: Text("Casablanca"), ColAreaName: Text("Maarif")})
	require.True(t, ok)
	assert.Equal(t, EnrichmentKey{City: "Casablanca", Area: "Maarif", HasArea: true}, withArea)

	noArea, ok := KeyOf(Row{ColCityName: Text("Casablanca"), ColAreaName: Null()})
	require.True(t, ok)
	emptyArea, _ := KeyOf(Row{ColCityName: Text("Casablanca"), ColAreaName: Text("")})
	assert.NotEqual(t, noArea, emptyArea, "null area must stay distinct from empty area")
}
