package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldReady(t *testing.T) {
	var unconfigured *Field
	assert.True(t, unconfigured.Ready())
	assert.False(t, unconfigured.IsAvailable())

	assert.False(t, Loading().Ready())
	assert.True(t, Available("x").Ready())
	assert.True(t, Available("x").IsAvailable())
}

func TestFieldStringValue(t *testing.T) {
	s, ok := Available("hello").StringValue()
	assert.True(t, ok)
	assert.Equal(t, "hello", s)

	_, ok = Loading().StringValue()
	assert.False(t, ok)

	_, ok = Available(42).StringValue()
	assert.False(t, ok)

	var nilField *Field
	_, ok = nilField.StringValue()
	assert.False(t, ok)
}

func TestFieldDecimalValue(t *testing.T) {
	tests := []struct {
		name  string
		field *Field
		want  string
		ok    bool
	}{
		{"float", Available(10.5), "10.5", true},
		{"int", Available(3), "3", true},
		{"numeric string", Available("12.34"), "12.34", true},
		{"decimal", Available(decimal.NewFromInt(7)), "7", true},
		{"empty string", Available(""), "", false},
		{"garbage string", Available("abc"), "", false},
		{"loading", Loading(), "", false},
		{"bool", Available(true), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := tt.field.DecimalValue()
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, d.String())
			}
		})
	}
}

func TestRowListReady(t *testing.T) {
	var unconfigured *RowList
	assert.True(t, unconfigured.Ready())
	assert.False(t, (&RowList{Status: StatusLoading}).Ready())
	assert.True(t, (&RowList{Status: StatusAvailable}).Ready())
}

func TestSnapshotValidate(t *testing.T) {
	t.Run("empty snapshot valid", func(t *testing.T) {
		assert.NoError(t, (&Snapshot{}).Validate())
	})

	t.Run("known override ids valid", func(t *testing.T) {
		s := &Snapshot{Card: CardSettings{Overrides: []CardFieldOverride{
			{FieldID: CardFieldNumber},
			{FieldID: CardFieldCVV},
		}}}
		assert.NoError(t, s.Validate())
	})

	t.Run("unknown field id rejected", func(t *testing.T) {
		s := &Snapshot{Card: CardSettings{Overrides: []CardFieldOverride{
			{FieldID: "routingNumber"},
		}}}
		err := s.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "routingNumber")
	})

	t.Run("duplicate field id rejected", func(t *testing.T) {
		s := &Snapshot{Card: CardSettings{Overrides: []CardFieldOverride{
			{FieldID: CardFieldCVV},
			{FieldID: CardFieldCVV},
		}}}
		err := s.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate")
	})
}

func TestParseCardFieldID(t *testing.T) {
	id, err := ParseCardFieldID("postalCode")
	require.NoError(t, err)
	assert.Equal(t, CardFieldPostalCode, id)

	_, err = ParseCardFieldID("iban")
	assert.Error(t, err)
}
