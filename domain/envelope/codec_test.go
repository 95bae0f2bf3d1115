package envelope_test

import (
	"testing"

	"mythos-backend/domain/envelope"
	pkgerrors "mythos-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_RoundTripIsByteExact(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "table",
			raw: `{"type":"table",` +
				`"columnsById":{"c1":{"id":"c1","name":"Name"},"c2":{"id":"c2","name":"Role"}},` +
				`"columnOrder":["c1","c2"],` +
				`"rowsById":{"r1":{"c1":{"t":"text","v":"Aria"},"c2":{"t":"text","v":"Captain"}}},` +
				`"rowOrder":["r1"]}`,
		},
		{
			name: "prose blocks",
			raw: `{"type":"prose",` +
				`"blocksById":{"b1":{"id":"b1","markdown":"# Chapter One"},"b2":{"id":"b2","markdown":"The storm broke at dawn."}},` +
				`"blockOrder":["b1","b2"]}`,
		},
		{
			name: "timeline",
			raw: `{"type":"timeline",` +
				`"itemsById":{"t1":{"id":"t1","label":"Founding","date":"0312"}},` +
				`"itemOrder":["t1"]}`,
		},
		{
			name: "diagram",
			raw: `{"type":"diagram",` +
				`"nodesById":{"n1":{"id":"n1","label":"Start"},"n2":{"id":"n2","label":"End"}},` +
				`"nodeOrder":["n1","n2"],` +
				`"edgesById":{"e1":{"id":"e1","source":"n1","target":"n2"}},` +
				`"edgeOrder":["e1"]}`,
		},
		{
			name: "chart point series",
			raw: `{"type":"chart",` +
				`"pointsById":{"p1":{"id":"p1","x":1,"y":2}},` +
				`"pointOrder":["p1"]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := envelope.Parse(tt.raw)
			require.NoError(t, err)

			out, err := envelope.Serialize(env)
			require.NoError(t, err)
			assert.Equal(t, tt.raw, out)
		})
	}
}

func TestParse_RejectsCorruptEnvelopes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "not JSON at all",
			raw:  "once upon a time",
		},
		{
			name: "unknown type",
			raw:  `{"type":"spreadsheet","rowsById":{},"rowOrder":[]}`,
		},
		{
			name: "order references missing id",
			raw: `{"type":"table","columnsById":{},"columnOrder":[],` +
				`"rowsById":{"r1":{}},"rowOrder":["r2"]}`,
		},
		{
			name: "order shorter than map",
			raw: `{"type":"table","columnsById":{},"columnOrder":[],` +
				`"rowsById":{"r1":{},"r2":{}},"rowOrder":["r1"]}`,
		},
		{
			name: "order contains duplicate id",
			raw: `{"type":"prose",` +
				`"blocksById":{"b1":{"id":"b1","markdown":"x"},"b2":{"id":"b2","markdown":"y"}},` +
				`"blockOrder":["b1","b1"]}`,
		},
		{
			name: "chart with both series",
			raw: `{"type":"chart",` +
				`"pointsById":{"p1":{"id":"p1","x":1,"y":2}},"pointOrder":["p1"],` +
				`"linksById":{"l1":{"id":"l1","source":"a","target":"b"}},"linkOrder":["l1"]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := envelope.Parse(tt.raw)
			assert.Nil(t, env)
			require.Error(t, err)
			assert.True(t, pkgerrors.IsParseFailure(err))
		})
	}
}

func TestValidate_RequiresExactlyOneVariant(t *testing.T) {
	// No payload at all
	err := envelope.Validate(&envelope.Envelope{Kind: envelope.KindTable})
	assert.Error(t, err)

	// Two payloads under one kind
	double := envelope.NewTable()
	double.Text = &envelope.Text{BlocksByID: map[string]envelope.TextBlock{}, BlockOrder: []string{}}
	err = envelope.Validate(double)
	assert.Error(t, err)
}

func TestValidate_RejectsPayloadUnderWrongKind(t *testing.T) {
	env := envelope.NewTable()
	env.Kind = envelope.KindProse

	err := envelope.Validate(env)

	require.Error(t, err)
	assert.True(t, pkgerrors.IsParseFailure(err))
}

func TestSerialize_NilEnvelope(t *testing.T) {
	out, err := envelope.Serialize(nil)

	assert.Empty(t, out)
	assert.Error(t, err)
}

func TestClone_IsIndependentOfOriginal(t *testing.T) {
	env := envelope.NewTable()
	env.Table.ColumnsByID["c1"] = envelope.Column{ID: "c1", Name: "Name"}
	env.Table.ColumnOrder = []string{"c1"}
	env.Table.RowsByID["r1"] = envelope.Row{"c1": envelope.TextCell("Aria")}
	env.Table.RowOrder = []string{"r1"}

	clone := env.Clone()
	clone.Table.RowsByID["r1"]["c1"] = envelope.TextCell("mutated")
	clone.Table.RowOrder = append(clone.Table.RowOrder, "r2")

	assert.Equal(t, envelope.TextCell("Aria"), env.Table.RowsByID["r1"]["c1"])
	assert.Equal(t, []string{"r1"}, env.Table.RowOrder)
}
