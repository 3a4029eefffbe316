package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPatchApply_Add(t *testing.T) {
	engine := NewPatchEngine()

	patched, err := engine.Apply(
		[]byte(`{"foo": "bar"}`),
		[]byte(`[{"op": "add", "path": "/baz", "value": "qux"}]`),
	)
	require.NoError(t, err)
	require.JSONEq(t, `{"foo": "bar", "baz": "qux"}`, string(patched))
}

func TestPatchApply_AllOps(t *testing.T) {
	engine := NewPatchEngine()

	doc := []byte(`{"a": 1, "b": {"c": 2}, "list": [1, 2, 3]}`)
	patch := []byte(`[
		{"op": "test", "path": "/a", "value": 1},
		{"op": "replace", "path": "/a", "value": 10},
		{"op": "move", "from": "/b/c", "path": "/d"},
		{"op": "copy", "from": "/d", "path": "/e"},
		{"op": "remove", "path": "/list/1"},
		{"op": "add", "path": "/list/-", "value": 4}
	]`)

	patched, err := engine.Apply(doc, patch)
	require.NoError(t, err)
	require.JSONEq(t, `{"a": 10, "b": {}, "d": 2, "e": 2, "list": [1, 3, 4]}`, string(patched))
}

func TestPatchApply_EmptyPatchIsNoop(t *testing.T) {
	engine := NewPatchEngine()

	doc := []byte(`{"foo": "bar", "nested": {"n": [1, 2]}}`)
	patched, err := engine.Apply(doc, []byte(`[]`))
	require.NoError(t, err)
	require.JSONEq(t, string(doc), string(patched))
}

func TestPatchApply_InvalidPatch(t *testing.T) {
	engine := NewPatchEngine()
	doc := []byte(`{"foo": "bar"}`)

	cases := []struct {
		name  string
		patch string
	}{
		{"non-pointer path", `[{"op": "add", "path": "baz", "value": "qux"}]`},
		{"missing segment", `[{"op": "replace", "path": "/nope/deep", "value": 1}]`},
		{"remove missing key", `[{"op": "remove", "path": "/nope"}]`},
		{"failing test op", `[{"op": "test", "path": "/foo", "value": "not-bar"}]`},
		{"unknown op", `[{"op": "explode", "path": "/foo"}]`},
		{"patch is not an array", `{"op": "add", "path": "/baz", "value": 1}`},
		{"patch is not json", `not json at all`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			patched, err := engine.Apply(doc, []byte(tc.patch))
			require.ErrorIs(t, err, ErrInvalidPatch)
			require.Nil(t, patched)
		})
	}
}

func TestPatchApply_AbortsWithoutPartialResult(t *testing.T) {
	engine := NewPatchEngine()

	// Первая операция применима, вторая - нет; наружу не должно
	// выйти частично измененного документа.
	patched, err := engine.Apply(
		[]byte(`{"foo": "bar"}`),
		[]byte(`[
			{"op": "add", "path": "/baz", "value": "qux"},
			{"op": "replace", "path": "/missing", "value": 1}
		]`),
	)
	require.ErrorIs(t, err, ErrInvalidPatch)
	require.Nil(t, patched)
}

func TestPatchApply_InvalidDocument(t *testing.T) {
	engine := NewPatchEngine()

	patched, err := engine.Apply(
		[]byte(`{"foo": `),
		[]byte(`[{"op": "add", "path": "/baz", "value": "qux"}]`),
	)
	require.ErrorIs(t, err, ErrInvalidDocument)
	require.NotErrorIs(t, err, ErrInvalidPatch)
	require.Nil(t, patched)
}

func TestPatchApply_ScalarAndArrayDocuments(t *testing.T) {
	engine := NewPatchEngine()

	t.Run("array document", func(t *testing.T) {
		patched, err := engine.Apply(
			[]byte(`[1, 2, 3]`),
			[]byte(`[{"op": "add", "path": "/0", "value": 0}]`),
		)
		require.NoError(t, err)
		require.JSONEq(t, `[0, 1, 2, 3]`, string(patched))
	})

	t.Run("in-order application sees prior mutations", func(t *testing.T) {
		patched, err := engine.Apply(
			[]byte(`{}`),
			[]byte(`[
				{"op": "add", "path": "/a", "value": {}},
				{"op": "add", "path": "/a/b", "value": 1}
			]`),
		)
		require.NoError(t, err)
		require.JSONEq(t, `{"a": {"b": 1}}`, string(patched))
	})
}
