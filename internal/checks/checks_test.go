package checks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/checkmateLL/dxf-checker/internal/geom"
)

// Test Plan for the checks package surface:
// - ParseKind accepts every canonical kind and rejects anything else
// - Tags are unique so defect ids and marker layers never collide
// - New builds a check for every kind and fails on unknown ones
// - Default parameters are usable as-is

// testEntity builds an entity the way the extractor would, with dense ids
// and ordinal back-references.
func testEntity(id int, closed bool, pts ...geom.Point3) geom.Entity {
	e := geom.Entity{
		ID:     id,
		Source: sourceName(id),
		Kind:   "LINE",
		Closed: closed,
	}
	for i, p := range pts {
		e.Vertices = append(e.Vertices, geom.Vertex{Point3: p, Entity: id, Ordinal: i})
	}
	return e
}

func sourceName(id int) string {
	return "e" + string(rune('0'+id))
}

// runOne runs a single check and fails the test on runner-level errors.
func runOne(t *testing.T, kind Kind, p Params, entities []geom.Entity) []Defect {
	t.Helper()
	results, err := Run(context.Background(), entities, []Kind{kind}, p, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Empty(t, results[0].Failure)
	return results[0].Defects
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	for _, k := range AllKinds() {
		parsed, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}

	_, err := ParseKind("too_wavy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too_wavy")
}

func TestKindTagsUnique(t *testing.T) {
	t.Parallel()

	seen := map[string]Kind{}
	for _, k := range AllKinds() {
		tag := k.Tag()
		assert.NotEqual(t, "UNKNOWN", tag)
		prev, dup := seen[tag]
		assert.False(t, dup, "tag %s reused by %s and %s", tag, prev, k)
		seen[tag] = k
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	for _, k := range AllKinds() {
		c, err := New(k, DefaultParams())
		require.NoError(t, err)
		assert.Equal(t, k, c.Kind())
	}

	_, err := New(Kind("nope"), DefaultParams())
	assert.Error(t, err)
}

func TestDefaultParams(t *testing.T) {
	t.Parallel()

	p := DefaultParams()
	assert.Equal(t, 50.0, p.MaxDist)
	assert.Equal(t, 0.01, p.MinDist)
	assert.Equal(t, 0.0001, p.DuplicateTolerance)
	assert.Equal(t, 0.01, p.CrossingTolerance)
	assert.Equal(t, 0.04, p.ZTolerance)
	assert.False(t, p.PlanarLengths)
}
