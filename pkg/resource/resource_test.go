package resource

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type part struct {
	ID   int
	Name string
}

func render(p part) Map { return Map{"id": p.ID, "name": p.Name} }

func TestManyNilRendersEmptyList(t *testing.T) {
	raw, err := json.Marshal(Many[part](nil, render))
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestOneAndMerge(t *testing.T) {
	m := Merge(One(part{ID: 1, Name: "PSU"}, render), Map{"active": true})
	assert.Equal(t, Map{"id": 1, "name": "PSU", "active": true}, m)
}
