package resources

import (
	"encoding/json"
	"testing"

	"github.com/shashiranjanraj/pcbuilder/app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAggregates(t *testing.T) {
	cpu := &models.Product{ID: 1, Brand: "AMD", ModelName: "Ryzen 5 7600", Price: decimal.RequireFromString("199.5"), Tier: 2}
	gpu := &models.Product{ID: 2, Brand: "AMD", ModelName: "Radeon RX 6600", Price: decimal.RequireFromString("199.99"), Tier: 1}
	b := models.Build{ID: 7, Name: "Budget", Items: []models.BuildItem{
		{ID: 1, BuildID: 7, ProductID: 1, Product: cpu, Quantity: 2},
		{ID: 2, BuildID: 7, ProductID: 2, Product: gpu, Quantity: 1},
	}}

	raw, err := json.Marshal(Build(7)(b))
	require.NoError(t, err)

	var got struct {
		TotalPrice string `json:"total_price"`
		ItemCount  int    `json:"item_count"`
		Tiers      []int  `json:"tiers"`
		Active     bool   `json:"active"`
		Items      []struct {
			LineTotal string `json:"line_total"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(raw, &got))

	assert.Equal(t, "598.99", got.TotalPrice)
	assert.Equal(t, 3, got.ItemCount)
	assert.Equal(t, []int{1, 2}, got.Tiers)
	assert.True(t, got.Active)
	assert.Equal(t, "399.00", got.Items[0].LineTotal)
}

func TestEmptyBuildRendersEmptyItems(t *testing.T) {
	raw, err := json.Marshal(Build(0)(models.Build{ID: 1, Name: "Empty"}))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"items":[]`)
	assert.Contains(t, string(raw), `"total_price":"0.00"`)
	assert.Contains(t, string(raw), `"tiers":[]`)
	assert.Contains(t, string(raw), `"active":false`)
}
