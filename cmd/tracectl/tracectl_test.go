package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyLot(t *testing.T) {
	start := time.Date(2024, 8, 14, 6, 0, 0, 0, time.UTC)
	assert.Equal(t, "CAKE-20240814-001", dailyLot("CAKE", start, 1))
	assert.Equal(t, "TORTE-20240814-012", dailyLot("TORTE", start, 12))
}

func TestDemoData_Consistent(t *testing.T) {
	data := demoData()

	lots := map[string]demoLot{}
	for _, l := range data.Lots {
		assert.Less(t, l.Ingredient, len(data.Ingredients), l.Code)
		assert.Less(t, l.Supplier, len(data.Suppliers), l.Code)
		assert.Positive(t, l.Quantity, l.Code)
		lots[l.Code] = l
	}
	require.Contains(t, lots, "FLOUR-SUPPLIER-A-001")

	used := map[string]int64{}
	pallets := map[string]bool{}
	for _, r := range data.Runs {
		assert.Less(t, r.Recipe, len(data.Recipes))
		for _, u := range r.Uses {
			lot, ok := lots[u.Lot]
			require.True(t, ok, u.Lot)
			assert.Less(t, r.StartAgo, lot.ReceivedAgo, "run starts after %s arrives", u.Lot)
			assert.Greater(t, lot.ShelfLife, lot.ReceivedAgo-r.StartAgo, "%s expired at run start", u.Lot)
			used[u.Lot] += u.Quantity
		}
		for _, p := range r.Pallets {
			assert.False(t, pallets[p.Code], "duplicate pallet %s", p.Code)
			pallets[p.Code] = true
			if p.Order != "" {
				assert.True(t, r.Complete, "%s shipped from an open run", p.Code)
			}
		}
	}
	for code, qty := range used {
		assert.LessOrEqual(t, qty, lots[code].Quantity, code)
	}
}

func TestDemoData_FlourReachesTwoRuns(t *testing.T) {
	runs, shipped, inStock := 0, 0, 0
	for _, r := range demoData().Runs {
		for _, u := range r.Uses {
			if u.Lot != "FLOUR-SUPPLIER-A-001" {
				continue
			}
			runs++
			for _, p := range r.Pallets {
				if p.Order != "" {
					shipped++
				} else {
					inStock++
				}
			}
		}
	}
	assert.Equal(t, 2, runs)
	assert.Equal(t, 1, shipped)
	assert.Equal(t, 1, inStock)
}

func TestRootCommand_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"seed", "forward", "backward", "recall", "audit-lots", "reset-password"} {
		assert.True(t, names[want], want)
	}
}

func TestCommandArgs(t *testing.T) {
	assert.Error(t, forwardCmd.Args(forwardCmd, nil))
	assert.NoError(t, forwardCmd.Args(forwardCmd, []string{"1"}))
	assert.Error(t, resetPasswordCmd.Args(resetPasswordCmd, []string{"a@b.c"}))
	assert.Error(t, auditLotsCmd.Args(auditLotsCmd, []string{"extra"}))
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, map[string]int{"lots": 2}))
	assert.Equal(t, "{\n  \"lots\": 2\n}\n", buf.String())
}
