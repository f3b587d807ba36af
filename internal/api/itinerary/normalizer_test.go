package itinerary

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-itinerary-compare/internal/api/poi"
	"github.com/FACorreiaa/go-itinerary-compare/internal/api/tabular"
	"github.com/FACorreiaa/go-itinerary-compare/internal/types"
)

func testIndex() *poi.Index {
	return poi.NewIndex([]types.PointOfInterest{
		{ID: "10", Name: "Kyoto Station", Category: "Station", Latitude: 34.98, Longitude: 135.75},
		{ID: "11", Name: "Kiyomizu-dera Temple", Category: "Temple", Latitude: 34.99, Longitude: 135.78},
	})
}

func TestSlotNumber(t *testing.T) {
	n, ok := SlotNumber("slot13")
	require.True(t, ok)
	assert.Equal(t, 13, n)

	n, ok = SlotNumber("s2-extra7")
	require.True(t, ok)
	assert.Equal(t, 2, n, "the first digit run wins")

	_, ok = SlotNumber("return")
	assert.False(t, ok)
}

func TestIsMoveMarker(t *testing.T) {
	assert.True(t, IsMoveMarker("move"))
	assert.True(t, IsMoveMarker(" MOVE "))
	assert.True(t, IsMoveMarker("移動"))
	assert.False(t, IsMoveMarker("Kyoto Station"))
}

func TestNormalize(t *testing.T) {
	n := NewNormalizer(testIndex(), poi.MatchExact, DefaultHourOffset, nil)

	t.Run("anchor", func(t *testing.T) {
		slot, err := n.Normalize(types.PlanRow{Slot: "Start", Place: "Kyoto Station", Transport: "stay"})
		require.NoError(t, err)
		assert.True(t, slot.IsAnchor)
		assert.False(t, slot.IsMove)
		assert.Nil(t, slot.Hour)
		require.NotNil(t, slot.POI)
		assert.Equal(t, "10", slot.POI.ID)
		assert.Equal(t, "Station", slot.Category)
	})

	t.Run("stay with resolved poi", func(t *testing.T) {
		slot, err := n.Normalize(types.PlanRow{Slot: "slot4", Place: "Kiyomizu-dera Temple", Transport: "stay"})
		require.NoError(t, err)
		assert.False(t, slot.IsAnchor)
		assert.False(t, slot.IsMove)
		require.NotNil(t, slot.Hour)
		assert.Equal(t, 12, *slot.Hour)
		require.NotNil(t, slot.SlotNumber)
		assert.Equal(t, 4, *slot.SlotNumber)
		require.NotNil(t, slot.POI)
		assert.Equal(t, "Temple", slot.Category)
	})

	t.Run("move", func(t *testing.T) {
		slot, err := n.Normalize(types.PlanRow{Slot: "slot5", Place: "move", Transport: "Bike"})
		require.NoError(t, err)
		assert.True(t, slot.IsMove)
		assert.Nil(t, slot.POI)
		assert.Equal(t, "bike", slot.RawTransport)
		assert.Equal(t, 13, *slot.Hour)
	})

	t.Run("unknown place keeps the name with default category", func(t *testing.T) {
		slot, err := n.Normalize(types.PlanRow{Slot: "slot6", Place: "Kiyomizu", Transport: "stay"})
		require.NoError(t, err)
		assert.Nil(t, slot.POI)
		assert.Equal(t, "Kiyomizu", slot.PlaceName)
		assert.Equal(t, types.DefaultCategory, slot.Category)
	})

	t.Run("contains matching resolves partial names", func(t *testing.T) {
		fuzzy := NewNormalizer(testIndex(), poi.MatchContains, DefaultHourOffset, nil)
		slot, err := fuzzy.Normalize(types.PlanRow{Slot: "slot6", Place: "Kiyomizu", Transport: "stay"})
		require.NoError(t, err)
		require.NotNil(t, slot.POI)
		assert.Equal(t, "11", slot.POI.ID)
	})

	t.Run("label without digits has no hour", func(t *testing.T) {
		slot, err := n.Normalize(types.PlanRow{Slot: "lunch", Place: "move", Transport: "walk"})
		require.NoError(t, err)
		assert.Nil(t, slot.Hour)
	})

	t.Run("unresolvable rows", func(t *testing.T) {
		_, err := n.Normalize(types.PlanRow{Slot: "", Place: "move"})
		assert.True(t, errors.Is(err, types.ErrUnresolvableSlot))

		_, err = n.Normalize(types.PlanRow{Slot: "slot3", Place: " "})
		assert.True(t, errors.Is(err, types.ErrUnresolvableSlot))
	})
}

func TestNormalizeAllSkipsBadRows(t *testing.T) {
	n := NewNormalizer(testIndex(), poi.MatchExact, DefaultHourOffset, nil)
	slots := n.NormalizeAll([]types.PlanRow{
		{Slot: "start", Place: "Kyoto Station"},
		{Slot: "slot1", Place: "move", Transport: "walk"},
		{Slot: "slot2", Place: ""},
		{Slot: "slot3", Place: "Kiyomizu-dera Temple", Transport: "stay"},
		{Slot: "return", Place: "Kyoto Station"},
	})
	require.Len(t, slots, 4)
	assert.Equal(t, []string{"start", "slot1", "slot3", "return"},
		[]string{slots[0].Label, slots[1].Label, slots[2].Label, slots[3].Label})
}

func TestRowsFromTable(t *testing.T) {
	tbl, err := tabular.Parse(strings.NewReader("Solution,User,Slot,POI,Transport\n" +
		"Solution_1,User_1,start,Kyoto Station,stay\n" +
		"Solution_1,User_2,start,Kyoto Station,stay\n" +
		"Solution_1,User_1,slot1,move,walk\n"))
	require.NoError(t, err)

	rows, ok := RowsFromTable(tbl, "User_1")
	require.True(t, ok)
	require.Len(t, rows, 2)
	assert.Equal(t, types.PlanRow{User: "User_1", Slot: "slot1", Place: "move", Transport: "walk"}, rows[1])

	all, ok := RowsFromTable(tbl, "")
	require.True(t, ok)
	assert.Len(t, all, 3)

	bad, err := tabular.Parse(strings.NewReader("User,Slot\nUser_1,start\n"))
	require.NoError(t, err)
	_, ok = RowsFromTable(bad, "User_1")
	assert.False(t, ok)
}
