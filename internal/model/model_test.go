package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupByEvent_FirstSeenOrder(t *testing.T) {
	regs := []Registration{
		{ID: 1, EventID: 7, EventName: "Fest", Name: "a"},
		{ID: 2, EventID: 3, EventName: "Talk", Name: "b"},
		{ID: 3, EventID: 7, EventName: "Fest", Name: "c"},
		{ID: 4, EventID: 9, EventName: "Meet", Name: "d"},
		{ID: 5, EventID: 3, EventName: "Talk", Name: "e"},
	}

	groups := GroupByEvent(regs)
	require.Len(t, groups, 3)

	assert.Equal(t, 7, groups[0].EventID)
	assert.Equal(t, 3, groups[1].EventID)
	assert.Equal(t, 9, groups[2].EventID)

	var names []string
	for _, r := range groups[0].Registrations {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"a", "c"}, names)
	assert.Len(t, groups[1].Registrations, 2)
}

func TestGroupByEvent_Empty(t *testing.T) {
	groups := GroupByEvent(nil)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestCountByEvent(t *testing.T) {
	counts := CountByEvent([]Registration{{EventID: 1}, {EventID: 1}, {EventID: 2}})
	assert.Equal(t, 2, counts[1])
	assert.Equal(t, 1, counts[2])
	assert.Equal(t, 0, counts[3])
}
