package systm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeartRateZones(t *testing.T) {
	zones := HeartRateZones(165)
	require.Len(t, zones, 5)

	assert.Equal(t, HeartRateZone{Zone: 1, Name: "Recovery", Min: 0, Max: intPtr(114)}, zones[0])
	assert.Equal(t, HeartRateZone{Zone: 2, Name: "Endurance", Min: 116, Max: intPtr(144)}, zones[1])
	assert.Equal(t, HeartRateZone{Zone: 3, Name: "Tempo", Min: 145, Max: intPtr(156)}, zones[2])
	assert.Equal(t, HeartRateZone{Zone: 4, Name: "Threshold", Min: 158, Max: intPtr(165)}, zones[3])
	assert.Equal(t, HeartRateZone{Zone: 5, Name: "Max", Min: 166, Max: (*int)(nil)}, zones[4])
}

func TestHeartRateZones_ordering(t *testing.T) {
	// zone bands must stay ordered across a realistic threshold range;
	// adjacent bands may touch (the percentages round to the same beat at
	// lower thresholds) but never invert
	for lthr := 120; lthr <= 210; lthr++ {
		zones := HeartRateZones(float64(lthr))
		require.Len(t, zones, 5)

		for i := 1; i < len(zones); i++ {
			prev, cur := zones[i-1], zones[i]
			require.NotNil(t, prev.Max, "lthr %d zone %d", lthr, prev.Zone)
			assert.LessOrEqual(t, prev.Min, *prev.Max, "lthr %d zone %d", lthr, prev.Zone)
			assert.GreaterOrEqual(t, cur.Min, *prev.Max,
				"lthr %d: zone %d min %d below zone %d max %d",
				lthr, cur.Zone, cur.Min, prev.Zone, *prev.Max)
		}
		assert.Nil(t, zones[4].Max, "top zone is open ended")
	}
}

func TestHeartRateZones_noThreshold(t *testing.T) {
	assert.Empty(t, HeartRateZones(0))
	assert.Empty(t, HeartRateZones(-10))
}
