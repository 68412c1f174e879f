package systm

// HeartRateZone is one band of the derived heart rate training zones.
// Max is nil for the open-ended top zone.
type HeartRateZone struct {
	Zone int    `json:"zone"`
	Name string `json:"name"`
	Min  int    `json:"min"`
	Max  *int   `json:"max"`
}

// HeartRateZones derives the five training zones from a lactate threshold
// heart rate, matching the athlete profile UI ranges:
//   - Z1 Recovery: < 70%
//   - Z2 Endurance: 70-87%
//   - Z3 Tempo: 88-95%
//   - Z4 Threshold: 96-100%
//   - Z5 Max: > 100%
//
// Returns an empty slice for lthr <= 0 (no threshold known).
func HeartRateZones(lthr float64) []HeartRateZone {
	if lthr <= 0 {
		return []HeartRateZone{}
	}

	minEndurance := int(lthr * 0.70)
	maxEndurance := int(lthr*0.87) + 1
	minTempo := int(lthr * 0.88)
	maxTempo := int(lthr * 0.95)
	minThreshold := int(lthr * 0.96)
	maxThreshold := int(lthr * 1.00)

	recoveryMax := minEndurance - 1
	if recoveryMax < 0 {
		recoveryMax = 0
	}

	return []HeartRateZone{
		{Zone: 1, Name: "Recovery", Min: 0, Max: intPtr(recoveryMax)},
		{Zone: 2, Name: "Endurance", Min: minEndurance + 1, Max: intPtr(maxEndurance)},
		{Zone: 3, Name: "Tempo", Min: minTempo, Max: intPtr(maxTempo)},
		{Zone: 4, Name: "Threshold", Min: minThreshold, Max: intPtr(maxThreshold)},
		{Zone: 5, Name: "Max", Min: maxThreshold + 1, Max: nil},
	}
}

func intPtr(v int) *int {
	return &v
}
