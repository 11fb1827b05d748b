package ai

// Config carries the tuning knobs of one unit's controller. The values
// come from the config layer at construction time; the tick loop never
// reads configuration sources directly.
type Config struct {
	TickRate            int     // simulation ticks per second
	DetectionRadius     float64 // how far targets are acquired
	MaxChaseDistance    float64 // leash length from the aggro origin
	RetreatEnabled      bool
	RetreatThresholdPct float64 // retreat at or below this health percentage

	Kiter   KiterConfig
	Support SupportConfig
}

// KiterConfig tunes the ranged/kiting archetype.
type KiterConfig struct {
	PreferredDistance float64 // sweet-spot engagement range
	MinSafeDistance   float64 // closer than this forces a fallback
	RetreatSpeedScale float64 // speed multiplier while kiting away
}

// SupportConfig tunes the healer archetype.
type SupportConfig struct {
	HealThreshold       float64 // heal allies below this health fraction
	HealAmount          float64 // health restored per application
	DangerRadius        float64 // hostiles inside it push the healer away
	RetreatThresholdPct float64 // healers break off earlier than the line
}

// DefaultConfig returns a workable baseline. The application root
// overrides it from the loaded configuration.
func DefaultConfig() Config {
	return Config{
		TickRate:            60,
		DetectionRadius:     30,
		MaxChaseDistance:    40,
		RetreatEnabled:      true,
		RetreatThresholdPct: 20,
		Kiter: KiterConfig{
			PreferredDistance: 12,
			MinSafeDistance:   6,
			RetreatSpeedScale: 1.5,
		},
		Support: SupportConfig{
			HealThreshold:       0.8,
			HealAmount:          5,
			DangerRadius:        8,
			RetreatThresholdPct: 50,
		},
	}
}

// arrivalTolerance is how close a unit must get to a forced-move
// destination or its aggro origin to count as arrived.
const arrivalTolerance = 3.0
