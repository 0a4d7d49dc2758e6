// Package components defines ECS components for the simulation.
package components

// Kind tags which species variant an entity is.
type Kind uint8

const (
	KindNone Kind = iota
	KindGrazer
	KindGroundCover
	KindWoody
	KindBlaze
)

// NumKinds is the number of kind values including KindNone.
const NumKinds = 5

// Kinds lists the species variants in creation order.
var Kinds = [...]Kind{KindGrazer, KindGroundCover, KindWoody, KindBlaze}

// String returns the snake_case species name.
func (k Kind) String() string {
	switch k {
	case KindGrazer:
		return "grazer"
	case KindGroundCover:
		return "ground_cover"
	case KindWoody:
		return "woody"
	case KindBlaze:
		return "blaze"
	default:
		return "none"
	}
}

// IsPlant reports whether entities of this kind live in a cell's plant list.
func (k Kind) IsPlant() bool {
	return k == KindGroundCover || k == KindWoody
}

// IsOccupant reports whether entities of this kind take a cell's single
// animal/fire slot.
func (k Kind) IsOccupant() bool {
	return k == KindGrazer || k == KindBlaze
}

// Position is a grid coordinate.
type Position struct {
	Row, Col int
}

// Cause records why an entity died.
type Cause uint8

const (
	CauseNone        Cause = iota
	CauseStarvation        // grazer health reached zero
	CauseOvercrowding      // grazer had nowhere to move
	CauseEaten             // plant consumed by a grazer
	CauseBurned            // plant killed by a blaze
	CauseDisplaced         // ground cover pushed out by a woody seedling
	CauseRejected          // plant could not be placed into a full cell
	CauseBurnout           // blaze had nowhere to move
)

// NumCauses is the number of cause values including CauseNone.
const NumCauses = 8

// String returns the snake_case cause name.
func (c Cause) String() string {
	switch c {
	case CauseStarvation:
		return "starvation"
	case CauseOvercrowding:
		return "overcrowding"
	case CauseEaten:
		return "eaten"
	case CauseBurned:
		return "burned"
	case CauseDisplaced:
		return "displaced"
	case CauseRejected:
		return "rejected"
	case CauseBurnout:
		return "burnout"
	default:
		return "none"
	}
}
