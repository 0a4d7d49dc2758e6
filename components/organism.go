package components

// Organism holds the state shared by every species variant.
type Organism struct {
	ID       uint32
	Kind     Kind
	Alive    bool
	BornTurn int
	Cause    Cause // set once Alive is false
}

// Grazer is the payload of grazing animals.
type Grazer struct {
	Health int // dies at <= 0
	Cycle  int // breeding-cycle counter, advanced once per turn
}

// Flora is the payload of both plant variants.
type Flora struct {
	Age int
}
