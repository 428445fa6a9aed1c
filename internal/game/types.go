package game

// --- Enums ---

// Direction is one of the eight compass directions a unit can move.
type Direction int

const (
	DirectionN Direction = iota
	DirectionNE
	DirectionE
	DirectionSE
	DirectionS
	DirectionSW
	DirectionW
	DirectionNW
)

// AllDirections lists the directions in clockwise order from north.
var AllDirections = []Direction{
	DirectionN, DirectionNE, DirectionE, DirectionSE,
	DirectionS, DirectionSW, DirectionW, DirectionNW,
}

func (d Direction) String() string {
	switch d {
	case DirectionN:
		return "N"
	case DirectionNE:
		return "NE"
	case DirectionE:
		return "E"
	case DirectionSE:
		return "SE"
	case DirectionS:
		return "S"
	case DirectionSW:
		return "SW"
	case DirectionW:
		return "W"
	case DirectionNW:
		return "NW"
	default:
		return "?"
	}
}

// Step returns the map offset for one move in this direction. North
// decreases y.
func (d Direction) Step() (dx, dy int) {
	switch d {
	case DirectionN:
		return 0, -1
	case DirectionNE:
		return 1, -1
	case DirectionE:
		return 1, 0
	case DirectionSE:
		return 1, 1
	case DirectionS:
		return 0, 1
	case DirectionSW:
		return -1, 1
	case DirectionW:
		return -1, 0
	case DirectionNW:
		return -1, -1
	default:
		return 0, 0
	}
}

// ParseDirection returns the direction named by s, or false.
func ParseDirection(s string) (Direction, bool) {
	for _, d := range AllDirections {
		if d.String() == s {
			return d, true
		}
	}
	return DirectionN, false
}

// Nation identifies which colonial power a player plays.
type Nation int

const (
	NationNone Nation = iota
	NationDutch
	NationEnglish
	NationFrench
	NationSpanish
)

func (n Nation) String() string {
	switch n {
	case NationDutch:
		return "dutch"
	case NationEnglish:
		return "english"
	case NationFrench:
		return "french"
	case NationSpanish:
		return "spanish"
	default:
		return "none"
	}
}

// ParseNation returns the nation named by s, or NationNone.
func ParseNation(s string) Nation {
	switch s {
	case "dutch":
		return NationDutch
	case "english":
		return NationEnglish
	case "french":
		return NationFrench
	case "spanish":
		return NationSpanish
	default:
		return NationNone
	}
}

// Terrain classifies a map tile.
type Terrain int

const (
	TerrainUnknown Terrain = iota
	TerrainPlains
	TerrainForest
	TerrainMountains
	TerrainSwamp
	TerrainTundra
	TerrainOcean
)

func (t Terrain) String() string {
	switch t {
	case TerrainPlains:
		return "plains"
	case TerrainForest:
		return "forest"
	case TerrainMountains:
		return "mountains"
	case TerrainSwamp:
		return "swamp"
	case TerrainTundra:
		return "tundra"
	case TerrainOcean:
		return "ocean"
	default:
		return "unknown"
	}
}

// ParseTerrain returns the terrain named by s, or TerrainUnknown.
func ParseTerrain(s string) Terrain {
	switch s {
	case "plains":
		return TerrainPlains
	case "forest":
		return TerrainForest
	case "mountains":
		return TerrainMountains
	case "swamp":
		return TerrainSwamp
	case "tundra":
		return TerrainTundra
	case "ocean":
		return TerrainOcean
	default:
		return TerrainUnknown
	}
}
