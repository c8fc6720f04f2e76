package vmtypes

// Revision names an ordered feature set of opcodes and gas rules,
// modeled on the Ethereum hard-fork lineage plus the Aion forks.
type Revision int32

const (
	Frontier         Revision = 0
	Homestead        Revision = 1
	TangerineWhistle Revision = 2
	SpuriousDragon   Revision = 3
	Byzantium        Revision = 4
	Aion             Revision = 5
	Constantinople   Revision = 6
	AionV1           Revision = 7

	// LatestRevision is the newest revision this module implements.
	LatestRevision = AionV1
)

func (r Revision) String() string {
	switch r {
	case Frontier:
		return "Frontier"
	case Homestead:
		return "Homestead"
	case TangerineWhistle:
		return "TangerineWhistle"
	case SpuriousDragon:
		return "SpuriousDragon"
	case Byzantium:
		return "Byzantium"
	case Aion:
		return "Aion"
	case Constantinople:
		return "Constantinople"
	case AionV1:
		return "AionV1"
	}
	return "Unknown"
}

// Supported reports whether the engine implements this revision.
func (r Revision) Supported() bool {
	return r >= Frontier && r <= LatestRevision
}
