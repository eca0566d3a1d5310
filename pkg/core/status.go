package core

// Stage identifies one step of the per-request resolution state machine.
// Transitions are strictly forward; no stage is revisited within one request.
type Stage int

// Resolution stages, in pipeline order.
const (
	StageDirect Stage = iota
	StageScroll
	StageSurfaceSwitch
	StageCacheLookup
	StageHealGenerate
	StageHealValidate
)

// String returns the string representation of Stage.
func (s Stage) String() string {
	switch s {
	case StageDirect:
		return "direct"
	case StageScroll:
		return "scroll"
	case StageSurfaceSwitch:
		return "surface_switch"
	case StageCacheLookup:
		return "cache_lookup"
	case StageHealGenerate:
		return "heal_generate"
	case StageHealValidate:
		return "heal_validate"
	default:
		return "unknown"
	}
}
