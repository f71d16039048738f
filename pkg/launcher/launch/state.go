package launch

import "fmt"

// State tracks a launch request from submission to a terminal outcome
type State int

const (
	StateIdle State = iota
	StateResolvingVersion
	StatePlanningLibraries
	StateAcquiringAssets
	StateVerifyingAssetIndex
	StateProvisioningRuntime
	StateLaunching
	StateRunning
	StateExited
	StateCrashed
	StateSpawnFailed
)

var stateNames = map[State]string{
	StateIdle:                "Idle",
	StateResolvingVersion:    "ResolvingVersion",
	StatePlanningLibraries:   "PlanningLibraries",
	StateAcquiringAssets:     "AcquiringAssets",
	StateVerifyingAssetIndex: "VerifyingAssetIndex",
	StateProvisioningRuntime: "ProvisioningRuntime",
	StateLaunching:           "Launching",
	StateRunning:             "Running",
	StateExited:              "Exited",
	StateCrashed:             "Crashed",
	StateSpawnFailed:         "SpawnFailed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal reports whether the session can transition no further
func (s State) Terminal() bool {
	return s == StateExited || s == StateCrashed || s == StateSpawnFailed
}
