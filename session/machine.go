package session

// State names one point in the sync dialogue (§4.G).
type State uint8

const (
	StateIdle State = iota
	StateHelloDevice
	StateIdentify
	StateAuthCheck
	StateAuthenticating
	StateFetchLog
	StateFetchAnchor
	StateSetAnchor
	StateResetLog
	StateSendKindStart
	StateSchema
	StateFetchChanges
	StateReconcile
	StateApplyDeletes
	StateApplyMods
	StateApplyAdds
	StateKindDone
	StateIdentify2
	StateTerminate
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateHelloDevice:
		return "HelloDevice"
	case StateIdentify:
		return "Identify"
	case StateAuthCheck:
		return "AuthCheck"
	case StateAuthenticating:
		return "Authenticating"
	case StateFetchLog:
		return "FetchLog"
	case StateFetchAnchor:
		return "FetchAnchor"
	case StateSetAnchor:
		return "SetAnchor"
	case StateResetLog:
		return "ResetLog"
	case StateSendKindStart:
		return "SendKindStart"
	case StateSchema:
		return "Schema"
	case StateFetchChanges:
		return "FetchChanges"
	case StateReconcile:
		return "Reconcile"
	case StateApplyDeletes:
		return "ApplyDeletes"
	case StateApplyMods:
		return "ApplyMods"
	case StateApplyAdds:
		return "ApplyAdds"
	case StateKindDone:
		return "KindDone"
	case StateIdentify2:
		return "Identify2"
	case StateTerminate:
		return "Terminate"
	case StateDone:
		return "Done"
	case StateFailed:
		return "Failed"
	default:
		return "State(?)"
	}
}
