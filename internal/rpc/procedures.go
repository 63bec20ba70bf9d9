package rpc

// ServiceName is the fully-qualified name of the timer service.
const ServiceName = "pomodoro.timer.v1.TimerService"

const (
	GetStateProcedure    = "/" + ServiceName + "/GetState"
	StartTimerProcedure  = "/" + ServiceName + "/StartTimer"
	PauseTimerProcedure  = "/" + ServiceName + "/PauseTimer"
	ResumeTimerProcedure = "/" + ServiceName + "/ResumeTimer"
	ClearTimerProcedure  = "/" + ServiceName + "/ClearTimer"
	SetPhaseProcedure    = "/" + ServiceName + "/SetPhase"
)

// Empty is the request body of parameterless procedures.
type Empty struct{}

// SetPhaseRequest selects the phase to switch to.
type SetPhaseRequest struct {
	Phase string `json:"phase"`
}
