package event

// Phase is the value of Event.EventPhase.
type Phase uint16

// https://dom.spec.whatwg.org/#dom-event-eventphase
const (
	None Phase = iota
	CapturingPhase
	AtTarget
	BubblingPhase
)

var phaseNames = [...]string{"none", "capturing", "at-target", "bubbling"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}
