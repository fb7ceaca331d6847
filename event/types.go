package event

import "github.com/heathj/idbevent/webidl"

// Type is the name of an event.
type Type webidl.DOMString

// The events fired by the database object model.
const (
	Abort         Type = "abort"
	Blocked       Type = "blocked"
	Complete      Type = "complete"
	Error         Type = "error"
	Success       Type = "success"
	UpgradeNeeded Type = "upgradeneeded"
	VersionChange Type = "versionchange"
)

// Slot names one legacy handler property such as onsuccess.
type Slot uint8

const (
	OnAbort Slot = iota
	OnBlocked
	OnComplete
	OnError
	OnSuccess
	OnUpgradeNeeded
	OnVersionChange
)

// Slots lists every handler slot in declaration order.
var Slots = []Slot{OnAbort, OnBlocked, OnComplete, OnError, OnSuccess, OnUpgradeNeeded, OnVersionChange}

var slotNames = [...]string{
	"onabort",
	"onblocked",
	"oncomplete",
	"onerror",
	"onsuccess",
	"onupgradeneeded",
	"onversionchange",
}

func (s Slot) String() string {
	if int(s) < len(slotNames) {
		return slotNames[s]
	}
	return "on?"
}

var typeToSlot = map[Type]Slot{
	Abort:         OnAbort,
	Blocked:       OnBlocked,
	Complete:      OnComplete,
	Error:         OnError,
	Success:       OnSuccess,
	UpgradeNeeded: OnUpgradeNeeded,
	VersionChange: OnVersionChange,
}

// SlotFor returns the handler slot for t. ok is false for types outside the
// enumeration.
func SlotFor(t Type) (s Slot, ok bool) {
	s, ok = typeToSlot[t]
	return
}
