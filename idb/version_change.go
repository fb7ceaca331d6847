package idb

import "github.com/heathj/idbevent/event"

// VersionChange is the payload of versionchange, upgradeneeded and blocked
// events. NewVersion is zero when the database is being deleted.
//
// https://w3c.github.io/IndexedDB/#events
type VersionChange struct {
	OldVersion uint64
	NewVersion uint64
}

func newVersionChangeEvent(t event.Type, oldVersion, newVersion uint64) *event.Event {
	return event.New(t, event.Init{Detail: VersionChange{OldVersion: oldVersion, NewVersion: newVersion}})
}

// VersionChangeOf returns the version change carried by e.
func VersionChangeOf(e *event.Event) (VersionChange, bool) {
	vc, ok := e.Detail.(VersionChange)
	return vc, ok
}
