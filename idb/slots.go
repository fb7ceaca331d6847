package idb

import "github.com/heathj/idbevent/event"

func getSlot(p *event.Callback) event.Callback {
	if p == nil {
		return nil
	}
	return *p
}

func setSlot(p *event.Callback, cb event.Callback) bool {
	if p == nil {
		return false
	}
	*p = cb
	return true
}
