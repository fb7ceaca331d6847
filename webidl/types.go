package webidl

import "time"

// https://webidl.spec.whatwg.org/#idl-DOMString
type DOMString string

// https://w3c.github.io/hr-time/#dom-domhighrestimestamp
type DOMHighResTimeStamp uint64

// Now is the current wall clock in milliseconds.
func Now() DOMHighResTimeStamp {
	return DOMHighResTimeStamp(time.Now().UnixMilli())
}
