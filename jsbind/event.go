package jsbind

import (
	"github.com/dop251/goja"
	"github.com/heathj/idbevent/event"
	"github.com/heathj/idbevent/idb"
)

const eventKey = "__event"

// InstallConstructors defines the global Event constructor.
func (b *Binder) InstallConstructors() error {
	return b.vm.Set("Event", func(call goja.ConstructorCall) *goja.Object {
		if len(call.Arguments) < 1 {
			panic(b.vm.NewTypeError("Failed to construct 'Event': 1 argument required, but only 0 present."))
		}
		init := event.Init{}
		if opts, ok := call.Argument(1).(*goja.Object); ok {
			init.Bubbles = boolProp(opts, "bubbles")
			init.Cancelable = boolProp(opts, "cancelable")
		}
		return b.Wrap(event.New(event.Type(call.Argument(0).String()), init))
	})
}

func boolProp(obj *goja.Object, name string) bool {
	v := obj.Get(name)
	return v != nil && v.ToBoolean()
}

// Unwrap returns the event behind a script value made by Wrap, or nil.
func Unwrap(v goja.Value) *event.Event {
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil
	}
	inner := obj.Get(eventKey)
	if inner == nil {
		return nil
	}
	e, _ := inner.Export().(*event.Event)
	return e
}

// Wrap returns a script object whose properties read e live.
func (b *Binder) Wrap(e *event.Event) *goja.Object {
	if obj, ok := b.live[e]; ok {
		return obj
	}
	b.sweep()
	if obj, ok := b.inflight[e]; ok {
		return obj
	}
	obj := b.newEventObject(e)
	if e.Dispatched {
		b.inflight[e] = obj
	}
	return obj
}

// sweep drops the wrappers of Go dispatches that have finished.
func (b *Binder) sweep() {
	for e := range b.inflight {
		if !e.Dispatched {
			delete(b.inflight, e)
		}
	}
}

func (b *Binder) newEventObject(e *event.Event) *goja.Object {
	vm := b.vm
	obj := vm.NewObject()
	obj.DefineDataProperty(eventKey, vm.ToValue(e), goja.FLAG_FALSE, goja.FLAG_FALSE, goja.FLAG_FALSE)

	b.readOnly(obj, "type", func() goja.Value { return vm.ToValue(string(e.Type)) })
	b.readOnly(obj, "bubbles", func() goja.Value { return vm.ToValue(e.Bubbles) })
	b.readOnly(obj, "cancelable", func() goja.Value { return vm.ToValue(e.Cancelable) })
	b.readOnly(obj, "defaultPrevented", func() goja.Value { return vm.ToValue(e.Canceled) })
	b.readOnly(obj, "eventPhase", func() goja.Value { return vm.ToValue(int(e.EventPhase)) })
	b.readOnly(obj, "isTrusted", func() goja.Value { return vm.ToValue(e.IsTrusted) })
	b.readOnly(obj, "timeStamp", func() goja.Value { return vm.ToValue(int64(e.TimeStamp)) })
	b.readOnly(obj, "target", func() goja.Value { return b.targetValue(e.Target) })
	b.readOnly(obj, "currentTarget", func() goja.Value { return b.targetValue(e.CurrentTarget) })

	if vc, ok := idb.VersionChangeOf(e); ok {
		obj.Set("oldVersion", vc.OldVersion)
		if vc.NewVersion == 0 {
			obj.Set("newVersion", goja.Null())
		} else {
			obj.Set("newVersion", vc.NewVersion)
		}
	}

	obj.Set("NONE", int(event.None))
	obj.Set("CAPTURING_PHASE", int(event.CapturingPhase))
	obj.Set("AT_TARGET", int(event.AtTarget))
	obj.Set("BUBBLING_PHASE", int(event.BubblingPhase))

	obj.Set("preventDefault", func(goja.FunctionCall) goja.Value {
		e.PreventDefault()
		return goja.Undefined()
	})
	obj.Set("stopPropagation", func(goja.FunctionCall) goja.Value {
		e.StopPropagation()
		return goja.Undefined()
	})
	obj.Set("stopImmediatePropagation", func(goja.FunctionCall) goja.Value {
		e.StopImmediatePropagation()
		return goja.Undefined()
	})
	return obj
}

func (b *Binder) readOnly(obj *goja.Object, name string, get func() goja.Value) {
	getter := b.vm.ToValue(func(goja.FunctionCall) goja.Value { return get() })
	obj.DefineAccessorProperty(name, getter, nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
}

func (b *Binder) targetValue(t event.Target) goja.Value {
	if t == nil {
		return goja.Null()
	}
	return b.Bind(t)
}
