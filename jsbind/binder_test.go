package jsbind

import (
	"testing"

	"github.com/dop251/goja"
	"github.com/heathj/idbevent/event"
	"github.com/heathj/idbevent/idb"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRuntime(t *testing.T) (*goja.Runtime, *Binder) {
	t.Helper()
	vm := goja.New()
	b := New(vm)
	require.NoError(t, b.InstallConstructors())
	return vm, b
}

func run(t *testing.T, vm *goja.Runtime, src string) goja.Value {
	t.Helper()
	v, err := vm.RunString(src)
	require.NoError(t, err)
	return v
}

func TestScriptListener(t *testing.T) {
	vm, b := newRuntime(t)
	target := &event.Object{}
	require.NoError(t, vm.Set("target", b.Bind(target)))

	v := run(t, vm, `
		var count = 0, self = null, phase = -1;
		function onEvent(e) {
			count++;
			self = this;
			phase = e.eventPhase;
		}
		target.addEventListener('success', onEvent);
		var result = target.dispatchEvent(new Event('success'));
		result && count === 1 && self === target && phase === 2;
	`)
	assert.True(t, v.ToBoolean())
	assert.Len(t, target.Listeners(), 1)
}

func TestScriptRemoveListener(t *testing.T) {
	vm, b := newRuntime(t)
	target := &event.Object{}
	require.NoError(t, vm.Set("target", b.Bind(target)))

	v := run(t, vm, `
		var count = 0;
		function handler() { count++; }
		target.addEventListener('complete', handler, true);
		target.addEventListener('complete', handler, {capture: true});
		target.dispatchEvent(new Event('complete'));
		target.removeEventListener('complete', handler);
		target.removeEventListener('complete', function() {}, true);
		target.dispatchEvent(new Event('complete'));
		target.removeEventListener('complete', handler, true);
		target.dispatchEvent(new Event('complete'));
		count;
	`)
	assert.EqualValues(t, 2, v.ToInteger())
	assert.Empty(t, target.Listeners())
}

func TestScriptHandlerProperty(t *testing.T) {
	vm, b := newRuntime(t)
	req := idb.NewRequest()
	require.NoError(t, vm.Set("req", b.Bind(req)))

	v := run(t, vm, `
		var result = null;
		function onsuccess(e) { result = e.type + ':' + (this === req); }
		req.onsuccess = onsuccess;
		req.oncomplete = onsuccess;
		req.onsuccess === onsuccess && req.oncomplete === null && req.onerror === null;
	`)
	assert.True(t, v.ToBoolean())
	require.NotNil(t, req.OnSuccess)

	ok, err := req.FireSuccess(1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "success:true", run(t, vm, "result").String())

	run(t, vm, "req.onsuccess = null")
	assert.Nil(t, req.OnSuccess)
}

func TestScriptPropagationThroughHierarchy(t *testing.T) {
	vm, b := newRuntime(t)
	db := idb.NewDatabase("library", 1)
	tx := db.Transaction(idb.ModeReadWrite)
	req := tx.Request()
	require.NoError(t, vm.Set("db", b.Bind(db)))
	require.NoError(t, vm.Set("tx", b.Bind(tx)))
	require.NoError(t, vm.Set("req", b.Bind(req)))

	run(t, vm, `
		var log = [];
		function rec(name) {
			return function(e) { log.push(name + ':' + e.eventPhase + ':' + (e.target === req)); };
		}
		db.addEventListener('error', rec('db-capture'), true);
		db.addEventListener('error', rec('db-bubble'));
		tx.onerror = rec('tx-onerror');
		req.onerror = function(e) { log.push('req'); e.preventDefault(); };
	`)

	ok, err := req.FireError(errors.New("constraint"))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, tx.Finished())
	assert.Equal(t,
		"db-capture:1:true,req,tx-onerror:3:true,db-bubble:3:true",
		run(t, vm, "log.join(',')").String())
}

func TestScriptReentrantDispatch(t *testing.T) {
	vm, b := newRuntime(t)
	target := &event.Object{}
	require.NoError(t, vm.Set("target", b.Bind(target)))

	v := run(t, vm, `
		var caught = '', same = false;
		var evt = new Event('abort');
		target.onabort = function(e) {
			same = e === evt;
			try {
				target.dispatchEvent(e);
			} catch (err) {
				caught = String(err);
			}
		};
		target.dispatchEvent(evt);
		same && evt.eventPhase === evt.NONE;
	`)
	assert.True(t, v.ToBoolean())
	assert.Contains(t, run(t, vm, "caught").String(), "InvalidStateError")
}

func TestScriptStopImmediatePropagation(t *testing.T) {
	vm, b := newRuntime(t)
	target := &event.Object{}
	require.NoError(t, vm.Set("target", b.Bind(target)))

	v := run(t, vm, `
		var calls = [];
		target.addEventListener('error', function(e) { calls.push(1); e.stopImmediatePropagation(); });
		target.addEventListener('error', function() { calls.push(2); });
		target.onerror = function() { calls.push(3); };
		var evt = new Event('error', {bubbles: true, cancelable: true});
		target.dispatchEvent(evt);
		calls.join(',') + '|' + evt.bubbles + '|' + evt.isTrusted;
	`)
	assert.Equal(t, "1|true|false", v.String())
}

func TestScriptExceptionPropagates(t *testing.T) {
	vm, b := newRuntime(t)
	req := idb.NewRequest()
	require.NoError(t, vm.Set("req", b.Bind(req)))
	run(t, vm, `req.onsuccess = function() { throw new Error('listener failed'); };`)

	_, err := req.FireSuccess(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listener failed")

	_, err = vm.RunString(`req.dispatchEvent(new Event('success'))`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listener failed")
}

func TestScriptVersionChange(t *testing.T) {
	vm, b := newRuntime(t)
	db := idb.NewDatabase("library", 1)
	require.NoError(t, vm.Set("db", b.Bind(db)))
	run(t, vm, `
		var versions = '';
		db.onversionchange = function(e) { versions = e.oldVersion + '->' + e.newVersion; };
	`)

	_, err := db.FireVersionChange(1, 0)
	require.NoError(t, err)
	assert.Equal(t, "1->null", run(t, vm, "versions").String())
}

func TestDispatchEventRejectsNonEvents(t *testing.T) {
	vm, b := newRuntime(t)
	require.NoError(t, vm.Set("target", b.Bind(&event.Object{})))

	_, err := vm.RunString(`target.dispatchEvent({type: 'success'})`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TypeError")

	_, err = vm.RunString(`new Event()`)
	require.Error(t, err)
}

func TestGoDispatchSharesEventObject(t *testing.T) {
	vm, b := newRuntime(t)
	db := idb.NewDatabase("library", 1)
	tx := db.Transaction(idb.ModeReadWrite)
	req := tx.Request()
	require.NoError(t, vm.Set("db", b.Bind(db)))
	require.NoError(t, vm.Set("tx", b.Bind(tx)))
	require.NoError(t, vm.Set("req", b.Bind(req)))

	run(t, vm, `
		var first = null, seen = [];
		db.addEventListener('error', function(e) { first = e; e.tag = 'db'; }, true);
		req.onerror = function(e) { seen.push((e === first) + ':' + e.tag); };
		tx.addEventListener('error', function(e) { seen.push((e === first) + ':' + e.tag); e.preventDefault(); });
	`)

	ok, err := req.FireError(errors.New("constraint"))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "true:db,true:db", run(t, vm, "seen.join(',')").String())

	b.Wrap(event.New(event.Success, event.Init{}))
	assert.Empty(t, b.inflight)
}

func TestHandlerPropertyAfterGoReplacesIt(t *testing.T) {
	vm, b := newRuntime(t)
	req := idb.NewRequest()
	require.NoError(t, vm.Set("req", b.Bind(req)))

	run(t, vm, `
		var scriptCalls = 0;
		function f() { scriptCalls++; }
		req.onsuccess = f;
	`)
	assert.True(t, run(t, vm, "req.onsuccess === f").ToBoolean())

	goCalls := 0
	req.OnSuccess = func(event.Target, *event.Event) error {
		goCalls++
		return nil
	}
	assert.True(t, run(t, vm, "req.onsuccess === null").ToBoolean())

	_, err := req.FireSuccess(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, goCalls)
	assert.EqualValues(t, 0, run(t, vm, "scriptCalls").ToInteger())

	assert.True(t, run(t, vm, "req.onsuccess = f; req.onsuccess === f").ToBoolean())
}

func TestListenerIdentitiesReleased(t *testing.T) {
	vm, b := newRuntime(t)
	require.NoError(t, vm.Set("a", b.Bind(&event.Object{})))
	require.NoError(t, vm.Set("c", b.Bind(&event.Object{})))

	run(t, vm, `
		function h() {}
		a.addEventListener('success', h);
		a.addEventListener('success', h);
		a.addEventListener('error', h, true);
		c.addEventListener('success', h);
		a.removeEventListener('success', function() {});
	`)
	assert.Len(t, b.funcs, 1)
	assert.Equal(t, 3, b.funcs[vm.Get("h").ToObject(vm)].refs)

	run(t, vm, `a.removeEventListener('success', h); a.removeEventListener('error', h, true);`)
	assert.Len(t, b.funcs, 1)

	run(t, vm, `c.removeEventListener('success', h); c.removeEventListener('success', h);`)
	assert.Empty(t, b.funcs)

	run(t, vm, `c.addEventListener('success', h);`)
	assert.Len(t, b.funcs, 1)
}
