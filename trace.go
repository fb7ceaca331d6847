package main

import (
	"fmt"
	"io"

	"github.com/heathj/idbevent/event"
	"github.com/heathj/idbevent/idb"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type traceOptions struct {
	typ        string
	bubbles    bool
	cancelable bool
	stopAt     string
	immediate  bool
	cancelAt   string
}

func newTraceCmd() *cobra.Command {
	var opts traceOptions
	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Dispatch one event at a request inside a transaction and print every listener call",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(cmd.OutOrStdout(), opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.typ, "type", "t", string(event.Error), "event type")
	f.BoolVarP(&opts.bubbles, "bubbles", "b", true, "dispatch a bubbling event")
	f.BoolVar(&opts.cancelable, "cancelable", true, "dispatch a cancelable event")
	f.StringVar(&opts.stopAt, "stop-at", "", "object (db, tx, req) whose first listener stops propagation")
	f.BoolVar(&opts.immediate, "immediate", false, "stop immediate propagation instead")
	f.StringVar(&opts.cancelAt, "cancel", "", "object (db, tx, req) whose first listener cancels the event")
	return cmd
}

type node struct {
	name   string
	target event.Target
}

func runTrace(w io.Writer, opts traceOptions) error {
	typ := event.Type(opts.typ)
	if _, ok := event.SlotFor(typ); !ok {
		return errors.Errorf("unsupported event type %q", opts.typ)
	}

	db := idb.NewDatabase("trace", 1)
	tx := db.Transaction(idb.ModeReadWrite)
	req := tx.Request()
	nodes := []node{{"db", db}, {"tx", tx}, {"req", req}}

	slot, _ := event.SlotFor(typ)
	for _, n := range nodes {
		n := n
		controlled := false
		control := func(e *event.Event) {
			if controlled {
				return
			}
			controlled = true
			if n.name == opts.cancelAt {
				e.PreventDefault()
			}
			if n.name == opts.stopAt {
				if opts.immediate {
					e.StopImmediatePropagation()
				} else {
					e.StopPropagation()
				}
			}
		}
		for _, capture := range []bool{true, false} {
			kind := "bubble"
			if capture {
				kind = "capture"
			}
			n.target.AddEventListener(typ, event.NewEventListener(func(this event.Target, e *event.Event) error {
				fmt.Fprintf(w, "%-4s %-8s %s\n", n.name, kind, e.EventPhase)
				control(e)
				return nil
			}), capture)
		}
		if hs, ok := n.target.(event.HandlerSetter); ok {
			hs.SetEventHandler(slot, func(this event.Target, e *event.Event) error {
				fmt.Fprintf(w, "%-4s %-8s %s\n", n.name, slot, e.EventPhase)
				return nil
			})
		}
	}

	e := event.New(typ, event.Init{Bubbles: opts.bubbles, Cancelable: opts.cancelable})
	e.EventPath = []event.Target{db, tx}
	ok, err := req.DispatchEvent(e)
	if err != nil {
		return errors.Wrap(err, "dispatch")
	}
	fmt.Fprintf(w, "dispatch returned %t\n", ok)
	return nil
}
