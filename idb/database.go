package idb

import (
	"github.com/heathj/idbevent/event"
	"github.com/sirupsen/logrus"
)

// https://w3c.github.io/IndexedDB/#database-interface
type Database struct {
	event.EventTarget

	Name    string
	Version uint64

	OnAbort         event.Callback
	OnError         event.Callback
	OnVersionChange event.Callback
}

func NewDatabase(name string, version uint64) *Database {
	return &Database{Name: name, Version: version}
}

func (db *Database) slot(s event.Slot) *event.Callback {
	switch s {
	case event.OnAbort:
		return &db.OnAbort
	case event.OnError:
		return &db.OnError
	case event.OnVersionChange:
		return &db.OnVersionChange
	}
	return nil
}

func (db *Database) EventHandler(s event.Slot) event.Callback { return getSlot(db.slot(s)) }

func (db *Database) SetEventHandler(s event.Slot, cb event.Callback) bool {
	return setSlot(db.slot(s), cb)
}

func (db *Database) DispatchEvent(e *event.Event) (bool, error) {
	return event.Dispatch(db, e)
}

// Transaction starts a transaction against db.
func (db *Database) Transaction(mode Mode) *Transaction {
	return &Transaction{DB: db, Mode: mode}
}

// FireVersionChange tells an open connection that another connection wants
// to move the database to newVersion.
func (db *Database) FireVersionChange(oldVersion, newVersion uint64) (bool, error) {
	event.Logger().WithFields(logrus.Fields{"db": db.Name, "old": oldVersion, "new": newVersion}).Debug("firing versionchange")
	return db.DispatchEvent(newVersionChangeEvent(event.VersionChange, oldVersion, newVersion))
}
