// Package events carries store change notifications from the database
// listener to whoever needs to react, currently the realtime hub.
//
// The primary components are:
// - ChangeEvent: one kind of data changed in one store
// - EventHandler: interface for components that can handle events
// - EventEmitter: interface for components that can emit events
package events
