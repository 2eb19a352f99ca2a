// Package event defines the three leaf variants of the fault-tree model —
// BasicEvent, HouseEvent, and UndefinedEvent — each embedding node.Base for
// its Name and parent back-references.
//
// UndefinedEvent is the placeholder a lenient construction flow creates for
// a name a gate referenced but that was never declared; it carries nothing
// but a name and its parent set.
package event
