// Package host declares the surface the engine needs from its rendering
// environment: a mutable node store and a frame clock. The engine never
// inspects handles, it only threads them back into the renderer.
package host

import "time"

// Handle is an opaque reference to a host-renderer object (an element or
// a text node). Each handle is owned by exactly one render node.
type Handle any

type Renderer interface {
	CreateElement(tag string) Handle
	CreateTextNode(text string) Handle
	SetAttribute(node Handle, key string, value any)
	SetText(node Handle, text string)
	AppendChild(parent, child Handle)
	RemoveChild(parent, child Handle)
	ReplaceChild(parent, oldChild, newChild Handle)
}

// FrameClock drives the cooperative scheduler. RequestFrame registers fn
// to run once before the next repaint with a fresh timestamp; callbacks
// never overlap.
type FrameClock interface {
	Now() time.Time
	RequestFrame(fn func(now time.Time))
}
