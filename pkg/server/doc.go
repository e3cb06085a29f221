// Package server keeps one upgraded document live over HTTP and WebSocket.
//
// Routes:
//
//	GET /          the current document as HTML
//	GET /ws        WebSocket: clients send commands, receive patches
//	GET /state/{id} the property values of one element as JSON
//	GET /healthz   liveness
//	GET /metrics   Prometheus metrics, when configured
//
// Clients send JSON commands:
//
//	{"op": "setAttr", "target": "counter", "name": "step", "value": "2"}
//	{"op": "removeAttr", "target": "toggle", "name": "enabled"}
//	{"op": "setProp", "target": "counter", "name": "count", "value": 5}
//
// Every render of a reactive element is broadcast to all clients as a
// "patches" message, even when the render changed nothing. A command that
// changes the document without a render, such as an attribute on a plain
// element, is followed by an "update" message carrying the target's HTML.
// Commands are applied one at a time under a single document lock.
package server
