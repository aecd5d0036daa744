// Package canvas is the layout and interaction engine of the design surface.
//
// LayoutStore owns the placed instances and the grid, guide and viewport
// configuration, and is the only place they change. SelectionModel tracks
// what is selected. InteractionController converts pointer gestures into
// constrained LayoutStore writes, one session at a time, gated by the
// Surface pointer capture.
//
// Geometry is never rejected: out-of-range positions and sizes are clamped,
// operations on unknown ids are ignored, and persistence failures are
// logged while the in-memory state stays authoritative.
package canvas
