// Package layout owns the persisted arrangement of widget instances on a
// workspace canvas.
//
// # Overview
//
// A [Layout] is the ordered list of [widget.Instance] values belonging to one
// workspace, tagged with a format version. The [Store] holds the single
// authoritative copy in memory, writes it asynchronously to a persistence
// [Port], and is the only component that adds or removes instances.
//
// # Wire Format
//
// Layouts travel in a JSON envelope:
//
//	{
//	  "layout": {
//	    "workspaceId": "home",
//	    "version": 2,
//	    "widgets": [
//	      {"instanceId": "...", "widgetId": "note", "x": 20, "y": 20,
//	       "width": 400, "height": 300, "settings": {"title": "todo"}}
//	    ]
//	  }
//	}
//
// The legacy grid format replaced x, y, width and height with a slot index
// and a size class:
//
//	{"instanceId": "...", "widgetId": "note", "position": 3, "size": "large"}
//
// Legacy documents are read-only: [Parse] detects them and [Migrate] converts
// them to freeform geometry. The store saves the migrated layout once, right
// after loading it, so the legacy shape is never written back.
//
// # Placement
//
// New instances are positioned by [FindPlacement], which scans a coarse grid
// row by row and falls back to stacking below the lowest instance.
//
// # Persistence
//
// [Store.Save] snapshots the layout synchronously and writes it in the
// background. Failed writes are logged and not retried; the in-memory layout
// stays authoritative. When several saves race, the most recent snapshot
// wins. [Store.Flush] waits for pending writes.
package layout
