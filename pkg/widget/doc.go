// Package widget defines widget descriptors, widget instances and the
// registry that ties them together.
//
// A [Descriptor] is the immutable catalog entry of a widget type: its display
// metadata, allowed size classes and settings schema. An [Instance] is one
// placed occurrence of a widget type on a workspace canvas. Instances
// reference their descriptor by WidgetID and own their Settings map
// exclusively.
//
// # Registry
//
// Widget types are added by registering a descriptor together with a
// [Factory] that builds the widget body. There is no central switch over
// widget ids:
//
//	reg := widget.NewRegistry()
//	reg.MustRegister(widget.Descriptor{
//	    ID:          "note",
//	    Name:        "Note",
//	    Sizes:       []widget.SizeClass{widget.SizeSmall, widget.SizeMedium},
//	    DefaultSize: widget.SizeSmall,
//	}, newNoteBody)
//
//	inst, err := reg.CreateInstance("note")
//
// CreateInstance generates a fresh InstanceID, copies the descriptor's
// default settings and leaves the geometry unplaced. Package layout assigns
// the position.
//
// Descriptors can also be loaded from a YAML catalog with [LoadCatalog]; each
// catalog entry reuses the body factory of an already registered widget.
package widget
