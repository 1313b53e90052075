package widget

import (
	"github.com/matzehuels/freeboard/pkg/geom"
)

// Instance is a placed occurrence of a widget type on a workspace canvas.
//
// Geometry belongs to the layout engine. Settings belong to the widget body,
// which writes them back through the layout store.
type Instance struct {
	InstanceID string         `json:"instanceId" bson:"instance_id"`
	WidgetID   string         `json:"widgetId" bson:"widget_id"`
	X          int            `json:"x" bson:"x"`
	Y          int            `json:"y" bson:"y"`
	Width      int            `json:"width" bson:"width"`
	Height     int            `json:"height" bson:"height"`
	Settings   map[string]any `json:"settings" bson:"settings"`
}

// Rect returns the instance geometry.
func (i Instance) Rect() geom.Rect {
	return geom.Rect{X: i.X, Y: i.Y, W: i.Width, H: i.Height}
}

// SetRect replaces the instance geometry with r.
func (i *Instance) SetRect(r geom.Rect) {
	i.X, i.Y, i.Width, i.Height = r.X, r.Y, r.W, r.H
}

// Placed reports whether the instance has been assigned a position.
func (i Instance) Placed() bool {
	return i.X != geom.Unplaced && i.Y != geom.Unplaced
}

// Clone returns a deep copy of i.
func (i Instance) Clone() Instance {
	if i.Settings != nil {
		i.Settings = copyValue(i.Settings).(map[string]any)
	}
	return i
}
