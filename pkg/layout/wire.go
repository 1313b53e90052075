package layout

import (
	"bytes"
	"encoding/json"

	"github.com/matzehuels/freeboard/pkg/errors"
	"github.com/matzehuels/freeboard/pkg/geom"
	"github.com/matzehuels/freeboard/pkg/widget"
)

type envelope struct {
	Layout *document `json:"layout"`
}

type document struct {
	WorkspaceID string            `json:"workspaceId"`
	Version     int               `json:"version"`
	Widgets     []json.RawMessage `json:"widgets"`
}

type outEnvelope struct {
	Layout outDocument `json:"layout"`
}

type outDocument struct {
	WorkspaceID string            `json:"workspaceId"`
	Version     int               `json:"version"`
	Widgets     []widget.Instance `json:"widgets"`
}

// Encode serializes l into the wire envelope. Instances without settings are
// written with an empty settings object.
func Encode(l *Layout) ([]byte, error) {
	out := outEnvelope{Layout: outDocument{
		WorkspaceID: l.WorkspaceID,
		Version:     VersionFreeform,
		Widgets:     make([]widget.Instance, len(l.Widgets)),
	}}
	for i, w := range l.Widgets {
		if w.Settings == nil {
			w.Settings = map[string]any{}
		}
		out.Layout.Widgets[i] = w
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode layout %s", l.WorkspaceID)
	}
	return data, nil
}

// Parse decodes a wire envelope. An empty payload or a null layout yields an
// empty layout. Legacy documents are migrated onto canvas and reported with
// migrated set to true.
//
// If workspaceID is non-empty it overrides the id stored in the document.
func Parse(data []byte, workspaceID string, canvas geom.Canvas) (l *Layout, migrated bool, err error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return New(workspaceID), false, nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInvalidLayout, err, "decode layout")
	}
	if env.Layout == nil {
		return New(workspaceID), false, nil
	}
	doc := env.Layout
	if workspaceID == "" {
		workspaceID = doc.WorkspaceID
	}

	legacy, err := isLegacy(doc)
	if err != nil {
		return nil, false, err
	}
	if legacy {
		ws, err := decodeLegacy(doc.Widgets)
		if err != nil {
			return nil, false, err
		}
		return Migrate(workspaceID, ws, canvas), true, nil
	}

	l = New(workspaceID)
	for i, raw := range doc.Widgets {
		var w widget.Instance
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, false, errors.Wrap(errors.ErrCodeInvalidLayout, err, "decode widget %d", i)
		}
		if w.InstanceID == "" || w.WidgetID == "" {
			return nil, false, errors.New(errors.ErrCodeInvalidLayout, "widget %d is missing instanceId or widgetId", i)
		}
		l.Widgets = append(l.Widgets, w)
	}
	return l, false, nil
}

// isLegacy reports whether doc uses the slot-index schema: either it declares
// the legacy version or one of its widgets carries a position without x/y.
func isLegacy(doc *document) (bool, error) {
	if doc.Version == VersionLegacy {
		return true, nil
	}
	for i, raw := range doc.Widgets {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return false, errors.Wrap(errors.ErrCodeInvalidLayout, err, "decode widget %d", i)
		}
		_, hasPos := fields["position"]
		_, hasX := fields["x"]
		_, hasY := fields["y"]
		if hasPos && !hasX && !hasY {
			return true, nil
		}
	}
	return false, nil
}

func decodeLegacy(raws []json.RawMessage) ([]LegacyWidget, error) {
	out := make([]LegacyWidget, 0, len(raws))
	for i, raw := range raws {
		var w LegacyWidget
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidLayout, err, "decode legacy widget %d", i)
		}
		if w.InstanceID == "" || w.WidgetID == "" {
			return nil, errors.New(errors.ErrCodeInvalidLayout, "legacy widget %d is missing instanceId or widgetId", i)
		}
		if w.Position == nil {
			p := i
			w.Position = &p
		}
		out = append(out, w)
	}
	return out, nil
}
