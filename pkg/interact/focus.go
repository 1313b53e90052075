package interact

import (
	"context"

	"github.com/matzehuels/freeboard/pkg/errors"
	"github.com/matzehuels/freeboard/pkg/widget"
)

// Focus shows at most one instance in an enlarged view.
//
// Entering focus suspends the normal view and mounts a second body bound to
// the same settings map. Exiting unmounts it and remounts the normal view so
// it picks up settings changed while focused.
type Focus struct {
	views *Views
	id    string
	body  widget.Body
}

// NewFocus returns a focus controller over views.
func NewFocus(views *Views) *Focus {
	return &Focus{views: views}
}

// Focused returns the focused instance id.
func (f *Focus) Focused() (string, bool) {
	return f.id, f.id != ""
}

// Enter focuses instanceID, exiting any other focused instance first.
func (f *Focus) Enter(ctx context.Context, instanceID string) error {
	if f.id == instanceID {
		return nil
	}
	cur, ok := f.views.mounted[instanceID]
	if !ok {
		return errors.New(errors.ErrCodeInstanceNotFound, "instance %s is not mounted", instanceID)
	}
	if f.id != "" {
		f.Exit(ctx)
	}

	body, err := f.views.registry.NewBody(cur.inst.WidgetID)
	if err != nil {
		return err
	}
	c := f.views.container(cur.inst, true)
	if err := body.Mount(c, cur.inst.Settings, f.views.saver(ctx, instanceID)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "mount focused %s", instanceID)
	}
	cur.suspended = true
	f.id, f.body = instanceID, body
	f.views.logger.Debug("focus entered", "instance", instanceID)
	return nil
}

// Exit leaves focus mode. It is a no-op when nothing is focused.
func (f *Focus) Exit(ctx context.Context) {
	if f.id == "" {
		return
	}
	id := f.id
	f.body.Unmount()
	f.id, f.body = "", nil

	cur, ok := f.views.mounted[id]
	if !ok {
		return
	}
	inst := cur.inst
	f.views.Unmount(id)
	if err := f.views.Mount(ctx, inst); err != nil {
		f.views.logger.Error("remount after focus", "instance", id, "err", err)
	}
	f.views.logger.Debug("focus exited", "instance", id)
}

// Render returns the enlarged view of the focused instance.
func (f *Focus) Render() (string, bool) {
	if f.id == "" {
		return "", false
	}
	var inst widget.Instance
	if cur, ok := f.views.mounted[f.id]; ok {
		inst = cur.inst
	}
	if fr, ok := f.body.(widget.FocusRenderer); ok {
		return fr.RenderFocused(f.views.container(inst, true)), true
	}
	return f.body.Render(), true
}

// Body returns the focused body, for bodies with their own actions.
func (f *Focus) Body() (widget.Body, bool) {
	return f.body, f.body != nil
}
