package interact

import (
	"context"
	"io"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/freeboard/pkg/errors"
	"github.com/matzehuels/freeboard/pkg/widget"
)

// SettingsStore is the part of the layout store widget bodies write to.
type SettingsStore interface {
	Instances() []widget.Instance
	SaveInstance(ctx context.Context, inst widget.Instance) error
}

// ContainerFunc sizes the container of an instance. focused is true for the
// enlarged focus view.
type ContainerFunc func(inst widget.Instance, focused bool) widget.Container

// Views mounts one widget body per instance of the layout.
type Views struct {
	registry  *widget.Registry
	store     SettingsStore
	container ContainerFunc
	logger    *log.Logger

	mounted map[string]*view
}

type view struct {
	inst      widget.Instance // settings map shared with every body of this instance
	body      widget.Body
	suspended bool
}

// NewViews returns an empty view set. A nil container func uses the instance
// geometry as the container size.
func NewViews(registry *widget.Registry, store SettingsStore, container ContainerFunc, logger *log.Logger) *Views {
	if container == nil {
		container = func(inst widget.Instance, focused bool) widget.Container {
			return widget.Container{Width: inst.Width, Height: inst.Height, Focused: focused}
		}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Views{
		registry:  registry,
		store:     store,
		container: container,
		logger:    logger,
		mounted:   make(map[string]*view),
	}
}

// Sync mounts instances that are not mounted yet, remounts those whose size
// changed and unmounts those no longer in the store. Instances whose widget
// type is unknown are skipped and logged; the returned slice lists their ids.
func (v *Views) Sync(ctx context.Context) (skipped []string) {
	live := make(map[string]bool)
	for _, inst := range v.store.Instances() {
		live[inst.InstanceID] = true
		if cur, ok := v.mounted[inst.InstanceID]; ok {
			if cur.inst.Width == inst.Width && cur.inst.Height == inst.Height {
				cur.inst.X, cur.inst.Y = inst.X, inst.Y
				continue
			}
			v.Unmount(inst.InstanceID)
		}
		if err := v.Mount(ctx, inst); err != nil {
			v.logger.Warn("skipping widget", "instance", inst.InstanceID, "widget", inst.WidgetID, "err", err)
			skipped = append(skipped, inst.InstanceID)
		}
	}
	for id := range v.mounted {
		if !live[id] {
			v.Unmount(id)
		}
	}
	return skipped
}

// Mount creates and mounts the body of inst.
func (v *Views) Mount(ctx context.Context, inst widget.Instance) error {
	body, err := v.registry.NewBody(inst.WidgetID)
	if err != nil {
		return err
	}
	inst = inst.Clone()
	if inst.Settings == nil {
		inst.Settings = map[string]any{}
	}
	if err := body.Mount(v.container(inst, false), inst.Settings, v.saver(ctx, inst.InstanceID)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "mount %s", inst.InstanceID)
	}
	v.mounted[inst.InstanceID] = &view{inst: inst, body: body}
	return nil
}

// saver writes the instance's settings back through the store.
func (v *Views) saver(ctx context.Context, instanceID string) widget.SaveFunc {
	return func(settings map[string]any) {
		err := v.store.SaveInstance(ctx, widget.Instance{InstanceID: instanceID, Settings: settings})
		if err != nil {
			v.logger.Error("save widget settings", "instance", instanceID, "err", err)
		}
	}
}

// Unmount tears down the body of instanceID.
func (v *Views) Unmount(instanceID string) {
	if cur, ok := v.mounted[instanceID]; ok {
		cur.body.Unmount()
		delete(v.mounted, instanceID)
	}
}

// Close unmounts every body.
func (v *Views) Close() {
	for id := range v.mounted {
		v.Unmount(id)
	}
}

// IDs returns the mounted instance ids, sorted.
func (v *Views) IDs() []string {
	ids := make([]string, 0, len(v.mounted))
	for id := range v.mounted {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Mounted reports whether instanceID has a mounted body.
func (v *Views) Mounted(instanceID string) bool {
	_, ok := v.mounted[instanceID]
	return ok
}

// Render returns the normal view of instanceID. A suspended view renders
// empty.
func (v *Views) Render(instanceID string) (string, bool) {
	cur, ok := v.mounted[instanceID]
	if !ok {
		return "", false
	}
	if cur.suspended {
		return "", true
	}
	return cur.body.Render(), true
}

// Settings returns the live settings map of instanceID.
func (v *Views) Settings(instanceID string) (map[string]any, bool) {
	cur, ok := v.mounted[instanceID]
	if !ok {
		return nil, false
	}
	return cur.inst.Settings, true
}

// Body returns the mounted body of instanceID.
func (v *Views) Body(instanceID string) (widget.Body, bool) {
	cur, ok := v.mounted[instanceID]
	if !ok {
		return nil, false
	}
	return cur.body, true
}

// Activate triggers the primary action of instanceID, when its body has one.
func (v *Views) Activate(instanceID string) error {
	cur, ok := v.mounted[instanceID]
	if !ok {
		return errors.New(errors.ErrCodeInstanceNotFound, "instance %s is not mounted", instanceID)
	}
	a, ok := cur.body.(widget.Activator)
	if !ok {
		return errors.New(errors.ErrCodeUnsupported, "widget %s has no action", cur.inst.WidgetID)
	}
	a.Activate()
	return nil
}
