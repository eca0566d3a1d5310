// Package mock provides a scriptable in-memory driver for testing the
// resolution engine without a device.
package mock

import (
	"fmt"

	"github.com/testzen-dev/testzen-runner/pkg/core"
	"github.com/testzen-dev/testzen-runner/pkg/locator"
)

// DefaultSurface is the surface a new mock driver starts on.
const DefaultSurface = "NATIVE_APP"

// placement scripts when an element becomes queryable.
type placement struct {
	element     *core.Element
	afterScroll int // visible once this many scroll gestures have happened
}

// Driver is a scriptable implementation of core.AutomationDriver.
type Driver struct {
	surfaces map[string]map[string]placement // surface -> locator key -> placement
	samples  map[string][]*core.Element      // surface -> QueryAll results
	order    []string                        // surface ids in registration order
	active   string
	scrolls  int

	// Injected failures.
	QueryErr    error
	GestureErr  error
	SurfacesErr error            // surface enumeration failure
	SwitchErrs  map[string]error // per-surface switch failure

	// Call recording.
	QueryLog  []string       // locator keys, in query order
	Gestures  []core.Gesture // gestures performed
	SwitchLog []string       // surfaces switched to
}

// New creates a mock driver with the default native surface active.
func New() *Driver {
	d := &Driver{
		surfaces:   make(map[string]map[string]placement),
		samples:    make(map[string][]*core.Element),
		SwitchErrs: make(map[string]error),
	}
	d.AddSurface(DefaultSurface)
	d.active = DefaultSurface
	return d
}

// AddSurface registers a surface id.
func (d *Driver) AddSurface(id string) {
	if _, ok := d.surfaces[id]; ok {
		return
	}
	d.surfaces[id] = make(map[string]placement)
	d.order = append(d.order, id)
}

// Place makes an element immediately queryable by loc on the surface.
func (d *Driver) Place(surface string, loc locator.Locator, el *core.Element) {
	d.AddSurface(surface)
	d.surfaces[surface][loc.Key()] = placement{element: el}
}

// PlaceAfterScrolls makes an element queryable only after n scroll gestures.
func (d *Driver) PlaceAfterScrolls(surface string, loc locator.Locator, el *core.Element, n int) {
	d.AddSurface(surface)
	d.surfaces[surface][loc.Key()] = placement{element: el, afterScroll: n}
}

// Remove deletes a placement, simulating an element that disappeared.
func (d *Driver) Remove(surface string, loc locator.Locator) {
	if m, ok := d.surfaces[surface]; ok {
		delete(m, loc.Key())
	}
}

// SetSample scripts the QueryAll result for a surface.
func (d *Driver) SetSample(surface string, els []*core.Element) {
	d.AddSurface(surface)
	d.samples[surface] = els
}

// ScrollCount returns how many scroll gestures were performed.
func (d *Driver) ScrollCount() int {
	return d.scrolls
}

// Query implements core.AutomationDriver.
func (d *Driver) Query(loc locator.Locator) (*core.Element, error) {
	d.QueryLog = append(d.QueryLog, loc.Key())
	if d.QueryErr != nil {
		return nil, core.NewDriverError("query", d.QueryErr)
	}
	p, ok := d.surfaces[d.active][loc.Key()]
	if !ok || d.scrolls < p.afterScroll {
		return nil, nil
	}
	return p.element, nil
}

// QueryAll implements core.AutomationDriver.
func (d *Driver) QueryAll(loc locator.Locator, limit int) ([]*core.Element, error) {
	if d.QueryErr != nil {
		return nil, core.NewDriverError("query_all", d.QueryErr)
	}
	sample := d.samples[d.active]
	if limit > 0 && len(sample) > limit {
		sample = sample[:limit]
	}
	return sample, nil
}

// PerformGesture implements core.AutomationDriver.
func (d *Driver) PerformGesture(g core.Gesture) error {
	if d.GestureErr != nil {
		return core.NewDriverError("gesture", d.GestureErr)
	}
	d.Gestures = append(d.Gestures, g)
	if g.Kind == core.GestureScroll {
		d.scrolls++
	}
	return nil
}

// ListSurfaces implements core.AutomationDriver.
func (d *Driver) ListSurfaces() ([]string, error) {
	if d.SurfacesErr != nil {
		return nil, core.NewDriverError("list_surfaces", d.SurfacesErr)
	}
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out, nil
}

// CurrentSurface implements core.AutomationDriver.
func (d *Driver) CurrentSurface() (string, error) {
	return d.active, nil
}

// SwitchSurface implements core.AutomationDriver.
func (d *Driver) SwitchSurface(id string) error {
	if err := d.SwitchErrs[id]; err != nil {
		return core.NewDriverError("switch_surface", err)
	}
	if _, ok := d.surfaces[id]; !ok {
		return core.NewDriverError("switch_surface", fmt.Errorf("unknown surface %q", id))
	}
	d.active = id
	d.SwitchLog = append(d.SwitchLog, id)
	return nil
}
