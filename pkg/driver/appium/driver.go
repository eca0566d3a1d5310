package appium

import (
	"fmt"
	"strings"

	"github.com/testzen-dev/testzen-runner/pkg/core"
	"github.com/testzen-dev/testzen-runner/pkg/locator"
)

// Swipe geometry for scroll gestures: vertical swipe along the middle of the
// screen, from 80% down to 20%.
const (
	swipeStartRatio = 0.8
	swipeEndRatio   = 0.2
)

// Fallback screen size when the server does not report window bounds.
const (
	fallbackScreenW = 1080
	fallbackScreenH = 1920
)

// strategies maps locator types onto W3C "using" values.
var strategies = map[locator.Type]string{
	locator.TypeID:              "id",
	locator.TypeAccessibilityID: "accessibility id",
	locator.TypeXPath:           "xpath",
	locator.TypeClass:           "class name",
	locator.TypeName:            "name",
	locator.TypePredicate:       "-ios predicate string",
	locator.TypeImage:           "-image",
	locator.TypeCSS:             "css selector",
}

// snapshotAttrs are captured into the element snapshot on every query.
var snapshotAttrs = []string{
	"resource-id", "class", "content-desc",
	"clickable", "focusable", "scrollable",
	"placeholder", "value",
}

// Driver implements core.AutomationDriver over an Appium session.
type Driver struct {
	client *Client
}

// NewDriver connects to the Appium server and starts a session.
func NewDriver(serverURL string, capabilities map[string]interface{}) (*Driver, error) {
	client := NewClient(serverURL)
	if err := client.Connect(capabilities); err != nil {
		return nil, core.NewDriverError("connect", err)
	}
	return &Driver{client: client}, nil
}

// NewDriverWithClient wraps an already-connected client.
func NewDriverWithClient(client *Client) *Driver {
	return &Driver{client: client}
}

// Close ends the session.
func (d *Driver) Close() error {
	return d.client.Disconnect()
}

// Query implements core.AutomationDriver. A missing element is (nil, nil);
// only transport and protocol failures are errors.
func (d *Driver) Query(loc locator.Locator) (*core.Element, error) {
	using, ok := strategies[loc.Type]
	if !ok {
		return nil, core.NewDriverError("query", fmt.Errorf("unsupported locator type %q", loc.Type))
	}

	id, err := d.client.FindElement(using, loc.Value)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, core.NewDriverError("query", err)
	}
	if id == "" {
		return nil, nil
	}
	return d.snapshot(id), nil
}

// QueryAll implements core.AutomationDriver.
func (d *Driver) QueryAll(loc locator.Locator, limit int) ([]*core.Element, error) {
	using, ok := strategies[loc.Type]
	if !ok {
		return nil, core.NewDriverError("query_all", fmt.Errorf("unsupported locator type %q", loc.Type))
	}

	ids, err := d.client.FindElements(using, loc.Value)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, core.NewDriverError("query_all", err)
	}
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	elements := make([]*core.Element, 0, len(ids))
	for _, id := range ids {
		elements = append(elements, d.snapshot(id))
	}
	return elements, nil
}

// PerformGesture implements core.AutomationDriver.
func (d *Driver) PerformGesture(g core.Gesture) error {
	var err error
	switch g.Kind {
	case core.GestureScroll:
		err = d.scroll(g)
	case core.GestureTap:
		err = d.client.Tap(g.X, g.Y)
	case core.GestureLongPress:
		err = d.client.LongPress(g.X, g.Y, g.DurationMs)
	default:
		return core.NewDriverError("gesture", fmt.Errorf("unsupported gesture %q", g.Kind))
	}
	if err != nil {
		return core.NewDriverError("gesture", err)
	}
	return nil
}

func (d *Driver) scroll(g core.Gesture) error {
	w, h := d.client.ScreenSize()
	if w == 0 || h == 0 {
		w, h = fallbackScreenW, fallbackScreenH
	}

	x := w / 2
	startY := int(float64(h) * swipeStartRatio)
	endY := int(float64(h) * swipeEndRatio)
	if g.Direction == "up" {
		startY, endY = endY, startY
	}
	return d.client.Swipe(x, startY, x, endY, g.DurationMs)
}

// ListSurfaces implements core.AutomationDriver; surfaces are Appium contexts.
func (d *Driver) ListSurfaces() ([]string, error) {
	contexts, err := d.client.Contexts()
	if err != nil {
		return nil, core.NewDriverError("list_surfaces", err)
	}
	return contexts, nil
}

// CurrentSurface implements core.AutomationDriver.
func (d *Driver) CurrentSurface() (string, error) {
	name, err := d.client.CurrentContext()
	if err != nil {
		return "", core.NewDriverError("current_surface", err)
	}
	return name, nil
}

// SwitchSurface implements core.AutomationDriver.
func (d *Driver) SwitchSurface(id string) error {
	if err := d.client.SwitchContext(id); err != nil {
		return core.NewDriverError("switch_surface", err)
	}
	return nil
}

// snapshot captures the element's state right after it was found. Individual
// reads are best-effort: a stale field is better than failing the query an
// instant after the element existed.
func (d *Driver) snapshot(id string) *core.Element {
	el := &core.Element{ID: id}

	el.Tag, _ = d.client.GetElementName(id)
	el.Text, _ = d.client.GetElementText(id)
	el.Displayed, _ = d.client.IsElementDisplayed(id)
	el.Enabled, _ = d.client.IsElementEnabled(id)

	if x, y, w, h, err := d.client.GetElementRect(id); err == nil {
		el.Bounds = core.Bounds{X: x, Y: y, Width: w, Height: h}
	}

	for _, name := range snapshotAttrs {
		if v, err := d.client.GetElementAttribute(id, name); err == nil && v != "" {
			if el.Attributes == nil {
				el.Attributes = make(map[string]string)
			}
			el.Attributes[name] = v
		}
	}
	return el
}

// isNotFound recognizes the W3C "no such element" error, which the engine
// treats as an absence value rather than a failure.
func isNotFound(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "no such element") ||
		strings.Contains(msg, "element not found") ||
		strings.Contains(msg, "could not be located")
}
