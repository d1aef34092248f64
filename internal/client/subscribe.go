package client

import (
	"encoding/json"
	"strings"

	"printsync/internal/models"
)

// Object namespaces with special handling during discovery.
const (
	macroPrefix = "gcode_macro "
	menuPrefix  = "menu "
)

// handleObjectsList walks the full object list: macro objects become Macro
// entities, menu objects are skipped, everything else joins the subscription
// set. Ends by issuing the single subscribe call.
func (c *Core) handleObjectsList(result json.RawMessage) {
	var res struct {
		Objects []string `json:"objects"`
	}
	if err := json.Unmarshal(result, &res); err != nil {
		c.log.Warnw("objects_list_decode_failed", "err", err)
		return
	}

	for _, key := range res.Objects {
		switch {
		case strings.HasPrefix(key, macroPrefix):
			name := strings.TrimPrefix(key, macroPrefix)
			c.macros[name] = models.Macro{
				Name:    name,
				Visible: !c.macroHidden(name),
			}
		case strings.HasPrefix(key, menuPrefix) || key == "menu" || key == "gcode_macro":
			// UI menu entries and the macro namespace root are not printer state.
		default:
			c.subscriptions[key] = nil
			if _, ok := c.objects[key]; !ok {
				c.objects[key] = map[string]any{}
			}
		}
	}

	c.request(methodObjectsSubscribe, map[string]any{"objects": c.subscriptions})
}

// macroHidden consults the hidden-macro configuration, case-insensitively.
func (c *Core) macroHidden(name string) bool {
	for _, hidden := range c.macroCfg.HiddenMacros() {
		if strings.EqualFold(hidden, name) {
			return true
		}
	}
	return false
}

// handleSubscribe opens the gate and feeds the initial status snapshot
// through the live-update path, so first-value population and live updates
// share one code path.
func (c *Core) handleSubscribe(result json.RawMessage) {
	var res struct {
		Status map[string]json.RawMessage `json:"status"`
	}
	if err := json.Unmarshal(result, &res); err != nil {
		c.log.Warnw("subscribe_decode_failed", "err", err)
		return
	}
	c.gate = true
	c.stage = stageSubscribed
	c.applyStatus(res.Status, c.now())
}
