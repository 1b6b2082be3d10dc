package ui

import (
	"strconv"
	"strings"
	"testing"

	"lemterrain/internal/core"
)

type fakeSource struct {
	ratio float64
	count int
	calls int
}

func (f *fakeSource) Name() string    { return "terrain" }
func (f *fakeSource) Size() core.Size { return core.Size{W: 10, H: 10} }

func (f *fakeSource) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{{
		Name: "test",
		Params: []core.Parameter{
			{Key: "ratio", Type: core.ParamTypeFloat, Value: strconv.FormatFloat(f.ratio, 'f', -1, 64)},
			{Key: "count", Type: core.ParamTypeInt, Value: strconv.Itoa(f.count)},
		},
	}}}
}

func (f *fakeSource) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "ratio", Label: "Ratio", Type: core.ParamTypeFloat, Step: 0.25, Min: 0, Max: 1, HasMin: true, HasMax: true},
		{Key: "count", Label: "Count", Type: core.ParamTypeInt, Step: 10, Min: 0, HasMin: true},
		{Key: "missing", Label: "Missing", Type: core.ParamTypeFloat},
	}
}

func (f *fakeSource) SetFloatParameter(key string, v float64) bool {
	f.calls++
	f.ratio = v
	return key == "ratio"
}

func (f *fakeSource) SetIntParameter(key string, v int) bool {
	f.calls++
	f.count = v
	return key == "count"
}

func refreshed(src *fakeSource) []controlState {
	states := newControlStates(src)
	snap := src.Parameters()
	for i := range states {
		states[i].refresh(snap)
	}
	return states
}

func TestControlRefresh(t *testing.T) {
	src := &fakeSource{ratio: 0.5, count: 30}
	states := refreshed(src)
	if len(states) != 3 {
		t.Fatalf("got %d controls", len(states))
	}
	if states[0].value != "0.5" || !states[0].hasValue {
		t.Fatalf("ratio state %+v", states[0])
	}
	if states[1].value != "30" {
		t.Fatalf("count value %q", states[1].value)
	}
	if states[2].hasValue || states[2].value != "--" {
		t.Fatalf("missing parameter should have no value: %+v", states[2])
	}
}

func TestControlStepClampsToBounds(t *testing.T) {
	src := &fakeSource{ratio: 0.9, count: 5}
	states := refreshed(src)
	set := settersOf(src)

	if !states[0].apply(1, set) || src.ratio != 1 {
		t.Fatalf("ratio step up: applied ratio %v", src.ratio)
	}
	if states[0].canAdjust(1, set) {
		t.Fatalf("ratio at max should not step up")
	}
	if !states[1].apply(-1, set) || src.count != 0 {
		t.Fatalf("count step down: applied count %d", src.count)
	}
	calls := src.calls
	if states[1].apply(-1, set) {
		t.Fatalf("count at min stepped down")
	}
	if src.calls != calls {
		t.Fatalf("setter called for a no-op step")
	}
	if states[2].apply(1, set) {
		t.Fatalf("control without a value adjusted")
	}
}

func TestControlWithoutSetter(t *testing.T) {
	type readOnly struct{ ParameterSource }
	src := &fakeSource{ratio: 0.5}
	states := refreshed(src)
	set := settersOf(readOnly{src})
	if states[0].canAdjust(1, set) {
		t.Fatalf("read-only source should not be adjustable")
	}
}

func TestLayoutAndHit(t *testing.T) {
	src := &fakeSource{ratio: 0.5, count: 10}
	states := refreshed(src)
	layoutControls(states, 200)
	r := states[1].plusRect
	i, dir := hitControl(states, r.Min.X+1, r.Min.Y+1)
	if i != 1 || dir != 1 {
		t.Fatalf("hit = (%d, %d), want (1, 1)", i, dir)
	}
	r = states[0].minusRect
	if i, dir = hitControl(states, r.Min.X, r.Min.Y); i != 0 || dir != -1 {
		t.Fatalf("hit = (%d, %d), want (0, -1)", i, dir)
	}
	if i, _ = hitControl(states, 0, 0); i != -1 {
		t.Fatalf("hit outside buttons = %d", i)
	}
}

func TestTitleAndHelp(t *testing.T) {
	if got := hudTitle("terrain"); got != "Terrain Controls" {
		t.Fatalf("title %q", got)
	}
	if got := hudTitle(""); got != "Controls" {
		t.Fatalf("empty title %q", got)
	}
	help := keyHelp([layerCount]bool{false, true, false})
	if !strings.Contains(help, "2* land") || !strings.Contains(help, "3  erodibility") {
		t.Fatalf("help text %q", help)
	}
}
