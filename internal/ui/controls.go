// Package ui draws the preview HUD and field overlays.
package ui

import (
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"
	"unicode"

	"lemterrain/internal/core"
)

// ParameterSource is what the HUD displays. Sources that also implement
// core.ParameterControlsProvider and the core setter interfaces get
// adjustable controls.
type ParameterSource interface {
	Name() string
	Size() core.Size
	Parameters() core.ParameterSnapshot
}

type setters struct {
	ints   core.IntParameterSetter
	floats core.FloatParameterSetter
}

func settersOf(src ParameterSource) setters {
	var s setters
	s.ints, _ = src.(core.IntParameterSetter)
	s.floats, _ = src.(core.FloatParameterSetter)
	return s
}

type controlState struct {
	control  core.ParameterControl
	value    string
	number   float64
	hasValue bool

	top       int
	minusRect image.Rectangle
	plusRect  image.Rectangle
}

func newControlStates(src ParameterSource) []controlState {
	provider, ok := src.(core.ParameterControlsProvider)
	if !ok {
		return nil
	}
	controls := provider.ParameterControls()
	states := make([]controlState, len(controls))
	for i, ctrl := range controls {
		states[i] = controlState{control: ctrl, value: "--"}
	}
	return states
}

func (s *controlState) refresh(snap core.ParameterSnapshot) {
	s.hasValue = false
	s.value = "--"
	param, ok := snap.Lookup(s.control.Key)
	if !ok {
		return
	}
	v, err := strconv.ParseFloat(param.Value, 64)
	if err != nil {
		return
	}
	s.number = v
	s.value = formatValue(s.control, v)
	s.hasValue = true
}

func (s *controlState) stepSize() float64 {
	step := s.control.Step
	if s.control.Type == core.ParamTypeInt {
		step = math.Round(step)
		if step <= 0 {
			step = 1
		}
		return step
	}
	if step <= 0 {
		step = 0.05
	}
	return step
}

// target is the value one step away in direction, clamped. ok is false when
// the step would not change anything.
func (s *controlState) target(direction int) (float64, bool) {
	if !s.hasValue || direction == 0 {
		return 0, false
	}
	if s.control.Type != core.ParamTypeInt && s.control.Type != core.ParamTypeFloat {
		return 0, false
	}
	next := s.control.Clamp(s.number + float64(direction)*s.stepSize())
	if math.Abs(next-s.number) < 1e-9 {
		return 0, false
	}
	return next, true
}

func (s *controlState) canAdjust(direction int, set setters) bool {
	if _, ok := s.target(direction); !ok {
		return false
	}
	if s.control.Type == core.ParamTypeInt {
		return set.ints != nil
	}
	return set.floats != nil
}

func (s *controlState) apply(direction int, set setters) bool {
	if !s.canAdjust(direction, set) {
		return false
	}
	next, _ := s.target(direction)
	switch s.control.Type {
	case core.ParamTypeInt:
		next = math.Round(next)
		if !set.ints.SetIntParameter(s.control.Key, int(next)) {
			return false
		}
	default:
		if !set.floats.SetFloatParameter(s.control.Key, next) {
			return false
		}
	}
	s.number = next
	s.value = formatValue(s.control, next)
	return true
}

func formatValue(ctrl core.ParameterControl, v float64) string {
	if ctrl.Type == core.ParamTypeInt {
		return strconv.Itoa(int(math.Round(v)))
	}
	step := ctrl.Step
	if step <= 0 {
		step = 0.05
	}
	precision := 1
	switch {
	case step < 0.001:
		precision = 4
	case step < 0.01:
		precision = 3
	case step < 0.1:
		precision = 2
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}

func layoutControls(states []controlState, width int) {
	for i := range states {
		top := controlsTop + i*lineHeight
		buttonY := top + (lineHeight-buttonSize)/2
		plusRect := image.Rect(width-panelPadding-buttonSize, buttonY, width-panelPadding, buttonY+buttonSize)
		minusRect := image.Rect(plusRect.Min.X-buttonGap-buttonSize, buttonY, plusRect.Min.X-buttonGap, buttonY+buttonSize)
		states[i].top = top
		states[i].minusRect = minusRect
		states[i].plusRect = plusRect
	}
}

// hitControl finds the control button under (x, y) in panel coordinates.
func hitControl(states []controlState, x, y int) (index, direction int) {
	for i := range states {
		if !states[i].hasValue {
			continue
		}
		if pointInRect(x, y, states[i].minusRect) {
			return i, -1
		}
		if pointInRect(x, y, states[i].plusRect) {
			return i, 1
		}
	}
	return -1, 0
}

func hudTitle(name string) string {
	if name == "" {
		return "Controls"
	}
	r := []rune(name)
	r[0] = unicode.ToUpper(r[0])
	return fmt.Sprintf("%s Controls", string(r))
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return x >= rect.Min.X && x < rect.Max.X && y >= rect.Min.Y && y < rect.Max.Y
}

// FieldSource supplies the rasters the overlay layers draw.
type FieldSource interface {
	Size() core.Size
	OutletField() *core.FloatGrid
	LandField() *core.FloatGrid
	ErodibilityField() *core.FloatGrid
}

// Layer identifies an overlay.
type Layer int

const (
	LayerOutlets Layer = iota
	LayerLand
	LayerErodibility
	layerCount
)

func (l Layer) String() string {
	switch l {
	case LayerOutlets:
		return "outlets"
	case LayerLand:
		return "land"
	case LayerErodibility:
		return "erodibility"
	}
	return "layer(" + strconv.Itoa(int(l)) + ")"
}

func (l Layer) field(src FieldSource) *core.FloatGrid {
	switch l {
	case LayerOutlets:
		return src.OutletField()
	case LayerLand:
		return src.LandField()
	case LayerErodibility:
		return src.ErodibilityField()
	}
	return nil
}

func keyHelp(visible [layerCount]bool) string {
	var b strings.Builder
	b.WriteString("R regen  S seed  A auto")
	for l := Layer(0); l < layerCount; l++ {
		mark := " "
		if visible[l] {
			mark = "*"
		}
		fmt.Fprintf(&b, "\n%d%s %s", int(l)+1, mark, l)
	}
	return b.String()
}

const (
	panelPadding   = 12
	lineHeight     = 36
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24
	infoSpacing    = 36
	controlsTop    = panelPadding + headerBaseline + 14
)
