package widgets

import (
	"fmt"
	"math"

	"github.com/go-drift/headless/pkg/errors"
	"github.com/go-drift/headless/pkg/events"
	"github.com/go-drift/headless/pkg/semantics"
)

// ProgressInfo is the value of a Progress widget.
type ProgressInfo struct {
	Value float64 `json:"value"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// Percentage returns the value as a percentage of the range. A degenerate
// range reports 100 once the value has reached it.
func (p ProgressInfo) Percentage() float64 {
	span := p.Max - p.Min
	if span <= 0 {
		if p.Value >= p.Max {
			return 100
		}
		return 0
	}
	return (p.Value - p.Min) / span * 100
}

// DefaultValueLabel formats the percentage with two decimals.
func DefaultValueLabel(p ProgressInfo) string {
	return fmt.Sprintf("%.2f%%", p.Percentage())
}

// ProgressConfig configures a Progress widget. When Min and Max are both
// zero the range defaults to 0..100.
type ProgressConfig struct {
	ID    events.ComponentID
	Label string
	Min   float64
	Max   float64
	Value float64
	// ValueLabel formats the announced value. Defaults to DefaultValueLabel.
	ValueLabel func(ProgressInfo) string
}

// Progress is a non-interactive bounded value. Its value is always clamped
// into [Min, Max].
type Progress struct {
	core
	info       ProgressInfo
	valueLabel func(ProgressInfo) string
}

// NewProgress creates a progress widget.
func NewProgress(cfg ProgressConfig) (*Progress, error) {
	p := &Progress{core: newCore(cfg.ID, cfg.Label, false), valueLabel: cfg.ValueLabel}
	if p.valueLabel == nil {
		p.valueLabel = DefaultValueLabel
	}
	lo, hi := cfg.Min, cfg.Max
	if lo == 0 && hi == 0 {
		hi = 100
	}
	if err := checkRange("NewProgress", p.id, lo, hi); err != nil {
		return nil, err
	}
	if err := checkNumber("NewProgress", p.id, cfg.Value); err != nil {
		return nil, err
	}
	p.info = ProgressInfo{Min: lo, Max: hi, Value: clamp(cfg.Value, lo, hi)}
	return p, nil
}

func (p *Progress) Kind() semantics.Kind { return semantics.KindProgress }

// Info returns the value and range.
func (p *Progress) Info() ProgressInfo { return p.info }

// Value returns the clamped value.
func (p *Progress) Value() float64 { return p.info.Value }

// Handle ignores every event; progress has no interactive behavior.
func (p *Progress) Handle(events.Event) (Result, error) {
	return Result{}, nil
}

// SetValue stores v clamped into the range. Setting the same value twice is
// a no-op. NaN and infinities are rejected.
func (p *Progress) SetValue(v float64) error {
	return p.run("Progress.SetValue", func() error {
		if err := checkNumber("Progress.SetValue", p.id, v); err != nil {
			return err
		}
		p.info.Value = clamp(v, p.info.Min, p.info.Max)
		return nil
	})
}

// SetRange replaces the range and re-clamps the value.
func (p *Progress) SetRange(lo, hi float64) error {
	return p.run("Progress.SetRange", func() error {
		if err := checkRange("Progress.SetRange", p.id, lo, hi); err != nil {
			return err
		}
		p.info = ProgressInfo{Min: lo, Max: hi, Value: clamp(p.info.Value, lo, hi)}
		return nil
	})
}

// SetDisabled records the disabled flag; it only affects the projection.
func (p *Progress) SetDisabled(disabled bool) error {
	return p.setDisabled("Progress.SetDisabled", disabled)
}

func (p *Progress) Snapshot() Snapshot {
	st := p.machine.State()
	return Snapshot{
		ID:          p.id,
		Kind:        semantics.KindProgress.String(),
		Interaction: st,
		Value:       p.info,
		Semantics: semantics.Project(semantics.KindProgress, st, semantics.Value{
			Label: p.label,
			Text:  p.valueLabel(p.info),
			Range: &semantics.Range{Min: p.info.Min, Max: p.info.Max, Now: p.info.Value},
		}),
	}
}

func checkNumber(op string, id events.ComponentID, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errors.Configuration(op, string(id), fmt.Errorf("%w: %v", errors.ErrInvalidNumber, v))
	}
	return nil
}

func checkRange(op string, id events.ComponentID, lo, hi float64) error {
	if err := checkNumber(op, id, lo); err != nil {
		return err
	}
	if err := checkNumber(op, id, hi); err != nil {
		return err
	}
	if lo > hi {
		return errors.Configuration(op, string(id), fmt.Errorf("%w: min %v > max %v", errors.ErrInvertedRange, lo, hi))
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
