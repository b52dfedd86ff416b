package domain

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// TargetCurve is the shape of the expected cumulative sales between two anchors.
type TargetCurve string

const (
	CurveLinear    TargetCurve = "linear"
	CurveEarlyPush TargetCurve = "early_push"
	CurveLatePush  TargetCurve = "late_push"
	CurveSCurve    TargetCurve = "s_curve"
)

// MaxSalesWindow bounds the daily progression so a typo in a year does not
// produce tens of thousands of points.
const MaxSalesWindow = 2 * 366 * 24 * time.Hour

// sCurveSteepness is the logistic slope used by CurveSCurve.
const sCurveSteepness = 10.0

// ParseTargetCurve converts a configured curve name. Empty means linear.
func ParseTargetCurve(s string) (TargetCurve, error) {
	switch c := TargetCurve(s); c {
	case "":
		return CurveLinear, nil
	case CurveLinear, CurveEarlyPush, CurveLatePush, CurveSCurve:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTargetCurve, s)
	}
}

// Apply maps segment progress t in [0,1] to target progress in [0,1].
// Values of t outside the range are clamped.
func (c TargetCurve) Apply(t float64) float64 {
	t = clamp01(t)
	switch c {
	case CurveEarlyPush:
		return 1 - (1-t)*(1-t)
	case CurveLatePush:
		return t * t
	case CurveSCurve:
		lo, hi := logistic(0), logistic(1)
		return (logistic(t) - lo) / (hi - lo)
	default:
		return t
	}
}

func logistic(t float64) float64 {
	return 1 / (1 + math.Exp(-sCurveSteepness*(t-0.5)))
}

func clamp01(t float64) float64 {
	switch {
	case t < 0 || math.IsNaN(t):
		return 0
	case t > 1:
		return 1
	}
	return t
}

// SalesMilestone is a dated checkpoint on the target curve.
type SalesMilestone struct {
	Date             time.Time `json:"date" yaml:"date"`
	TargetPercentage float64   `json:"target_percentage" yaml:"target_percentage"`
	Label            string    `json:"label" yaml:"label"`
}

// SalesTargetConfig configures the expected sales progression for a conference.
type SalesTargetConfig struct {
	Enabled        bool             `json:"enabled" yaml:"enabled"`
	TargetCurve    TargetCurve      `json:"target_curve" yaml:"target_curve"`
	SalesStartDate time.Time        `json:"sales_start_date" yaml:"sales_start_date"`
	Milestones     []SalesMilestone `json:"milestones,omitempty" yaml:"milestones"`
}

// Validate checks the config against the conference date.
//
// Ensures:
//   - SalesStartDate is before conferenceDate and the window is at most MaxSalesWindow
//   - TargetCurve is one of the supported curves (empty means linear)
//   - Milestones lie strictly inside the window, on distinct dates, with
//     percentages in 0..100 that never decrease over time
func (cfg SalesTargetConfig) Validate(conferenceDate time.Time) error {
	if _, err := ParseTargetCurve(string(cfg.TargetCurve)); err != nil {
		return err
	}
	if cfg.SalesStartDate.IsZero() || conferenceDate.IsZero() {
		return fmt.Errorf("%w: sales start and conference date must be set", ErrInvalidSalesWindow)
	}
	if !conferenceDate.After(cfg.SalesStartDate) {
		return fmt.Errorf("%w: sales start %s is not before conference date %s",
			ErrInvalidSalesWindow, cfg.SalesStartDate.Format(time.RFC3339), conferenceDate.Format(time.RFC3339))
	}
	if conferenceDate.Sub(cfg.SalesStartDate) > MaxSalesWindow {
		return fmt.Errorf("%w: sales window longer than %s", ErrInvalidSalesWindow, MaxSalesWindow)
	}

	prevPct := 0.0
	var prevDate time.Time
	for i, m := range cfg.sortedMilestones() {
		if m.TargetPercentage < 0 || m.TargetPercentage > 100 || math.IsNaN(m.TargetPercentage) {
			return fmt.Errorf("%w: %q has percentage %.2f outside 0..100", ErrInvalidMilestone, m.Label, m.TargetPercentage)
		}
		if !m.Date.After(cfg.SalesStartDate) || !m.Date.Before(conferenceDate) {
			return fmt.Errorf("%w: %q is outside the sales window", ErrInvalidMilestone, m.Label)
		}
		if i > 0 && m.Date.Equal(prevDate) {
			return fmt.Errorf("%w: %q shares its date with another milestone", ErrInvalidMilestone, m.Label)
		}
		if m.TargetPercentage < prevPct {
			return fmt.Errorf("%w: %q lowers the target from %.2f to %.2f", ErrInvalidMilestone, m.Label, prevPct, m.TargetPercentage)
		}
		prevPct, prevDate = m.TargetPercentage, m.Date
	}
	return nil
}

// sortedMilestones returns a copy of the milestones ordered by date.
func (cfg SalesTargetConfig) sortedMilestones() []SalesMilestone {
	out := make([]SalesMilestone, len(cfg.Milestones))
	copy(out, cfg.Milestones)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

type targetAnchor struct {
	at  time.Time
	pct float64
}

func (cfg SalesTargetConfig) anchors(conferenceDate time.Time) []targetAnchor {
	ms := cfg.sortedMilestones()
	out := make([]targetAnchor, 0, len(ms)+2)
	out = append(out, targetAnchor{at: cfg.SalesStartDate, pct: 0})
	for _, m := range ms {
		out = append(out, targetAnchor{at: m.Date, pct: m.TargetPercentage})
	}
	return append(out, targetAnchor{at: conferenceDate, pct: 100})
}

// TargetPercentageAt returns the expected share of capacity sold at instant at.
//
// The curve runs from 0% at SalesStartDate to 100% at conferenceDate, passing
// through every milestone. Between two anchors the configured curve shape is
// applied to the local progress of that segment. The config must have passed
// Validate.
func (cfg SalesTargetConfig) TargetPercentageAt(conferenceDate, at time.Time) float64 {
	anchors := cfg.anchors(conferenceDate)
	if !at.After(anchors[0].at) {
		return 0
	}
	for i := 1; i < len(anchors); i++ {
		next := anchors[i]
		if at.After(next.at) {
			continue
		}
		prev := anchors[i-1]
		span := next.at.Sub(prev.at)
		if span <= 0 {
			return next.pct
		}
		local := float64(at.Sub(prev.at)) / float64(span)
		curve := cfg.TargetCurve
		if curve == "" {
			curve = CurveLinear
		}
		return prev.pct + (next.pct-prev.pct)*curve.Apply(local)
	}
	return 100
}

// NextMilestone returns the earliest milestone strictly after now.
func (cfg SalesTargetConfig) NextMilestone(now time.Time) (SalesMilestone, bool) {
	for _, m := range cfg.sortedMilestones() {
		if m.Date.After(now) {
			return m, true
		}
	}
	return SalesMilestone{}, false
}
