package domain

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sufield/confdesk/internal/assert"
)

// DefaultOnTrackTolerance is the variance, in percentage points, still
// reported as on track.
const DefaultOnTrackTolerance = 5.0

// TicketSalesInput is everything ProcessTicketSales needs.
type TicketSalesInput struct {
	Orders                 []TicketOrder
	Config                 SalesTargetConfig
	Capacity               int
	ConferenceDate         time.Time
	SpeakerCount           int
	SponsorTicketAllowance int
	Now                    time.Time

	// OnTrackTolerance in percentage points. Zero means DefaultOnTrackTolerance;
	// use a negative value for a strict comparison.
	OnTrackTolerance float64

	// Classifier defaults to DefaultCategoryClassifier when empty.
	Classifier CategoryClassifier
}

// CategoryStat aggregates the tickets of one category.
type CategoryStat struct {
	Category    string          `json:"category"`
	Kind        CategoryKind    `json:"kind"`
	Tickets     int             `json:"tickets"`
	PaidTickets int             `json:"paid_tickets"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// TicketStatistics is the point-in-time summary of all ticket rows.
type TicketStatistics struct {
	TotalOrders        int             `json:"total_orders"`
	TotalTickets       int             `json:"total_tickets"`
	PaidTickets        int             `json:"paid_tickets"`
	FreeTickets        int             `json:"free_tickets"`
	DuplicateRows      int             `json:"duplicate_rows"`
	TotalRevenue       decimal.Decimal `json:"total_revenue"`
	OutstandingRevenue decimal.Decimal `json:"outstanding_revenue"`
	AverageTicketPrice decimal.Decimal `json:"average_ticket_price"`
	Categories         []CategoryStat  `json:"categories"`

	SponsorTickets        int     `json:"sponsor_tickets"`
	SpeakerTickets        int     `json:"speaker_tickets"`
	OrganizerTickets      int     `json:"organizer_tickets"`
	SpeakerTicketsMissing int     `json:"speaker_tickets_missing"`
	SponsorAllowanceUsed  float64 `json:"sponsor_allowance_used"`

	Capacity          int     `json:"capacity"`
	CapacityUsed      float64 `json:"capacity_used"`
	CapacityRemaining int     `json:"capacity_remaining"`
}

// ProgressionPoint is one day on the actual-vs-target chart.
type ProgressionPoint struct {
	Date             time.Time       `json:"date"`
	TargetPercentage float64         `json:"target_percentage"`
	TargetTickets    int             `json:"target_tickets"`
	ActualTickets    int             `json:"actual_tickets"`
	ActualPercentage float64         `json:"actual_percentage"`
	Revenue          decimal.Decimal `json:"revenue"`
	HasActual        bool            `json:"has_actual"`
	IsMilestone      bool            `json:"is_milestone"`
	MilestoneLabel   string          `json:"milestone_label,omitempty"`
}

// SalesStatus classifies the variance against the target.
type SalesStatus string

const (
	SalesAhead   SalesStatus = "ahead"
	SalesOnTrack SalesStatus = "on_track"
	SalesBehind  SalesStatus = "behind"
)

// SalesPerformance compares paid tickets with the target at Now.
type SalesPerformance struct {
	CurrentPercentage      float64         `json:"current_percentage"`
	TargetPercentage       float64         `json:"target_percentage"`
	Variance               float64         `json:"variance"`
	TargetTickets          int             `json:"target_tickets"`
	VarianceTickets        int             `json:"variance_tickets"`
	Status                 SalesStatus     `json:"status"`
	IsOnTrack              bool            `json:"is_on_track"`
	NextMilestone          *SalesMilestone `json:"next_milestone,omitempty"`
	DaysUntilNextMilestone int             `json:"days_until_next_milestone,omitempty"`
	DaysUntilConference    int             `json:"days_until_conference"`
}

// TicketAnalysis is the result of ProcessTicketSales.
// Progression and Performance are only populated when the target is enabled.
type TicketAnalysis struct {
	GeneratedAt time.Time          `json:"generated_at"`
	Statistics  TicketStatistics   `json:"statistics"`
	Progression []ProgressionPoint `json:"progression,omitempty"`
	Performance *SalesPerformance  `json:"performance,omitempty"`
}

// ProcessTicketSales turns raw ticket rows into statistics, a daily
// progression and a performance summary. It is deterministic: the only
// notion of "now" is in.Now.
func ProcessTicketSales(in TicketSalesInput) (*TicketAnalysis, error) {
	if in.Capacity <= 0 {
		return nil, fmt.Errorf("%w (got %d)", ErrInvalidCapacity, in.Capacity)
	}
	if in.Config.Enabled {
		if err := in.Config.Validate(in.ConferenceDate); err != nil {
			return nil, err
		}
	}
	for _, o := range in.Orders {
		if err := o.Validate(); err != nil {
			return nil, err
		}
	}

	classifier := in.Classifier
	if classifier.IsZero() {
		classifier = DefaultCategoryClassifier()
	}
	tolerance := in.OnTrackTolerance
	switch {
	case tolerance == 0:
		tolerance = DefaultOnTrackTolerance
	case tolerance < 0:
		tolerance = 0
	}

	orders, duplicates := DedupeTicketOrders(in.Orders)
	stats := buildStatistics(orders, classifier, in)
	stats.DuplicateRows = duplicates

	analysis := &TicketAnalysis{
		GeneratedAt: in.Now,
		Statistics:  stats,
	}
	if !in.Config.Enabled {
		return analysis, nil
	}

	analysis.Progression = buildProgression(orders, in)
	analysis.Performance = buildPerformance(stats, tolerance, in)
	return analysis, nil
}

// DedupeTicketOrders drops rows repeating a non-zero TicketID, keeping the
// first occurrence. Rows without a ticket ID are never merged, since several
// tickets of one order can legitimately look identical. It returns the
// surviving rows in input order and the number of dropped rows.
func DedupeTicketOrders(orders []TicketOrder) ([]TicketOrder, int) {
	seen := make(map[int64]struct{}, len(orders))
	out := make([]TicketOrder, 0, len(orders))
	for _, o := range orders {
		if o.TicketID != 0 {
			if _, dup := seen[o.TicketID]; dup {
				continue
			}
			seen[o.TicketID] = struct{}{}
		}
		out = append(out, o)
	}
	return out, len(orders) - len(out)
}

func buildStatistics(orders []TicketOrder, classifier CategoryClassifier, in TicketSalesInput) TicketStatistics {
	stats := TicketStatistics{
		TotalRevenue:       decimal.Zero,
		OutstandingRevenue: decimal.Zero,
		AverageTicketPrice: decimal.Zero,
		Capacity:           in.Capacity,
	}

	orderIDs := make(map[int64]struct{})
	byCategory := make(map[string]*CategoryStat)
	for _, o := range orders {
		orderIDs[o.OrderID] = struct{}{}
		stats.TotalTickets++
		stats.OutstandingRevenue = stats.OutstandingRevenue.Add(o.SumLeft)

		cs, ok := byCategory[o.Category]
		if !ok {
			cs = &CategoryStat{Category: o.Category, Revenue: decimal.Zero}
			byCategory[o.Category] = cs
		}
		cs.Tickets++

		if o.IsPaid() {
			stats.PaidTickets++
			stats.TotalRevenue = stats.TotalRevenue.Add(o.Sum)
			cs.PaidTickets++
			cs.Revenue = cs.Revenue.Add(o.Sum)
		} else {
			stats.FreeTickets++
		}
	}
	stats.TotalOrders = len(orderIDs)
	assert.Invariantf(stats.PaidTickets+stats.FreeTickets == stats.TotalTickets,
		"paid %d + free %d != total %d tickets", stats.PaidTickets, stats.FreeTickets, stats.TotalTickets)

	stats.Categories = make([]CategoryStat, 0, len(byCategory))
	for _, cs := range byCategory {
		cs.Kind = classifier.Allocation(cs.Category)
		switch cs.Kind {
		case CategorySponsor:
			stats.SponsorTickets += cs.Tickets
		case CategorySpeaker:
			stats.SpeakerTickets += cs.Tickets
		case CategoryOrganizer:
			stats.OrganizerTickets += cs.Tickets
		case "":
			if cs.PaidTickets > 0 {
				cs.Kind = CategoryPaid
			} else {
				cs.Kind = CategoryComplimentary
			}
		}
		stats.Categories = append(stats.Categories, *cs)
	}
	sort.Slice(stats.Categories, func(i, j int) bool {
		a, b := stats.Categories[i], stats.Categories[j]
		if a.Tickets != b.Tickets {
			return a.Tickets > b.Tickets
		}
		return a.Category < b.Category
	})

	if stats.PaidTickets > 0 {
		stats.AverageTicketPrice = stats.TotalRevenue.Div(decimal.NewFromInt(int64(stats.PaidTickets))).Round(2)
	}
	if missing := in.SpeakerCount - stats.SpeakerTickets; missing > 0 {
		stats.SpeakerTicketsMissing = missing
	}
	if in.SponsorTicketAllowance > 0 {
		stats.SponsorAllowanceUsed = round2(float64(stats.SponsorTickets) / float64(in.SponsorTicketAllowance) * 100)
	}
	stats.CapacityUsed = round2(float64(stats.TotalTickets) / float64(in.Capacity) * 100)
	if remaining := in.Capacity - stats.TotalTickets; remaining > 0 {
		stats.CapacityRemaining = remaining
	}
	return stats
}

type dayTotals struct {
	tickets int
	revenue decimal.Decimal
}

func buildProgression(orders []TicketOrder, in TicketSalesInput) []ProgressionPoint {
	cfg := in.Config
	startDay := truncateDay(cfg.SalesStartDate)
	endDay := truncateDay(in.ConferenceDate)
	today := truncateDay(in.Now)

	perDay := make(map[time.Time]*dayTotals)
	for _, o := range orders {
		if !o.IsPaid() {
			continue
		}
		day := truncateDay(o.OrderDate)
		if day.Before(startDay) {
			day = startDay
		}
		dt, ok := perDay[day]
		if !ok {
			dt = &dayTotals{revenue: decimal.Zero}
			perDay[day] = dt
		}
		dt.tickets++
		dt.revenue = dt.revenue.Add(o.Sum)
	}

	milestoneLabels := make(map[time.Time]string, len(cfg.Milestones))
	for _, m := range cfg.sortedMilestones() {
		milestoneLabels[truncateDay(m.Date)] = m.Label
	}

	var (
		points     []ProgressionPoint
		cumTickets int
		cumRevenue = decimal.Zero
	)
	for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		if dt, ok := perDay[day]; ok {
			cumTickets += dt.tickets
			cumRevenue = cumRevenue.Add(dt.revenue)
		}

		// Targets describe cumulative sales by the end of the day.
		pct := round2(cfg.TargetPercentageAt(in.ConferenceDate, day.AddDate(0, 0, 1)))
		p := ProgressionPoint{
			Date:             day,
			TargetPercentage: pct,
			TargetTickets:    ticketsFor(in.Capacity, pct),
			Revenue:          decimal.Zero,
		}
		if label, ok := milestoneLabels[day]; ok {
			p.IsMilestone = true
			p.MilestoneLabel = label
		}
		if !day.After(today) {
			p.HasActual = true
			p.ActualTickets = cumTickets
			p.ActualPercentage = round2(float64(cumTickets) / float64(in.Capacity) * 100)
			p.Revenue = cumRevenue
		}
		points = append(points, p)
	}
	return points
}

func buildPerformance(stats TicketStatistics, tolerance float64, in TicketSalesInput) *SalesPerformance {
	current := float64(stats.PaidTickets) / float64(in.Capacity) * 100
	target := in.Config.TargetPercentageAt(in.ConferenceDate, in.Now)
	targetTickets := ticketsFor(in.Capacity, target)
	variance := round2(current - target)

	perf := &SalesPerformance{
		CurrentPercentage:   round2(current),
		TargetPercentage:    round2(target),
		Variance:            variance,
		TargetTickets:       targetTickets,
		VarianceTickets:     stats.PaidTickets - targetTickets,
		DaysUntilConference: daysUntil(in.Now, in.ConferenceDate),
	}
	switch {
	case variance > tolerance:
		perf.Status = SalesAhead
	case variance < -tolerance:
		perf.Status = SalesBehind
	default:
		perf.Status = SalesOnTrack
	}
	perf.IsOnTrack = perf.Status != SalesBehind

	if m, ok := in.Config.NextMilestone(in.Now); ok {
		perf.NextMilestone = &m
		perf.DaysUntilNextMilestone = daysUntil(in.Now, m.Date)
	}
	return perf
}

func ticketsFor(capacity int, pct float64) int {
	return int(math.Round(float64(capacity) * pct / 100))
}

// daysUntil returns whole days from now to t, rounded up, never negative.
func daysUntil(now, t time.Time) int {
	if !t.After(now) {
		return 0
	}
	return int(math.Ceil(t.Sub(now).Hours() / 24))
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
