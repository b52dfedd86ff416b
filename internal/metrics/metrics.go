// Package metrics exports ticket sales and sponsor pipeline numbers as
// Prometheus gauges.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sufield/confdesk/internal/domain"
	"github.com/sufield/confdesk/internal/ports"
)

const namespace = "confdesk"

// Recorder implements ports.MetricsRecorder on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	ticketsPaid      *prometheus.GaugeVec
	ticketsFree      *prometheus.GaugeVec
	revenue          *prometheus.GaugeVec
	targetPercentage *prometheus.GaugeVec
	actualPercentage *prometheus.GaugeVec
	closedWonValue   *prometheus.GaugeVec
	salesUpdateRuns  *prometheus.CounterVec
}

var _ ports.MetricsRecorder = (*Recorder)(nil)

// New creates a Recorder with Go runtime and process collectors registered.
func New() *Recorder {
	byConference := []string{"conference"}
	gauge := func(name, help string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help}, byConference)
	}

	r := &Recorder{
		registry:         prometheus.NewRegistry(),
		ticketsPaid:      gauge("tickets_paid", "Paid tickets sold."),
		ticketsFree:      gauge("tickets_free", "Free tickets issued."),
		revenue:          gauge("revenue", "Ticket revenue in the conference currency."),
		targetPercentage: gauge("sales_target_percentage", "Target share of capacity sold by now."),
		actualPercentage: gauge("sales_actual_percentage", "Actual share of capacity sold."),
		closedWonValue:   gauge("sponsor_closed_won_value", "Contract value of closed-won sponsor deals."),
		salesUpdateRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_update_runs_total",
			Help:      "Sales update job runs by result.",
		}, []string{"result"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.ticketsPaid, r.ticketsFree, r.revenue,
		r.targetPercentage, r.actualPercentage,
		r.closedWonValue, r.salesUpdateRuns,
	)
	return r
}

// Registry exposes the underlying registry for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// RecordTicketAnalysis sets the ticket gauges for a conference.
func (r *Recorder) RecordTicketAnalysis(conferenceID string, a *domain.TicketAnalysis) {
	if a == nil {
		return
	}
	r.ticketsPaid.WithLabelValues(conferenceID).Set(float64(a.Statistics.PaidTickets))
	r.ticketsFree.WithLabelValues(conferenceID).Set(float64(a.Statistics.FreeTickets))
	r.revenue.WithLabelValues(conferenceID).Set(a.Statistics.TotalRevenue.InexactFloat64())
	if p := a.Performance; p != nil {
		r.targetPercentage.WithLabelValues(conferenceID).Set(p.TargetPercentage)
		r.actualPercentage.WithLabelValues(conferenceID).Set(p.CurrentPercentage)
	}
}

// RecordPipeline sets the sponsor gauge for a conference.
func (r *Recorder) RecordPipeline(conferenceID string, s domain.PipelineSummary) {
	r.closedWonValue.WithLabelValues(conferenceID).Set(s.ClosedWonValue.InexactFloat64())
}

// RecordSalesUpdate counts one sales update run.
func (r *Recorder) RecordSalesUpdate(result string) {
	r.salesUpdateRuns.WithLabelValues(result).Inc()
}

// Nop discards everything. Services use it when no recorder is configured.
type Nop struct{}

func (Nop) RecordTicketAnalysis(string, *domain.TicketAnalysis) {}
func (Nop) RecordPipeline(string, domain.PipelineSummary)       {}
func (Nop) RecordSalesUpdate(string)                            {}
