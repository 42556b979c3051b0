package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus counters for lifecycle events. Services
// receive it through a WithMetrics option and treat a nil pointer as
// metrics-disabled.
type Metrics struct {
	ApplicationsSubmitted   prometheus.Counter
	ApplicationsDecided     *prometheus.CounterVec
	WithdrawalsResolved     *prometheus.CounterVec
	OfficerRegistrations    prometheus.Counter
	OfficersAssigned        prometheus.Counter
	BookingsProcessed       prometheus.Counter
	BookingsConfirmed       prometheus.Counter
	BookingsCancelled       prometheus.Counter
	ReceiptsGenerated       prometheus.Counter
	EnquiriesSubmitted      prometheus.Counter
	EnquiriesReplied        prometheus.Counter
	SnapshotRecordsLoaded   *prometheus.CounterVec
	SnapshotRecordsRejected *prometheus.CounterVec
}

// New creates and registers all counters on the given registerer. Pass
// prometheus.DefaultRegisterer in main and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ApplicationsSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "btocore_applications_submitted_total",
			Help: "Total BTO applications accepted by the lifecycle engine",
		}),
		ApplicationsDecided: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "btocore_applications_decided_total",
			Help: "Total application decisions, labelled by outcome",
		}, []string{"outcome"}),
		WithdrawalsResolved: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "btocore_withdrawals_resolved_total",
			Help: "Total withdrawal requests resolved, labelled by outcome",
		}, []string{"outcome"}),
		OfficerRegistrations: factory.NewCounter(prometheus.CounterOpts{
			Name: "btocore_officer_registrations_total",
			Help: "Total officer project registrations submitted",
		}),
		OfficersAssigned: factory.NewCounter(prometheus.CounterOpts{
			Name: "btocore_officers_assigned_total",
			Help: "Total approved officer assignments",
		}),
		BookingsProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "btocore_bookings_processed_total",
			Help: "Total bookings created from successful applications",
		}),
		BookingsConfirmed: factory.NewCounter(prometheus.CounterOpts{
			Name: "btocore_bookings_confirmed_total",
			Help: "Total bookings confirmed",
		}),
		BookingsCancelled: factory.NewCounter(prometheus.CounterOpts{
			Name: "btocore_bookings_cancelled_total",
			Help: "Total bookings cancelled",
		}),
		ReceiptsGenerated: factory.NewCounter(prometheus.CounterOpts{
			Name: "btocore_receipts_generated_total",
			Help: "Total booking receipts generated",
		}),
		EnquiriesSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "btocore_enquiries_submitted_total",
			Help: "Total project enquiries submitted",
		}),
		EnquiriesReplied: factory.NewCounter(prometheus.CounterOpts{
			Name: "btocore_enquiries_replied_total",
			Help: "Total project enquiries replied to",
		}),
		SnapshotRecordsLoaded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "btocore_snapshot_records_loaded_total",
			Help: "Total interchange rows loaded, labelled by entity",
		}, []string{"entity"}),
		SnapshotRecordsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "btocore_snapshot_records_rejected_total",
			Help: "Total interchange rows rejected, labelled by entity",
		}, []string{"entity"}),
	}
}
