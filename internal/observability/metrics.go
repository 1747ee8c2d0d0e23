package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	signInTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hours_ledger",
		Subsystem: "auth",
		Name:      "sign_in_total",
		Help:      "Sign-in attempts by outcome.",
	}, []string{"result"})
	recordsCreatedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hours_ledger",
		Subsystem: "records",
		Name:      "created_total",
		Help:      "Hour records created, by kind.",
	}, []string{"kind"})
	recordsDeletedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hours_ledger",
		Subsystem: "records",
		Name:      "deleted_total",
		Help:      "Hour records deleted, by kind.",
	}, []string{"kind"})
	proofUploadsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "hours_ledger",
		Subsystem: "proof",
		Name:      "uploads_total",
		Help:      "Proof blobs persisted.",
	})
	proofRejectsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hours_ledger",
		Subsystem: "proof",
		Name:      "rejects_total",
		Help:      "Proof files rejected by validation, by reason.",
	}, []string{"reason"})
)

func init() {
	prometheus.MustRegister(signInTotal, recordsCreatedTotal, recordsDeletedTotal, proofUploadsTotal, proofRejectsTotal)
}

func RecordSignIn(result string) {
	signInTotal.WithLabelValues(result).Inc()
}

func RecordCreated(kind string) {
	recordsCreatedTotal.WithLabelValues(kind).Inc()
}

func RecordDeleted(kind string) {
	recordsDeletedTotal.WithLabelValues(kind).Inc()
}

func ProofUploaded() {
	proofUploadsTotal.Inc()
}

func ProofRejected(reason string) {
	proofRejectsTotal.WithLabelValues(reason).Inc()
}
