// Package metrics defines and registers all custom Prometheus metrics for the
// e-governance document portal. It is the single source of truth for metric
// names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// RegistrationsTotal counts created accounts.
// Label:
//   - role: "admin", "csc" or "customer"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts registered, by role.",
	},
	[]string{"role"},
)

// LoginFailuresTotal counts refused logins.
// Labels:
//   - portal: the portal attempted ("admin", "csc", "customer")
//   - reason: "bad_credentials", "disabled", "wrong_portal"
var LoginFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_failures_total",
		Help:      "Total number of refused login attempts, by portal and reason.",
	},
	[]string{"portal", "reason"},
)

// ApplicationsSubmittedTotal counts customer applications created.
// Label:
//   - service_type: catalog service name
var ApplicationsSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "applications_submitted_total",
		Help:      "Total number of service applications submitted, by service type.",
	},
	[]string{"service_type"},
)

// StatusTransitionsTotal counts CSC-driven application status updates.
// Label:
//   - status: the new status applied (e.g. "APPLIED", "REJECTED")
var StatusTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_transitions_total",
		Help:      "Total number of application status transitions, by new status.",
	},
	[]string{"status"},
)

// DocumentsUploadedTotal counts submitted documents stored with applications.
var DocumentsUploadedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "documents_uploaded_total",
		Help:      "Total number of customer-submitted documents stored.",
	},
)

// IssuedDocumentsTotal counts issued PDFs attached by CSC operators.
var IssuedDocumentsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "issued_documents_total",
		Help:      "Total number of issued documents attached to applications.",
	},
)

// DocumentBytes observes the size of stored blobs.
// Label:
//   - kind: "submitted" or "issued"
var DocumentBytes = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "document_bytes",
		Help:      "Size distribution of stored document blobs.",
		Buckets:   prometheus.ExponentialBuckets(1024, 4, 8), // 1KiB .. 16MiB
	},
	[]string{"kind"},
)
