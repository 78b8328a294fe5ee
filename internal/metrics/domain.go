package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"jobportal/internal/policy"
)

var (
	authFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_failures_total",
			Help:      "身份认证失败次数，按原因统计。",
		},
		[]string{"reason"},
	)

	authzDenied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "authz_denied_total",
			Help:      "授权拒绝次数，按操作与原因统计。",
		},
		[]string{"action", "reason"},
	)

	applicationsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "applications_submitted_total",
			Help:      "成功提交的职位申请数。",
		},
	)

	applicationStatusChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "application_status_changes_total",
			Help:      "申请状态变更次数，按新状态统计。",
		},
		[]string{"status"},
	)
)

// AuthFailure records a failed identity resolution or login.
func AuthFailure(reason string) {
	authFailures.WithLabelValues(reason).Inc()
}

// AuthzDenied is a policy.Observer.
func AuthzDenied(action policy.Action, reason policy.DenyReason) {
	authzDenied.WithLabelValues(action.String(), string(reason)).Inc()
}

// ApplicationSubmitted counts an accepted application.
func ApplicationSubmitted() {
	applicationsSubmitted.Inc()
}

// ApplicationStatusChanged counts a status change to status.
func ApplicationStatusChanged(status string) {
	applicationStatusChanges.WithLabelValues(status).Inc()
}
