package middleware

import (
	"github.com/randy-rebucas/localpro-pos-sub001/pkg/telemetry"
)

// TenancyMetrics holds the counters emitted by the tenant middleware.
type TenancyMetrics struct {
	Resolutions *telemetry.Counter
	Violations  *telemetry.Counter
}

// NewTenancyMetrics registers the tenancy counters.
func NewTenancyMetrics() (*TenancyMetrics, error) {
	resolutions, err := telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "tenancy_resolutions_total",
		Description: "Tenant resolutions by source signal",
		Unit:        "{resolution}",
	})
	if err != nil {
		return nil, err
	}
	violations, err := telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "tenancy_access_violations_total",
		Description: "Cross-tenant access violations detected",
		Unit:        "{violation}",
	})
	if err != nil {
		return nil, err
	}
	return &TenancyMetrics{
		Resolutions: resolutions,
		Violations:  violations,
	}, nil
}
