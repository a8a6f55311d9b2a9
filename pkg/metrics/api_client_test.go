package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestAPIClientMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewAPIClientMetrics(reg)
	metrics.Observe("admin/product", "GET", 200, 120*time.Millisecond)
	metrics.Observe("admin/product", "GET", 200, 80*time.Millisecond)
	metrics.Observe("admin/product", "GET", 0, 10*time.Millisecond)
	metrics.IncRejected("missing_token")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "kermes_api_requests_total", map[string]string{"status": "200"}); err != nil {
		t.Fatalf("fetch requests: %v", err)
	} else if got != 2 {
		t.Fatalf("expected requests=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "kermes_api_requests_total", map[string]string{"status": "error"}); err != nil {
		t.Fatalf("fetch transport errors: %v", err)
	} else if got != 1 {
		t.Fatalf("expected errors=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "kermes_api_requests_rejected_total", map[string]string{"reason": "missing_token"}); err != nil {
		t.Fatalf("fetch rejected: %v", err)
	} else if got != 1 {
		t.Fatalf("expected rejected=1, got %f", got)
	}

	if got, err := fetchHistogramCount(mfs, "kermes_api_request_duration_seconds", map[string]string{"resource": "admin/product"}); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got != 3 {
		t.Fatalf("expected 3 observations, got %d", got)
	}
}

func TestAPIClientMetricsNilSafe(t *testing.T) {
	var m *APIClientMetrics
	m.Observe("x", "GET", 200, time.Second)
	m.IncRejected("x")

	NewAPIClientMetrics(nil).Observe("x", "GET", 200, time.Second)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing labels %v", name, labels)
}

func fetchHistogramCount(mfs []*dto.MetricFamily, name string, labels map[string]string) (uint64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetHistogram().GetSampleCount(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing labels %v", name, labels)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	for key, value := range want {
		found := false
		for _, pair := range pairs {
			if pair.GetName() == key && pair.GetValue() == value {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
