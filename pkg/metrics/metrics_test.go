package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestPaymentMetricsExports(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPaymentMetrics(reg)
	m.IncProcessed("ok")
	m.IncProcessed("error")
	m.IncReactivation()
	m.ObserveAmount(30)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "payments_processed_total", "outcome", "ok"); err != nil {
		t.Fatalf("fetch processed ok: %v", err)
	} else if got != 1 {
		t.Fatalf("expected ok=1, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "payments_processed_total", "outcome", "error"); err != nil {
		t.Fatalf("fetch processed error: %v", err)
	} else if got != 1 {
		t.Fatalf("expected error=1, got %f", got)
	}

	reactivations := findMetricFamily(mfs, "member_reactivations_total")
	if reactivations == nil || len(reactivations.GetMetric()) == 0 {
		t.Fatal("expected reactivations metric family")
	}
	if got := reactivations.GetMetric()[0].GetCounter().GetValue(); got != 1 {
		t.Fatalf("expected reactivations=1, got %f", got)
	}
}

func TestJobMetricsExports(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewJobMetrics(reg)
	job := "nightly-backup"
	m.ObserveDuration(job, 250*time.Millisecond)
	m.IncSuccess(job)
	m.IncFailure(job)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "job_success", "job", job); err != nil {
		t.Fatalf("fetch success: %v", err)
	} else if got != 1 {
		t.Fatalf("expected success=1, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "job_failure", "job", job); err != nil {
		t.Fatalf("fetch failure: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failure=1, got %f", got)
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	p := NewPaymentMetrics(nil)
	p.IncProcessed("ok")
	p.IncReactivation()
	p.ObserveAmount(1)

	j := NewJobMetrics(nil)
	j.IncSuccess("x")
	j.IncFailure("x")
	j.ObserveDuration("x", time.Second)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		for _, pair := range metric.GetLabel() {
			if pair.GetName() == label && pair.GetValue() == value {
				return metric.GetCounter().GetValue(), nil
			}
		}
	}
	return 0, fmt.Errorf("label %s=%s not found on %q", label, value, name)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}
