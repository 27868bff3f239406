// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T) map[string]*dto.MetricFamily {
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	m := make(map[string]*dto.MetricFamily)
	for _, mf := range families {
		m[mf.GetName()] = mf
	}
	return m
}

func TestPromMetrics(t *testing.T) {
	InitializePrometheusMetrics()

	clauses := CounterVec("clauses_count", []string{"outcome"})
	for i := range 10 {
		outcome := "success"
		if i%2 == 1 {
			outcome = "reverted"
		}
		clauses.AddWithLabel(1, map[string]string{"outcome": outcome})
	}

	Counter("upgrades_count").Add(1)
	// same meter is returned on lookup
	Counter("upgrades_count").Add(2)

	head := Gauge("head_number")
	head.Set(7)
	head.Add(1)

	gas := Histogram("gas_used", BucketGas)
	gas.Observe(21_000)
	gas.Observe(79_000)

	m := gather(t)
	require.Equal(t, float64(3), m["tokenstake_upgrades_count"].Metric[0].GetCounter().GetValue())
	require.Equal(t, float64(8), m["tokenstake_head_number"].Metric[0].GetGauge().GetValue())
	require.Equal(t, float64(100_000), m["tokenstake_gas_used"].Metric[0].GetHistogram().GetSampleSum())
	require.Equal(t, uint64(2), m["tokenstake_gas_used"].Metric[0].GetHistogram().GetSampleCount())

	vec := m["tokenstake_clauses_count"].Metric
	require.Len(t, vec, 2)
	require.Equal(t, float64(10), vec[0].GetCounter().GetValue()+vec[1].GetCounter().GetValue())
}

func TestLazyLoad(t *testing.T) {
	calls := 0
	get := LazyLoad(func() int {
		calls++
		return calls
	})
	require.Equal(t, 1, get())
	require.Equal(t, 1, get())
	require.Equal(t, 1, calls)
}
