// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNoopMetrics(t *testing.T) {
	server := httptest.NewServer(HTTPHandler())
	t.Cleanup(server.Close)

	Counter("noop_count").Add(1)
	CounterVec("noop_count_vec", []string{"outcome"}).AddWithLabel(1, map[string]string{"unknown": "label"})
	Gauge("noop_gauge").Set(10)
	Histogram("noop_hist", BucketGas).Observe(21_000)

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
