package stats_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-pmm/pkg/stats"
)

func TestDumpMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pmm_test_total",
		Help: "Test counter.",
	})
	reg.MustRegister(counter)
	counter.Add(3)

	path := filepath.Join(t.TempDir(), "metrics")
	require.NoError(t, stats.DumpMetrics(path, reg))
	require.NoError(t, stats.DumpMetrics(path, reg))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(content), "pmm_test_total")
}
