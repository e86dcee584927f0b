package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

// sample gathers reg and returns the series of family name whose labels
// include every name/value pair in labelPairs.
func sample(t *testing.T, reg *prometheus.Registry, name string, labelPairs ...string) *dto.Metric {
	t.Helper()
	require.Zero(t, len(labelPairs)%2, "label pairs must be name/value")

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
	series:
		for _, m := range family.GetMetric() {
			have := map[string]string{}
			for _, lp := range m.GetLabel() {
				have[lp.GetName()] = lp.GetValue()
			}
			for i := 0; i < len(labelPairs); i += 2 {
				if have[labelPairs[i]] != labelPairs[i+1] {
					continue series
				}
			}
			return m
		}
	}
	t.Fatalf("no series %s%v", name, labelPairs)
	return nil
}
