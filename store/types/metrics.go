// Copyright 2019 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package types

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RegistryMetrics holds the Prometheus metrics of a Registry. A nil
// *RegistryMetrics records nothing.
type RegistryMetrics struct {
	Resolutions *prometheus.CounterVec
	Interned    prometheus.Gauge
}

// NewRegistryMetrics creates and registers registry metrics with |reg|.
func NewRegistryMetrics(reg prometheus.Registerer) *RegistryMetrics {
	resolutions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "colblock_type_resolutions_total",
		Help: "Total type resolutions by result",
	}, []string{"result"})

	interned := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "colblock_interned_types",
		Help: "Number of distinct types interned by the registry",
	})

	reg.MustRegister(resolutions, interned)

	return &RegistryMetrics{
		Resolutions: resolutions,
		Interned:    interned,
	}
}

func (m *RegistryMetrics) observe(hit bool, err error) {
	if m == nil {
		return
	}
	switch {
	case err != nil:
		m.Resolutions.WithLabelValues("error").Inc()
	case hit:
		m.Resolutions.WithLabelValues("hit").Inc()
	default:
		m.Resolutions.WithLabelValues("miss").Inc()
	}
}

func (m *RegistryMetrics) setInterned(n int64) {
	if m == nil {
		return
	}
	m.Interned.Set(float64(n))
}
