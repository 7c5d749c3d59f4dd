// Copyright 2026 Blink Labs Software
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

package showcase

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	intents  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		intents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "showcase_intents_total",
				Help: "Intents handled, by intent and result",
			},
			[]string{"intent", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "showcase_intent_duration_seconds",
				Help:    "Time to build, sign and submit an intent",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"intent"},
		),
	}
	var err error
	if m.intents, err = register(reg, m.intents); err != nil {
		return nil, err
	}
	if m.duration, err = register(reg, m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

// register adds the collector, reusing one already registered under the
// same name
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *metrics) observe(intent string, err error, elapsed time.Duration) {
	m.intents.WithLabelValues(intent, resultLabel(err)).Inc()
	m.duration.WithLabelValues(intent).Observe(elapsed.Seconds())
}
