// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package metrics holds the optional Prometheus instrumentation for cmd/sem,
// served on --metrics-addr the same way the teacher's index command exposes
// its own indexing metrics.
package metrics

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FilesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sem_files_processed_total",
		Help: "Files read and handed to an extractor.",
	})
	EntitiesExtracted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sem_entities_extracted_total",
		Help: "Entities produced across all extractors.",
	})
	GraphBuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sem_graph_build_duration_seconds",
		Help:    "Wall time spent building the entity reference graph.",
		Buckets: prometheus.DefBuckets,
	})
)

// Serve starts the /metrics HTTP endpoint on addr in the background. It
// never blocks the caller; listen errors are logged, not returned, mirroring
// the fire-and-forget goroutine the teacher's index command starts its
// metrics server with.
func Serve(addr string, logger *slog.Logger) {
	if addr == "" {
		return
	}
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
		logger.Info("metrics.http.start", "addr", addr, "path", "/metrics")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Warn("metrics.http.error", "err", err)
		}
	}()
}
