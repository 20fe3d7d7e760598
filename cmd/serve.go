// Copyright 2024 Google Inc. All Rights Reserved.
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

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/distfs/naming/cfg"
	"github.com/distfs/naming/clock"
	"github.com/distfs/naming/internal/logger"
	"github.com/distfs/naming/naming"
	"github.com/distfs/naming/rpc"
	"github.com/distfs/naming/rpcwire"
	"github.com/distfs/naming/telemetry"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"golang.org/x/sync/errgroup"
)

// run builds a naming.Server from c, serves the Service and Registration
// facades, and blocks until SIGINT/SIGTERM or a listener failure, at
// which point it stops accepting new connections and calls Server.Stop.
// Mirrors the teacher's flag-bind-then-run shape in cmd/mount.go,
// generalized from "mount a bucket and serve a FUSE loop" to "build a
// server and serve two listeners."
func run(c cfg.Config) error {
	logger.Init(c.Logging)
	defer logger.Shutdown()

	if c.Logging.FilePath != "" {
		cw := &CrashWriter{fileName: c.Logging.FilePath + ".crash"}
		defer func() {
			if r := recover(); r != nil {
				fmt.Fprintf(cw, "panic: %v\n%s", r, debug.Stack())
				panic(r)
			}
		}()
	}

	metrics, stopMetrics, err := newMetricHandle()
	if err != nil {
		return fmt.Errorf("building metrics: %w", err)
	}
	defer stopMetrics()

	srv := naming.NewServer(
		naming.Config{
			ReplicationWorkers: c.ReplicationWorkers,
			ReadHotThreshold:   c.ReadHotThreshold,
		},
		rpc.NewCommandDialer(http.DefaultClient),
		clock.RealClock{},
		metrics,
	)

	serviceMux := http.NewServeMux()
	serviceMux.Handle("/rpc", rpcwire.HTTPHandler(rpc.NewServiceDispatcher(srv).AsRPCWireHandler()))
	serviceMux.Handle("/metrics", promhttp.Handler())
	serviceSrv := &http.Server{Addr: fmt.Sprintf(":%d", c.ServicePort), Handler: serviceMux}

	registrationMux := http.NewServeMux()
	registrationMux.Handle("/rpc", rpcwire.HTTPHandler(rpc.NewRegistrationDispatcher(srv).AsRPCWireHandler()))
	registrationSrv := &http.Server{Addr: fmt.Sprintf(":%d", c.RegistrationPort), Handler: registrationMux}

	var g errgroup.Group
	g.Go(func() error {
		logger.Infof("service listener starting on %s", serviceSrv.Addr)
		if err := serviceSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("service listener: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		logger.Infof("registration listener starting on %s", registrationSrv.Addr)
		if err := registrationSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("registration listener: %w", err)
		}
		return nil
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	listenersDone := make(chan struct{})
	go func() { g.Wait(); close(listenersDone) }()

	var cause error
	select {
	case sig := <-sigCh:
		logger.Infof("received signal %s, shutting down", sig)
	case <-srv.Stopped():
		cause = srv.Cause()
	case <-listenersDone:
		// A listener exited before any shutdown signal; g.Wait below
		// picks up its error.
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = serviceSrv.Shutdown(shutdownCtx)
	_ = registrationSrv.Shutdown(shutdownCtx)
	srv.Stop(shutdownCtx, cause)

	if err := g.Wait(); err != nil {
		logger.Errorf("listener failure: %v", err)
		if cause == nil {
			cause = err
		}
	}

	return cause
}

// newMetricHandle wires an OpenTelemetry Prometheus exporter, matching
// the teacher's otel/prometheus pairing, and returns a stop func that
// flushes the meter provider on shutdown. Scraped at the service
// listener's /metrics.
func newMetricHandle() (telemetry.MetricHandle, func(), error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, nil, err
	}
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	meter := provider.Meter("github.com/distfs/naming")

	handle, err := telemetry.NewOTelMetrics(meter)
	if err != nil {
		return nil, nil, err
	}

	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = provider.Shutdown(ctx)
	}
	return handle, stop, nil
}
