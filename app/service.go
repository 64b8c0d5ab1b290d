package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kilianp07/driverboard/api"
	authapi "github.com/kilianp07/driverboard/api/auth"
	proxyapi "github.com/kilianp07/driverboard/api/proxy"
	scheduleapi "github.com/kilianp07/driverboard/api/schedule"
	tasksapi "github.com/kilianp07/driverboard/api/tasks"
	"github.com/kilianp07/driverboard/config"
	"github.com/kilianp07/driverboard/core/fleet"
	coremetrics "github.com/kilianp07/driverboard/core/metrics"
	"github.com/kilianp07/driverboard/core/poll"
	"github.com/kilianp07/driverboard/core/schedule"
	"github.com/kilianp07/driverboard/core/session"
	"github.com/kilianp07/driverboard/core/snapshot"
	"github.com/kilianp07/driverboard/core/status"
	"github.com/kilianp07/driverboard/infra/logger"
	"github.com/kilianp07/driverboard/infra/metrics"
	"github.com/kilianp07/driverboard/infra/mqtt"
	"github.com/kilianp07/driverboard/infra/upstream"
	"github.com/kilianp07/driverboard/internal/eventbus"
)

// Service wires the facade: upstream client, snapshot poller, session
// service, HTTP API, metrics sinks and the optional MQTT announcer.
type Service struct {
	cfg       *config.Config
	log       logger.Logger
	store     *snapshot.MemoryStore
	poller    *poll.Poller
	bus       *eventbus.Bus
	sink      coremetrics.MetricsSink
	announcer mqtt.Publisher
	srv       *http.Server
}

// New builds a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	sessions, err := session.New(cfg.Auth.Secret)
	if err != nil {
		return nil, fmt.Errorf("session service: %w", err)
	}
	client := upstream.New(cfg.Upstream)
	resolver := fleet.NewResolver(cfg.Fleet)
	classifier := status.NewClassifier(resolver)
	store := snapshot.NewMemoryStore()
	bus := eventbus.New()

	var sinks []coremetrics.MetricsSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(nil)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	var sink coremetrics.MetricsSink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	var announcer mqtt.Publisher
	if cfg.MQTT.Enabled {
		announcer, err = mqtt.NewPahoPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt announcer: %w", err)
		}
	}

	svc := &Service{
		cfg:       cfg,
		log:       logg,
		store:     store,
		bus:       bus,
		sink:      sink,
		announcer: announcer,
	}
	svc.poller = poll.New(cfg.Poll, time.Now, logger.New("poller"),
		svc.blocksFetch(client),
		svc.rowsFetch(client, classifier),
	)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logg.Errorf("health write: %v", err)
		}
	})
	mux.Handle("POST /api/login", api.WithLogging(logg, authapi.NewLoginHandler(sessions, time.Now)))
	mux.Handle("GET /api/blocks", api.WithLogging(logg, scheduleapi.NewBlocksHandler(client)))
	mux.Handle("GET /api/tasks", api.WithLogging(logg, tasksapi.NewTasksHandler(sessions, client, classifier, time.Now)))
	mux.Handle("GET /api/summary", api.WithLogging(logg, tasksapi.NewSummaryHandler(sessions, store, time.Now)))
	mux.Handle("/api/sheet-proxy", api.WithLogging(logg, proxyapi.NewSheetProxyHandler(client)))
	svc.srv = &http.Server{Addr: cfg.Server.Addr, Handler: mux}

	return svc, nil
}

// blocksFetch refreshes the grouped day schedule half of the snapshot.
func (s *Service) blocksFetch(client *upstream.Client) poll.Fetch {
	return poll.Fetch{
		Name: "blocks",
		Run: func(ctx context.Context) error {
			start := time.Now()
			date, records, err := client.FetchBlocks(ctx)
			rec := coremetrics.FetchRecord{
				Source:   "blocks",
				OK:       err == nil,
				Records:  len(records),
				Duration: time.Since(start),
				At:       start,
			}
			if serr := s.sink.RecordFetch([]coremetrics.FetchRecord{rec}); serr != nil {
				s.log.Errorf("record fetch: %v", serr)
			}
			if err != nil {
				return err
			}
			s.store.SetBlocks(date, schedule.Group(schedule.Normalize(records)), time.Now())
			s.publishSnapshot()
			return nil
		},
	}
}

// rowsFetch refreshes the live dashboard rows half of the snapshot.
func (s *Service) rowsFetch(client *upstream.Client, classifier *status.Classifier) poll.Fetch {
	return poll.Fetch{
		Name: "rows",
		Run: func(ctx context.Context) error {
			start := time.Now()
			records, err := client.FetchRows(ctx)
			rec := coremetrics.FetchRecord{
				Source:   "rows",
				OK:       err == nil,
				Records:  len(records),
				Duration: time.Since(start),
				At:       start,
			}
			if serr := s.sink.RecordFetch([]coremetrics.FetchRecord{rec}); serr != nil {
				s.log.Errorf("record fetch: %v", serr)
			}
			if err != nil {
				return err
			}
			s.store.SetRows(classifier.Rows(records, time.Now()), time.Now())
			s.publishSnapshot()
			return nil
		},
	}
}

func (s *Service) publishSnapshot() {
	s.bus.Publish(snapshot.Updated{Snap: s.store.Get()})
}

// Run starts the poller, the announcer fan-out, the metrics listener and
// the API server, blocking until the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	go s.poller.Run(ctx)
	go s.fanout(ctx)
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("server shutdown: %v", err)
		}
	}()
	s.log.Infof("listening on %s", s.cfg.Server.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// fanout forwards snapshot updates to the announcer and the snapshot
// gauges until the context is canceled.
func (s *Service) fanout(ctx context.Context) {
	sub := s.bus.Subscribe()
	defer s.bus.Unsubscribe(sub)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub:
			if !ok {
				return
			}
			upd, ok := ev.(snapshot.Updated)
			if !ok {
				continue
			}
			if sr, ok := s.sink.(coremetrics.SnapshotRecorder); ok {
				rec := coremetrics.SnapshotRecord{
					Drivers: len(upd.Snap.ByDriver),
					Rows:    len(upd.Snap.Rows),
					At:      time.Now(),
				}
				if err := sr.RecordSnapshot(rec); err != nil {
					s.log.Errorf("record snapshot: %v", err)
				}
			}
			if s.announcer != nil {
				payload, err := json.Marshal(upd.Snap.Rows)
				if err != nil {
					s.log.Errorf("marshal snapshot: %v", err)
					continue
				}
				if err := s.announcer.Publish(payload); err != nil {
					s.log.Errorf("announce snapshot: %v", err)
				}
			}
		}
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.poller.Stop()
	if s.announcer != nil {
		s.announcer.Close()
	}
	s.bus.Close()
	return nil
}
