// Package passrecorder persists escalation pass summaries to InfluxDB so
// operators can chart pass volume and duration over time. Recording is best
// effort: a write failure is logged and never fails the pass.
package passrecorder

import (
	"context"
	"log/slog"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/nonthaphat-dev/lendwatch/internal/domain"
)

type influxDBRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	bucket   string
	org      string
}

// NewRecorder returns an InfluxDB-backed recorder, or the noop recorder when
// recording is disabled or not configured. It never fails startup.
func NewRecorder(ctx context.Context, cfg *Config) (domain.PassRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "pass result recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.InfluxDBToken == "" || cfg.InfluxDBOrg == "" {
		slog.WarnContext(ctx, "InfluxDB token or org not configured, pass result recording disabled",
			slog.String("url", cfg.InfluxDBURL),
		)
		return NewNoopRecorder(), nil
	}

	client := influxdb2.NewClient(cfg.InfluxDBURL, cfg.InfluxDBToken)
	writeAPI := client.WriteAPIBlocking(cfg.InfluxDBOrg, cfg.InfluxDBBucket)

	slog.InfoContext(ctx, "pass result recorder initialized",
		slog.String("type", "influxdb"),
		slog.String("url", cfg.InfluxDBURL),
		slog.String("bucket", cfg.InfluxDBBucket),
	)

	return &influxDBRecorder{
		client:   client,
		writeAPI: writeAPI,
		bucket:   cfg.InfluxDBBucket,
		org:      cfg.InfluxDBOrg,
	}, nil
}

func (r *influxDBRecorder) RecordPass(ctx context.Context, rec domain.PassRecord) error {
	runID := rec.RunID
	if runID == "" {
		runID = "default"
	}

	point := influxdb2.NewPoint(
		"escalation_pass",
		map[string]string{
			"run_id": runID,
		},
		map[string]any{
			"evaluated":             rec.Evaluated,
			"created":               rec.Created,
			"skipped":               rec.Skipped,
			"due_soon_created":      rec.DueSoonCreated,
			"due_very_soon_created": rec.DueVerySoonCreated,
			"overdue_created":       rec.OverdueCreated,
			"duration_ms":           rec.Duration.Milliseconds(),
			"failed":                rec.Failed,
			"started_unix":          rec.StartedAt.Unix(),
		},
		time.Now(),
	)

	if err := r.writeAPI.WritePoint(ctx, point); err != nil {
		slog.WarnContext(ctx, "failed to write pass result to InfluxDB",
			slog.String("error", err.Error()),
			slog.String("run_id", runID),
		)
	}

	return nil
}

func (r *influxDBRecorder) Close() error {
	if r.client != nil {
		r.client.Close()
	}
	return nil
}
