package metrics

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"

	"hermes/pkg/logger"
)

// LogCollector exports gauge-style metrics about the durable event log:
// total events per topic and per-consumer delivery lag.
type LogCollector struct {
	log *logger.Logger
	db  *sqlx.DB

	topicDepth  *prometheus.Desc
	consumerLag *prometheus.Desc
}

// NewLogCollector creates a new event log collector
func NewLogCollector(log *logger.Logger, db *sqlx.DB) *LogCollector {
	return &LogCollector{
		log: log,
		db:  db,

		topicDepth: prometheus.NewDesc(
			"hermes_log_topic_events",
			"Events currently retained per topic",
			[]string{"topic"}, nil,
		),
		consumerLag: prometheus.NewDesc(
			"hermes_log_consumer_lag",
			"Undelivered events per consumer and topic",
			[]string{"consumer", "topic"}, nil,
		),
	}
}

// Describe implements prometheus.Collector
func (c *LogCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.topicDepth
	ch <- c.consumerLag
}

// Collect implements prometheus.Collector
func (c *LogCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c.collectTopicDepth(ctx, ch)
	c.collectConsumerLag(ctx, ch)
}

func (c *LogCollector) collectTopicDepth(ctx context.Context, ch chan<- prometheus.Metric) {
	rows := []struct {
		Topic string `db:"topic"`
		Count int64  `db:"count"`
	}{}

	query := `SELECT topic, COUNT(*) AS count FROM events GROUP BY topic`
	if err := c.db.SelectContext(ctx, &rows, query); err != nil {
		c.log.Warnf("log collector: topic depth query failed: %v", err)
		return
	}

	for _, row := range rows {
		ch <- prometheus.MustNewConstMetric(c.topicDepth, prometheus.GaugeValue, float64(row.Count), row.Topic)
	}
}

func (c *LogCollector) collectConsumerLag(ctx context.Context, ch chan<- prometheus.Metric) {
	rows := []struct {
		Consumer string `db:"consumer_id"`
		Topic    string `db:"topic"`
		Lag      int64  `db:"lag"`
	}{}

	query := `
		SELECT o.consumer_id, o.topic,
		       COALESCE((SELECT COUNT(*) FROM events e WHERE e.topic = o.topic AND e.id > o.last_delivered_event_id), 0) AS lag
		FROM consumer_offsets o`
	if err := c.db.SelectContext(ctx, &rows, query); err != nil {
		c.log.Warnf("log collector: consumer lag query failed: %v", err)
		return
	}

	for _, row := range rows {
		ch <- prometheus.MustNewConstMetric(c.consumerLag, prometheus.GaugeValue, float64(row.Lag), row.Consumer, row.Topic)
	}
}
