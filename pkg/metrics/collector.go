// Package metrics exposes Prometheus instrumentation for the bot.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	updatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_updates_total",
			Help: "Total number of handled Telegram updates labeled by status",
		},
		[]string{"status"},
	)
	updateDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bot_update_duration_seconds",
			Help:    "Duration of update handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
	remindersSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reminders_sent_total",
			Help: "Reminder notifications delivered, labeled by slot",
		},
		[]string{"label"},
	)
	reminderSendFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reminder_send_failures_total",
			Help: "Reminder notifications that failed to deliver",
		},
	)
	reminderResponsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reminder_responses_total",
			Help: "User responses to reminder notifications, labeled by action",
		},
		[]string{"action"},
	)
	broadcastMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "broadcast_messages_total",
			Help: "Broadcast deliveries labeled by per-recipient status",
		},
		[]string{"status"},
	)
)

// RecordUpdate increments the update counter and records handling duration.
func RecordUpdate(status string, duration time.Duration) {
	if status == "" {
		status = "unknown"
	}

	updatesTotal.WithLabelValues(status).Inc()
	updateDurationSeconds.Observe(duration.Seconds())
}

// RecordReminderSent counts a delivered reminder for the given slot label.
func RecordReminderSent(label string) {
	remindersSentTotal.WithLabelValues(label).Inc()
}

// RecordReminderSendFailure counts a reminder that could not be delivered.
func RecordReminderSendFailure() {
	reminderSendFailuresTotal.Inc()
}

// RecordReminderResponse counts a done/remind-later tap.
func RecordReminderResponse(action string) {
	reminderResponsesTotal.WithLabelValues(action).Inc()
}

// RecordBroadcastDelivery counts one broadcast recipient outcome.
func RecordBroadcastDelivery(status string) {
	broadcastMessagesTotal.WithLabelValues(status).Inc()
}
