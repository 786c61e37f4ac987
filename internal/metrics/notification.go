package metrics

import "time"

// RecordNotification records one delivery attempt to a notification sink
func (m *Metrics) RecordNotification(sink, entity string, duration time.Duration, err error) {
	m.safeExecute("RecordNotification", func() {
		result := "success"
		if err != nil {
			result = "error"
		}
		m.NotificationsTotal.WithLabelValues(sink, entity, result).Inc()
		m.NotificationDuration.WithLabelValues(sink).Observe(duration.Seconds())
	})
}

// IncrementNotificationDropped counts an event dropped by a full dispatch queue
func (m *Metrics) IncrementNotificationDropped() {
	m.safeExecute("IncrementNotificationDropped", func() {
		m.NotificationsDroppedTotal.Inc()
	})
}

// SetWebsocketClients sets the connected websocket client gauge
func (m *Metrics) SetWebsocketClients(count int) {
	m.safeExecute("SetWebsocketClients", func() {
		m.WebsocketClients.Set(float64(count))
	})
}
