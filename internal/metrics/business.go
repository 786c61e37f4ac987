package metrics

// IncrementThreadCreated increments thread creation counter
func (m *Metrics) IncrementThreadCreated() {
	m.safeExecute("IncrementThreadCreated", func() {
		m.ThreadCreatedTotal.Inc()
	})
}

// IncrementCommentCreated increments comment creation counter
func (m *Metrics) IncrementCommentCreated() {
	m.safeExecute("IncrementCommentCreated", func() {
		m.CommentCreatedTotal.Inc()
	})
}

// IncrementReplyCreated increments reply creation counter
func (m *Metrics) IncrementReplyCreated() {
	m.safeExecute("IncrementReplyCreated", func() {
		m.ReplyCreatedTotal.Inc()
	})
}

// RecordLikeToggle counts a like toggle; liked is the state after the toggle
func (m *Metrics) RecordLikeToggle(entity string, liked bool) {
	m.safeExecute("RecordLikeToggle", func() {
		action := "unlike"
		if liked {
			action = "like"
		}
		m.LikeToggledTotal.WithLabelValues(entity, action).Inc()
	})
}

// RecordSignIn counts a sign-in attempt by result
func (m *Metrics) RecordSignIn(result string) {
	m.safeExecute("RecordSignIn", func() {
		m.SignInTotal.WithLabelValues(result).Inc()
	})
}

// SetUsersTotal sets total users gauge
func (m *Metrics) SetUsersTotal(count int64) {
	m.safeExecute("SetUsersTotal", func() {
		m.UsersTotal.Set(float64(count))
	})
}

// SetTopicsTotal sets total topics gauge
func (m *Metrics) SetTopicsTotal(count int64) {
	m.safeExecute("SetTopicsTotal", func() {
		m.TopicsTotal.Set(float64(count))
	})
}

// SetThreadsTotal sets total threads gauge
func (m *Metrics) SetThreadsTotal(count int64) {
	m.safeExecute("SetThreadsTotal", func() {
		m.ThreadsTotal.Set(float64(count))
	})
}
