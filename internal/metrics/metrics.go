package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu                  sync.RWMutex
	SessionsStarted     int64
	SessionsScored      int64
	Transcriptions      int64
	PDFExports          int64
	UpstreamCallsTotal  int64
	UpstreamCallsFailed int64
	StartedAt           time.Time
	LastUpdateTime      time.Time
}

func NewMetrics() *Metrics {
	now := time.Now()
	return &Metrics{
		StartedAt:      now,
		LastUpdateTime: now,
	}
}

func (m *Metrics) IncrementSessionsStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SessionsStarted++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementSessionsScored() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SessionsScored++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementTranscriptions() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Transcriptions++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementPDFExports() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PDFExports++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementUpstreamCall(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpstreamCallsTotal++
	if !success {
		m.UpstreamCallsFailed++
	}
	m.LastUpdateTime = time.Now()
}

// Snapshot is a copy of the counters, safe to serialise.
type Snapshot struct {
	SessionsStarted     int64     `json:"sessions_started"`
	SessionsScored      int64     `json:"sessions_scored"`
	Transcriptions      int64     `json:"transcriptions"`
	PDFExports          int64     `json:"pdf_exports"`
	UpstreamCallsTotal  int64     `json:"upstream_calls_total"`
	UpstreamCallsFailed int64     `json:"upstream_calls_failed"`
	UptimeSeconds       int64     `json:"uptime_seconds"`
	LastUpdateTime      time.Time `json:"last_update_time"`
}

func (m *Metrics) GetSnapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{
		SessionsStarted:     m.SessionsStarted,
		SessionsScored:      m.SessionsScored,
		Transcriptions:      m.Transcriptions,
		PDFExports:          m.PDFExports,
		UpstreamCallsTotal:  m.UpstreamCallsTotal,
		UpstreamCallsFailed: m.UpstreamCallsFailed,
		UptimeSeconds:       int64(time.Since(m.StartedAt).Seconds()),
		LastUpdateTime:      m.LastUpdateTime,
	}
}
