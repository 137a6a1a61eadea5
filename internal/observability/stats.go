package observability

import (
	"sync"
	"sync/atomic"
)

type StatsSnapshot struct {
	Requests          uint64            `json:"requests"`
	Matched           uint64            `json:"matched"`
	Fallbacks         uint64            `json:"fallbacks"`
	ErrorsTotal       uint64            `json:"errors_total"`
	ResponseMicrosAvg float64           `json:"response_micros_avg"`
	TopicHits         map[string]uint64 `json:"topic_hits,omitempty"`
	ErrorsByType      map[string]uint64 `json:"errors_by_type,omitempty"`
	ErrorsByComponent map[string]uint64 `json:"errors_by_component,omitempty"`
}

var (
	requests    uint64
	matched     uint64
	fallbacks   uint64
	errorsTotal uint64

	answerCount uint64
	answerNanos uint64

	statsMu           sync.Mutex
	topicHits         = map[string]uint64{}
	errorsByType      = map[string]uint64{}
	errorsByComponent = map[string]uint64{}
)

func IncRequest() {
	atomic.AddUint64(&requests, 1)
}

// IncAnswer records how a reply was chosen. An empty topic means the
// fallback pool was used.
func IncAnswer(topic string) {
	if topic == "" {
		atomic.AddUint64(&fallbacks, 1)
		return
	}
	atomic.AddUint64(&matched, 1)
	statsMu.Lock()
	topicHits[topic]++
	statsMu.Unlock()
}

func ObserveAnswerDuration(seconds float64) {
	if seconds <= 0 {
		return
	}
	atomic.AddUint64(&answerCount, 1)
	atomic.AddUint64(&answerNanos, uint64(seconds*1e9))
}

func IncError(errType, component string) {
	if errType == "" {
		errType = "unknown"
	}
	if component == "" {
		component = "unknown"
	}
	atomic.AddUint64(&errorsTotal, 1)
	statsMu.Lock()
	errorsByType[errType]++
	errorsByComponent[component]++
	statsMu.Unlock()
}

func Snapshot() StatsSnapshot {
	statsMu.Lock()
	topicCopy := copyMap(topicHits)
	errorsTypeCopy := copyMap(errorsByType)
	errorsComponentCopy := copyMap(errorsByComponent)
	statsMu.Unlock()

	count := atomic.LoadUint64(&answerCount)
	avg := 0.0
	if count > 0 {
		avg = float64(atomic.LoadUint64(&answerNanos)) / float64(count) / 1e3
	}

	return StatsSnapshot{
		Requests:          atomic.LoadUint64(&requests),
		Matched:           atomic.LoadUint64(&matched),
		Fallbacks:         atomic.LoadUint64(&fallbacks),
		ErrorsTotal:       atomic.LoadUint64(&errorsTotal),
		ResponseMicrosAvg: avg,
		TopicHits:         topicCopy,
		ErrorsByType:      errorsTypeCopy,
		ErrorsByComponent: errorsComponentCopy,
	}
}

// Reset clears all counters.
func Reset() {
	statsMu.Lock()
	defer statsMu.Unlock()

	atomic.StoreUint64(&requests, 0)
	atomic.StoreUint64(&matched, 0)
	atomic.StoreUint64(&fallbacks, 0)
	atomic.StoreUint64(&errorsTotal, 0)
	atomic.StoreUint64(&answerCount, 0)
	atomic.StoreUint64(&answerNanos, 0)
	topicHits = map[string]uint64{}
	errorsByType = map[string]uint64{}
	errorsByComponent = map[string]uint64{}
}

func copyMap(src map[string]uint64) map[string]uint64 {
	if len(src) == 0 {
		return map[string]uint64{}
	}
	out := make(map[string]uint64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
