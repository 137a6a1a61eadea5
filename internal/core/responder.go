package core

import (
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/baxromumarov/campus-faq/internal/knowledge"
)

const (
	ConfidenceThreshold = 5

	exactMatchScore   = 10
	partialMatchScore = 5
)

// Source picks an index in [0, n). Implementations shared between
// goroutines must be safe for concurrent use.
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Match is the winning topic for a normalized input.
type Match struct {
	Topic string
	Score int
}

// Answer is a reply together with how it was chosen. Topic is empty when the
// reply came from the fallback pool.
type Answer struct {
	Reply string
	Topic string
	Score int
}

func (a Answer) Fallback() bool {
	return a.Topic == ""
}

type Responder struct {
	topics    []knowledge.Topic
	fallbacks []string
	source    Source
	logger    *slog.Logger
}

type Option func(*Responder)

// WithSource sets the random source used to pick fallback replies.
func WithSource(src Source) Option {
	return func(r *Responder) {
		if src != nil {
			r.source = src
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Responder) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func NewResponder(base *knowledge.Base, opts ...Option) *Responder {
	r := &Responder{
		topics:    base.Topics(),
		fallbacks: base.Fallbacks(),
		source:    globalSource{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Respond returns the reply for raw user input. It never fails and never
// returns an empty string.
func (r *Responder) Respond(input string) string {
	return r.Answer(input).Reply
}

func (r *Responder) Answer(input string) Answer {
	normalized := Normalize(input)

	if i, score := r.best(normalized); i >= 0 {
		t := r.topics[i]
		r.logger.Debug("topic matched", "topic", t.ID, "score", score)
		return Answer{Reply: t.Reply, Topic: t.ID, Score: score}
	}

	r.logger.Debug("no confident topic, using fallback", "input_len", len(normalized))
	return Answer{Reply: r.fallback()}
}

// Match scores every topic against already normalized input and reports the
// best one if it reaches ConfidenceThreshold. Earlier topics win ties.
func (r *Responder) Match(normalized string) (Match, bool) {
	i, score := r.best(normalized)
	if i < 0 {
		return Match{}, false
	}
	return Match{Topic: r.topics[i].ID, Score: score}, true
}

func (r *Responder) best(normalized string) (int, int) {
	bestIdx, bestScore := -1, 0
	for i, t := range r.topics {
		// strictly greater, so the first topic keeps a tie
		if score := scoreTopic(t.Keywords, normalized); score > bestScore {
			bestIdx, bestScore = i, score
		}
	}

	if bestIdx < 0 || bestScore < ConfidenceThreshold {
		return -1, bestScore
	}
	return bestIdx, bestScore
}

func scoreTopic(keywords []string, normalized string) int {
	score := 0
	for _, kw := range keywords {
		if !strings.Contains(normalized, kw) {
			continue
		}
		if kw == normalized {
			score += exactMatchScore
		} else {
			score += partialMatchScore
		}
	}
	return score
}

func (r *Responder) fallback() string {
	return r.fallbacks[r.source.IntN(len(r.fallbacks))]
}
