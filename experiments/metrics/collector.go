package metrics

import (
	"sync/atomic"
	"time"
)

// DecisionMetric describes how a player arrived at one move.
type DecisionMetric struct {
	Goroutines int
	Duration   time.Duration
	Candidates int
	Views      int
	Outcomes   int
}

type MoveMetric struct {
	Step       int
	Player     string // Token
	Move       string
	Stochastic bool
	DecisionMetric
}

type GameMetric struct {
	Game           string
	StartingPlayer string   // Token
	Winners        []string // Tokens
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
	Capped         bool
}

type Collector interface {
	Start(goroutines, candidates int)
	AddView()
	AddOutcomes(n int)
	Complete() DecisionMetric
}

type collector struct {
	goroutines int
	candidates int
	startTime  time.Time
	views      atomic.Int32
	outcomes   atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(goroutines, candidates int) {
	m.startTime = time.Now()
	m.goroutines = goroutines
	m.candidates = candidates
	m.views.Store(0)
	m.outcomes.Store(0)
}

func (m *collector) AddView() {
	m.views.Add(1)
}

func (m *collector) AddOutcomes(n int) {
	m.outcomes.Add(int32(n))
}

func (m *collector) Complete() DecisionMetric {
	return DecisionMetric{
		Goroutines: m.goroutines,
		Duration:   time.Since(m.startTime),
		Candidates: m.candidates,
		Views:      int(m.views.Load()),
		Outcomes:   int(m.outcomes.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(goroutines, candidates int) {}
func (m *dummyCollector) AddView()                         {}
func (m *dummyCollector) AddOutcomes(n int)                {}
func (m *dummyCollector) Complete() DecisionMetric         { return DecisionMetric{} }
