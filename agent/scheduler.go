package agent

// Ticker advances by one frame of dt seconds.
type Ticker interface {
	Update(dt float64)
}

// Scheduler ticks every registered agent once per frame, in the order they
// were added. It is not safe for concurrent use.
type Scheduler struct {
	tickers []Ticker
	frames  int
	elapsed float64
}

func NewScheduler(tickers ...Ticker) *Scheduler {
	s := &Scheduler{}
	for _, t := range tickers {
		s.Add(t)
	}
	return s
}

func (s *Scheduler) Add(t Ticker) {
	if t == nil {
		return
	}
	s.tickers = append(s.tickers, t)
}

// Remove drops t; it reports whether t was registered. Removing a ticker
// from inside Update takes effect on the next frame.
func (s *Scheduler) Remove(t Ticker) bool {
	for i, cur := range s.tickers {
		if cur == t {
			// copy so a frame in progress keeps its own list
			s.tickers = append(s.tickers[:i:i], s.tickers[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Scheduler) Update(dt float64) {
	s.frames++
	s.elapsed += dt
	tickers := s.tickers
	for _, t := range tickers {
		t.Update(dt)
	}
}

// Run ticks frames times with a fixed dt.
func (s *Scheduler) Run(frames int, dt float64) {
	for i := 0; i < frames; i++ {
		s.Update(dt)
	}
}

func (s *Scheduler) Frames() int { return s.frames }

func (s *Scheduler) Elapsed() float64 { return s.elapsed }

func (s *Scheduler) Tickers() []Ticker {
	out := make([]Ticker, 0, len(s.tickers))
	return append(out, s.tickers...)
}
