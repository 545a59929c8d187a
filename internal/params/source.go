package params

import "sync"

// Static is a ParameterSource backed by a map. It may be written from a UI
// goroutine while the controller polls it.
type Static struct {
	mu   sync.RWMutex
	vals map[string]float64
}

func NewStatic(init Values) *Static {
	s := &Static{vals: make(map[string]float64, len(init))}
	for k, v := range init {
		s.vals[k] = v
	}
	return s
}

func (s *Static) Value(name string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vals[name]
	return v, ok
}

func (s *Static) Set(name string, v float64) {
	s.mu.Lock()
	s.vals[name] = v
	s.mu.Unlock()
}

// Merge writes every entry of v.
func (s *Static) Merge(v Values) {
	s.mu.Lock()
	for k, x := range v {
		s.vals[k] = x
	}
	s.mu.Unlock()
}

// Values returns a copy of the current contents.
func (s *Static) Values() Values {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(Values, len(s.vals))
	for k, v := range s.vals {
		out[k] = v
	}
	return out
}

// Chain consults each source in order; the first that knows a name wins.
type Chain []Source

func (c Chain) Value(name string) (float64, bool) {
	for _, s := range c {
		if s == nil {
			continue
		}
		if v, ok := s.Value(name); ok {
			return v, true
		}
	}
	return 0, false
}
