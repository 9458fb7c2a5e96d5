package signup

// FlowCount число мастеров, хранящихся в памяти.
func (s *Service) FlowCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.flows)
}
