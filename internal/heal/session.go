package heal

// Record is the ordered list of human-readable operation descriptions one
// healing pass applied. The orchestrator compares consecutive records to
// detect stagnation; operators read them to audit what healing did.
type Record []string

// Empty reports whether the pass changed nothing.
func (r Record) Empty() bool {
	return len(r) == 0
}

// Equal reports whether two records describe the identical operation list.
func (r Record) Equal(other Record) bool {
	if len(r) != len(other) {
		return false
	}
	for i := range r {
		if r[i] != other[i] {
			return false
		}
	}
	return true
}

type pair struct {
	from, to string
}

// Session carries the per-run mutable state of the healer: which binding
// pairs have already been proposed or rejected, and the records of every
// pass. A Session must be freshly constructed for each top-level
// heal-and-validate invocation and never shared across documents.
type Session struct {
	proposed map[pair]struct{}
	rejected map[pair]struct{}
	records  []Record
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{
		proposed: make(map[pair]struct{}),
		rejected: make(map[pair]struct{}),
	}
}

func (s *Session) markProposed(from, to string) {
	s.proposed[pair{from: from, to: to}] = struct{}{}
}

func (s *Session) markRejected(from, to string) {
	s.rejected[pair{from: from, to: to}] = struct{}{}
}

// decided reports whether the (from, to) pair was already proposed or
// rejected earlier in this run.
func (s *Session) decided(from, to string) bool {
	p := pair{from: from, to: to}
	if _, ok := s.proposed[p]; ok {
		return true
	}
	_, ok := s.rejected[p]
	return ok
}

func (s *Session) record(r Record) {
	s.records = append(s.records, r)
}

// Records returns every pass record in application order.
func (s *Session) Records() []Record {
	return s.records
}
