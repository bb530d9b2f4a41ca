package sampleSheet

// field names used downstream
const (
	KeySampleName    = "sample_name"
	KeySampleID      = "sample_id"
	KeySampleProject = "sample_project"
	KeyProjectName   = "project_name"
)

// Sample is one row of a sample sheet. A key that was never set is absent,
// which is not the same as a key set to "".
type Sample struct {
	keys   []string
	fields map[string]string
}

func NewSample() *Sample {
	return &Sample{fields: make(map[string]string)}
}

// Get returns the value of key and whether it is present.
func (s *Sample) Get(key string) (string, bool) {
	v, ok := s.fields[key]
	return v, ok
}

// Value returns the value of key, "" if absent.
func (s *Sample) Value(key string) string {
	return s.fields[key]
}

func (s *Sample) Has(key string) bool {
	_, ok := s.fields[key]
	return ok
}

// Set adds or replaces key, keeping first-seen order.
func (s *Sample) Set(key, value string) {
	if _, ok := s.fields[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.fields[key] = value
}

// Keys returns the field names in the order they were set.
func (s *Sample) Keys() []string {
	return append([]string{}, s.keys...)
}

func (s *Sample) Len() int {
	return len(s.keys)
}

// Map returns a copy of the fields.
func (s *Sample) Map() map[string]string {
	var m = make(map[string]string, len(s.fields))
	for k, v := range s.fields {
		m[k] = v
	}
	return m
}

// nonEmpty reports whether key is present with a non-empty value
func (s *Sample) nonEmpty(key string) bool {
	v, ok := s.fields[key]
	return ok && v != ""
}

// GlobID is the identifier the FASTQ files of this sample are named after.
func (s *Sample) GlobID(seq Sequencer) string {
	switch seq {
	case MiSeq:
		return s.Value(KeySampleName)
	case NextSeq:
		return s.Value(KeySampleID)
	}
	return ""
}

// Project returns the project field of the sample for seq.
func (s *Sample) Project(seq Sequencer) string {
	switch seq {
	case MiSeq:
		return s.Value(KeySampleProject)
	case NextSeq:
		return s.Value(KeyProjectName)
	}
	return ""
}
