package faq

// Entry is one curated question/answer pair from the FAQ dataset, with the
// embedding of its normalized question precomputed at load time. Entries are
// read-only for the lifetime of the process.
type Entry struct {
	Question  string
	Answer    string
	Embedding []float32
}
