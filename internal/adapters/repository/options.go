package repository

// Option applies a configuration option to the SQLiteStore.
type Option func(*SQLiteStore)

// WithTable overrides the name of the state table.
func WithTable(name string) Option {
	return func(s *SQLiteStore) {
		if name != "" {
			s.table = name
		}
	}
}
