package settings

// Session owns the store for one editing session. The store is opened on
// the first call to Initialize and the same store is returned afterwards.
type Session struct {
	path  string
	opts  []Option
	store *Store
}

// NewSession returns a session that will open the settings file at path.
func NewSession(path string, opts ...Option) *Session {
	return &Session{path: path, opts: opts}
}

// Initialize opens the store on first use and returns it.
func (s *Session) Initialize() (*Store, error) {
	if s.store != nil {
		return s.store, nil
	}
	store, err := Open(s.path, s.opts...)
	if err != nil {
		return nil, err
	}
	s.store = store
	return s.store, nil
}

// Loaded reports whether Initialize has opened the store.
func (s *Session) Loaded() bool { return s.store != nil }
