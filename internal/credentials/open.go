package credentials

import (
	"os"

	"github.com/rs/zerolog"
)

// Open selects the store implementation once at startup: the file store when
// its location is usable, the in-memory store otherwise. The probe happens
// here and never again per call; a memory fallback loses persistence across
// runs but keeps the session working.
func Open(path string, log zerolog.Logger) Store {
	if path == "" {
		path = DefaultPath()
	}
	if path == "" || !probeWritable(path) {
		log.Warn().Str("path", path).Msg("credentials file location unusable, falling back to in-memory store")
		return NewMemoryStore()
	}
	return NewFileStore(path)
}

// probeWritable checks that the auth file either exists and is writable, or
// can be created at its location. A file created by the probe is removed so an
// empty store stays indistinguishable from a missing file.
func probeWritable(path string) bool {
	if err := EnsureParentDir(path); err != nil {
		return false
	}
	existed := FileExists(path)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return false
	}
	f.Close()
	if !existed {
		_ = os.Remove(path)
	}
	return true
}
