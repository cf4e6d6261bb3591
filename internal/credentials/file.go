package credentials

import (
	"encoding/json"
	"os"
	"sync"
)

type fileAuth struct {
	Tokens struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	} `json:"tokens"`
}

// FileStore persists the token pair as JSON on disk. The file is created with
// 0600 and its parent directory with 0700. Reads go to disk so that a login
// performed by another process is picked up; a mirror of the last known pair
// covers transient read failures.
type FileStore struct {
	path string

	mu     sync.RWMutex
	mirror fileAuth
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) AccessToken() string {
	a, _ := f.read()
	return a
}

func (f *FileStore) RefreshToken() string {
	_, r := f.read()
	return r
}

func (f *FileStore) SetTokens(accessToken, refreshToken string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var a fileAuth
	a.Tokens.AccessToken = accessToken
	a.Tokens.RefreshToken = refreshToken
	f.mirror = a

	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return
	}
	if err := EnsureParentDir(f.path); err != nil {
		return
	}
	_ = os.WriteFile(f.path, data, 0600)
}

func (f *FileStore) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mirror = fileAuth{}
	_ = os.Remove(f.path)
}

func (f *FileStore) read() (accessToken, refreshToken string) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	b, err := os.ReadFile(f.path)
	if err != nil {
		return f.mirror.Tokens.AccessToken, f.mirror.Tokens.RefreshToken
	}
	var a fileAuth
	if err := json.Unmarshal(b, &a); err != nil {
		return f.mirror.Tokens.AccessToken, f.mirror.Tokens.RefreshToken
	}
	return a.Tokens.AccessToken, a.Tokens.RefreshToken
}
