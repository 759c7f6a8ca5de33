// Package ostest provides scripted host primitives for probe tests.
package ostest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/user"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	hostos "github.com/ilexum-group/hostfetch/internal/os"
)

// ErrNotScripted is returned for commands that have no scripted output
var ErrNotScripted = errors.New("command not scripted")

// Scripted serves files from a temporary root and commands from a table
type Scripted struct {
	*hostos.Default

	t        testing.TB
	mu       sync.Mutex
	env      map[string]string
	commands map[string]result
	bins     map[string]bool
	calls    []string
	hostname string
	user     *user.User
	live     bool
}

type result struct {
	out []byte
	err error
}

// New creates Scripted primitives rooted at a fresh temporary directory
func New(t testing.TB) *Scripted {
	t.Helper()

	root := t.TempDir()
	def, err := hostos.NewDefaultWithOptions(hostos.CollectorOptions{Root: root})
	if err != nil {
		t.Fatalf("rooted primitives: %v", err)
	}

	return &Scripted{
		Default:  def,
		t:        t,
		env:      make(map[string]string),
		commands: make(map[string]result),
		bins:     make(map[string]bool),
		hostname: "testhost",
		user:     &user.User{Username: "tester", Uid: "1000", HomeDir: "/home/tester"},
	}
}

// WriteFile creates path below the root with content
func (s *Scripted) WriteFile(path, content string) *Scripted {
	s.t.Helper()
	full := filepath.Join(s.Root(), filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		s.t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		s.t.Fatalf("write %s: %v", path, err)
	}
	return s
}

// Mkdir creates the directory path below the root
func (s *Scripted) Mkdir(path string) *Scripted {
	s.t.Helper()
	if err := os.MkdirAll(filepath.Join(s.Root(), filepath.FromSlash(path)), 0o755); err != nil {
		s.t.Fatalf("mkdir %s: %v", path, err)
	}
	return s
}

// Setenv sets an environment variable visible through OSGetenv
func (s *Scripted) Setenv(key, value string) *Scripted {
	s.mu.Lock()
	s.env[key] = value
	s.mu.Unlock()
	return s
}

// Command scripts the output of name with args. The binary is also made resolvable.
func (s *Scripted) Command(output string, name string, args ...string) *Scripted {
	s.mu.Lock()
	s.commands[commandKey(name, args)] = result{out: []byte(output)}
	s.bins[name] = true
	s.mu.Unlock()
	return s
}

// CommandError scripts a failing command
func (s *Scripted) CommandError(err error, name string, args ...string) *Scripted {
	s.mu.Lock()
	s.commands[commandKey(name, args)] = result{err: err}
	s.bins[name] = true
	s.mu.Unlock()
	return s
}

// Binary makes name resolvable through ExecLookPath without scripting output
func (s *Scripted) Binary(name string) *Scripted {
	s.mu.Lock()
	s.bins[name] = true
	s.mu.Unlock()
	return s
}

// SetHostname sets the value returned by OSHostname
func (s *Scripted) SetHostname(name string) *Scripted {
	s.hostname = name
	return s
}

// SetUser sets the value returned by UserCurrent
func (s *Scripted) SetUser(u *user.User) *Scripted {
	s.user = u
	return s
}

// Live makes IsLive report true while files are still served from the temporary root
func (s *Scripted) Live() *Scripted {
	s.live = true
	return s
}

// IsLive reports whether Live was called
func (s *Scripted) IsLive() bool {
	return s.live
}

// Calls returns every command line run so far
func (s *Scripted) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// OSGetenv returns scripted environment only
func (s *Scripted) OSGetenv(key string) string {
	v, _ := s.OSLookupEnv(key)
	return v
}

// OSLookupEnv returns scripted environment only
func (s *Scripted) OSLookupEnv(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.env[key]
	return v, ok
}

// OSHostname returns the scripted host name
func (s *Scripted) OSHostname() (string, error) {
	if s.hostname == "" {
		return "", errors.New("no hostname")
	}
	return s.hostname, nil
}

// UserCurrent returns the scripted user
func (s *Scripted) UserCurrent() (*user.User, error) {
	if s.user == nil {
		return nil, errors.New("no user")
	}
	return s.user, nil
}

// ExecLookPath resolves scripted binaries
func (s *Scripted) ExecLookPath(name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bins[name] {
		return "/usr/bin/" + name, nil
	}
	return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
}

// ExecOutput returns scripted command output
func (s *Scripted) ExecOutput(_ context.Context, name string, args ...string) ([]byte, error) {
	key := commandKey(name, args)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, key)
	res, ok := s.commands[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, ErrNotScripted)
	}
	return res.out, res.err
}

func commandKey(name string, args []string) string {
	return strings.TrimSpace(name + " " + strings.Join(args, " "))
}

var _ hostos.SystemPrimitives = (*Scripted)(nil)
