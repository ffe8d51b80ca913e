// Package xopident provides the hostname and process id that go into
// every Bunyan record.  Both are looked up at most once.
package xopident

import (
	"os"
	"sync"

	"github.com/pkg/errors"
)

// Provider is where identity comes from
type Provider interface {
	Hostname() (string, error)
	PID() int
}

// OS reads identity from the operating system
type OS struct{}

func (OS) Hostname() (string, error) {
	h, err := os.Hostname()
	return h, errors.Wrap(err, "lookup hostname")
}

func (OS) PID() int { return os.Getpid() }

// Static is a Provider with fixed values
type Static struct {
	Host string
	Pid  int
}

func (s Static) Hostname() (string, error) { return s.Host, nil }
func (s Static) PID() int                  { return s.Pid }

// Identity caches a Provider.  The provider is consulted on first use,
// exactly once, no matter how many goroutines ask at the same time.
type Identity struct {
	once     sync.Once
	provider Provider
	hostname string
	pid      int
	err      error
}

func Cached(p Provider) *Identity {
	return &Identity{provider: p}
}

func (i *Identity) load() {
	i.once.Do(func() {
		i.hostname, i.err = i.provider.Hostname()
		if i.err != nil {
			i.hostname = ""
		}
		i.pid = i.provider.PID()
	})
}

// Hostname is empty if the lookup failed.  Err() has the reason.
func (i *Identity) Hostname() string {
	i.load()
	return i.hostname
}

func (i *Identity) PID() int {
	i.load()
	return i.pid
}

// Err reports a failed hostname lookup
func (i *Identity) Err() error {
	i.load()
	return i.err
}

var process = Cached(OS{})

// Process is the identity of the current process
func Process() *Identity { return process }
