package store

import (
	"errors"

	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

var registryLogger = logger.GetLogger("store")

// SuiteFactory opens the suite with the given name.
type SuiteFactory func(name string) (ISuite, error)

// Registry hands out one shared ISuite per suite name, so that all accessors
// for the same suite see the same data. It is safe for concurrent use.
type Registry struct {
	factory SuiteFactory
	suites  *xsync.MapOf[string, ISuite]
}

// NewRegistry creates a registry that opens suites with factory.
func NewRegistry(factory SuiteFactory) *Registry {
	return &Registry{
		factory: factory,
		suites:  xsync.NewMapOf[string, ISuite](),
	}
}

// Suite returns the suite with the given name, opening it on first use.
// If two goroutines open the same suite concurrently, the first one stored
// wins and the other suite is closed again.
func (r *Registry) Suite(name string) (ISuite, error) {
	if name == "" {
		return nil, NewError(RetCInvalidOperation, "suite name must not be empty")
	}

	if s, ok := r.suites.Load(name); ok {
		return s, nil
	}

	created, err := r.factory(name)
	if err != nil {
		return nil, err
	}

	actual, loaded := r.suites.LoadOrStore(name, created)
	if loaded {
		if err := created.Close(); err != nil {
			registryLogger.Warningf("closing duplicate suite %q failed: %v", name, err)
		}
	} else {
		registryLogger.Debugf("opened suite %q", name)
	}
	return actual, nil
}

// Names returns the names of all suites opened so far (unordered).
func (r *Registry) Names() []string {
	names := make([]string, 0, r.suites.Size())
	r.suites.Range(func(name string, _ ISuite) bool {
		names = append(names, name)
		return true
	})
	return names
}

// Close closes and forgets all suites. All close errors are returned joined.
func (r *Registry) Close() error {
	var errs []error
	r.suites.Range(func(name string, s ISuite) bool {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
		r.suites.Delete(name)
		return true
	})
	return errors.Join(errs...)
}
