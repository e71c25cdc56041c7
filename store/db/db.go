// Package db selects a store driver based on the profile.
package db

import (
	"github.com/pkg/errors"

	"github.com/hrygo/thinktank/internal/profile"
	"github.com/hrygo/thinktank/store"
	"github.com/hrygo/thinktank/store/db/postgres"
	"github.com/hrygo/thinktank/store/db/sqlite"
	"github.com/hrygo/thinktank/store/memory"
)

// NewDriver creates a new store driver based on the profile.
func NewDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "memory":
		driver = memory.NewDB()
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	default:
		return nil, errors.Errorf("unknown store driver %q: only 'memory', 'sqlite' and 'postgres' are supported", profile.Driver)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create store driver")
	}
	return driver, nil
}
