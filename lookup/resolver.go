// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package lookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"github.com/nyaruka/phonenumbers"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/uidmap/core"
	"github.com/poiesic/uidmap/storage"
)

// MatchKind tells how an identifier was matched.
type MatchKind int

const (
	MatchNone MatchKind = iota
	MatchPrimaryKey
	MatchAttribute
)

func (k MatchKind) String() string {
	switch k {
	case MatchPrimaryKey:
		return "found_by_uid"
	case MatchAttribute:
		return "found_by_phone"
	default:
		return "not_found"
	}
}

// Result is the outcome of resolving one identifier.
type Result struct {
	Query    string
	Kind     MatchKind
	Mappings []core.Mapping

	// Err is set by ResolveAll for identifiers that failed.
	Err error
}

// Found reports whether anything matched.
func (r *Result) Found() bool {
	return r.Kind != MatchNone && len(r.Mappings) > 0
}

// Resolver looks identifiers up in a MappingStore.
type Resolver struct {
	store    storage.MappingStore
	region   string
	poolSize int
	logger   *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithRegion sets the default region used by FormatPhone.
func WithRegion(region string) Option {
	return func(r *Resolver) error {
		r.region = strings.ToUpper(strings.TrimSpace(region))
		return nil
	}
}

// WithPoolSize sets how many lookups ResolveAll runs at once.
// Default is half the CPUs, at least one.
func WithPoolSize(size int) Option {
	return func(r *Resolver) error {
		if size < 1 {
			return ErrInvalidPoolSize
		}
		r.poolSize = size
		return nil
	}
}

// NewResolver creates a resolver over store.
func NewResolver(store storage.MappingStore, opts ...Option) (*Resolver, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	r := &Resolver{
		store:    store,
		region:   "CN",
		poolSize: max(runtime.NumCPU()/2, 1),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Resolve looks id up as a primary key, then as an attribute value.
// Returns ErrNotFound, with a non-nil Result, when neither matches.
func (r *Resolver) Resolve(ctx context.Context, id string) (*Result, error) {
	id = strings.TrimSpace(id)
	res := &Result{Query: id}
	if !core.IsDigits(id) {
		return res, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	m, err := r.store.Get(ctx, id)
	switch {
	case err == nil:
		res.Kind = MatchPrimaryKey
		res.Mappings = []core.Mapping{m}
		return res, nil
	case !errors.Is(err, storage.ErrNotFound):
		r.logger.Error("error looking up primary key", "id", id, "err", err)
		return res, err
	}

	matches, err := r.store.FindByAttribute(ctx, id)
	if err != nil {
		r.logger.Error("error looking up attribute value", "id", id, "err", err)
		return res, err
	}
	if len(matches) == 0 {
		return res, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	res.Kind = MatchAttribute
	res.Mappings = matches
	return res, nil
}

// Status reports whether id exists as a primary key or an attribute value.
func (r *Resolver) Status(ctx context.Context, id string) (bool, error) {
	_, err := r.Resolve(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// ResolveAll resolves ids concurrently. Results are in the order of ids;
// per-identifier failures, including ErrNotFound, are reported in
// Result.Err. The returned error is only set when the pool itself fails or
// ctx is canceled.
func (r *Resolver) ResolveAll(ctx context.Context, ids []string) ([]*Result, error) {
	results := make([]*Result, len(ids))
	if len(ids) == 0 {
		return results, nil
	}

	pool, err := ants.NewPool(min(r.poolSize, len(ids)))
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			res, err := r.Resolve(ctx, id)
			res.Err = err
			results[i] = res
		})
		if submitErr != nil {
			wg.Done()
			wg.Wait()
			return nil, submitErr
		}
	}
	wg.Wait()
	return results, ctx.Err()
}

// FormatPhone renders value as an E.164 number when it parses as a valid
// number in the resolver's region and returns it unchanged otherwise.
func (r *Resolver) FormatPhone(value string) string {
	return FormatPhone(value, r.region)
}

// FormatPhone renders value as an E.164 number when it parses as a valid
// number in region and returns it unchanged otherwise.
func FormatPhone(value, region string) string {
	num, err := phonenumbers.Parse(value, region)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return value
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}
