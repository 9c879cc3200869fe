package region

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/sync/errgroup"

	"roomclimate/internal/config"
)

// ErrUnknownRegion is returned for a key no region is registered under
var ErrUnknownRegion = errors.New("unknown region")

// maxParallelLoads bounds concurrent source fetches
const maxParallelLoads = 8

// Registry holds the regions of a manifest in manifest order
type Registry struct {
	regions []*Region
	byKey   map[string]*Region
}

// NewRegistry indexes already constructed regions
func NewRegistry(regions ...*Region) (*Registry, error) {
	reg := &Registry{byKey: make(map[string]*Region, len(regions))}
	for _, r := range regions {
		key := Key(r.Name())
		if _, dup := reg.byKey[key]; dup {
			return nil, fmt.Errorf("duplicate region key %q", key)
		}
		reg.byKey[key] = r
		reg.regions = append(reg.regions, r)
	}
	return reg, nil
}

// LoadAll loads every region in parallel. Individual load failures fall back
// per region; only context cancellation aborts the whole load.
func LoadAll(ctx context.Context, loader Loader, specs []config.RegionSpec, opts Options) (*Registry, error) {
	regions := make([]*Region, len(specs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelLoads)
	for i, spec := range specs {
		i, spec := i, spec // per-iteration copies (go directive is 1.21)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			regions[i] = Load(gctx, loader, spec, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading regions: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("loading regions: %w", err)
	}

	return NewRegistry(regions...)
}

// List returns regions in manifest order
func (r *Registry) List() []*Region {
	out := make([]*Region, len(r.regions))
	copy(out, r.regions)
	return out
}

// Len returns the number of regions
func (r *Registry) Len() int {
	return len(r.regions)
}

// Get finds a region by key or display name
func (r *Registry) Get(name string) (*Region, error) {
	if reg, ok := r.byKey[Key(name)]; ok {
		return reg, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownRegion, name)
}

// Key turns a display name into a URL-safe key: "Living Room" -> "living-room"
func Key(name string) string {
	var b strings.Builder
	dash := false
	for _, c := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(c) || unicode.IsDigit(c):
			b.WriteRune(c)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
