package geocode

import (
	"context"
	"errors"

	"lecture-sync/internal/domain"
	"lecture-sync/internal/pace"
)

// Geocoder is the external lookup surface the resolver depends on.
// *KakaoClient implements it; tests substitute call-counting stubs.
type Geocoder interface {
	SearchAddress(ctx context.Context, query string) (*Place, error)
	SearchKeyword(ctx context.Context, query string) (*Place, error)
}

// Tier identifies which cascade stage produced a resolution.
type Tier int

const (
	TierNone Tier = iota // every stage missed; retryable on a later pass
	TierSkipOnline
	TierAddressCache
	TierInstructorCache
	TierAddressLookup
	TierKeywordLookup
	TierRegionCenter
)

func (t Tier) String() string {
	switch t {
	case TierSkipOnline:
		return "skip-online"
	case TierAddressCache:
		return "address-cache"
	case TierInstructorCache:
		return "instructor-cache"
	case TierAddressLookup:
		return "address-lookup"
	case TierKeywordLookup:
		return "keyword-lookup"
	case TierRegionCenter:
		return "region-center"
	default:
		return "none"
	}
}

// Resolution is the cascade outcome for one lecture. Place is nil for
// TierNone and TierSkipOnline.
type Resolution struct {
	Place *Place
	Tier  Tier
}

// Resolver runs the coordinate cascade: cheapest strategy first, terminal on
// first success. Cache tiers are seeded from already-geocoded store rows
// before a pass; they never trigger external calls.
type Resolver struct {
	geo        Geocoder
	pacer      *pace.Pacer
	addrCache  map[string]Coords
	instrCache map[string]Coords
}

func NewResolver(geo Geocoder, pacer *pace.Pacer) *Resolver {
	if pacer == nil {
		pacer = pace.New(0)
	}
	return &Resolver{
		geo:        geo,
		pacer:      pacer,
		addrCache:  map[string]Coords{},
		instrCache: map[string]Coords{},
	}
}

// SeedAddress registers known coordinates for an exact address string.
// The unknown-venue placeholder is never a usable cache key.
func (r *Resolver) SeedAddress(addr string, c Coords) {
	if addr == "" || addr == domain.AddressUnknown {
		return
	}
	r.addrCache[addr] = c
}

// SeedInstructor registers known coordinates for an instructor. Heuristic:
// the same instructor usually teaches at the same venue.
func (r *Resolver) SeedInstructor(instructor string, c Coords) {
	if instructor == "" || instructor == domain.InstructorUnknown {
		return
	}
	r.instrCache[instructor] = c
}

// Resolve runs the cascade for one lecture. A geocoding miss is a normal
// outcome (TierNone), not an error; errors are only returned for context
// cancellation.
func (r *Resolver) Resolve(ctx context.Context, lec domain.Lecture) (Resolution, error) {
	// Online courses never enter the cascade.
	if lec.IsOnline() {
		return Resolution{Tier: TierSkipOnline}, nil
	}

	// Tier 1: another record with the identical address already has coords.
	if c, ok := r.addrCache[lec.Address]; ok && lec.Address != "" {
		return Resolution{Place: &Place{Coords: c}, Tier: TierAddressCache}, nil
	}

	// Tier 2: another record with the identical instructor already has coords.
	if c, ok := r.instrCache[lec.Instructor]; ok && lec.Instructor != "" {
		return Resolution{Place: &Place{Coords: c}, Tier: TierInstructorCache}, nil
	}

	// Tier 3: external address lookup on the cleaned address.
	if lec.Address != "" && lec.Address != domain.AddressUnknown {
		if clean, ok := CleanAddress(lec.Address); ok {
			place, err := r.lookup(ctx, func(ctx context.Context) (*Place, error) {
				return r.geo.SearchAddress(ctx, clean)
			})
			if err != nil {
				return Resolution{}, err
			}
			if place != nil {
				return Resolution{Place: place, Tier: TierAddressLookup}, nil
			}
		}
	}

	// Tier 4: institution keyword cut from the title, POI search.
	if inst, ok := ExtractInstitution(lec.Title); ok {
		place, err := r.lookup(ctx, func(ctx context.Context) (*Place, error) {
			return r.geo.SearchKeyword(ctx, inst)
		})
		if err != nil {
			return Resolution{}, err
		}
		if place != nil {
			return Resolution{Place: place, Tier: TierKeywordLookup}, nil
		}
	}

	// Tier 5: province centroid scanned from title+address. Coordinates only;
	// a short region mention is not a real administrative-region resolution.
	if _, center, ok := RegionCenter(lec.Title + " " + lec.Address); ok {
		return Resolution{
			Place: &Place{Coords: center},
			Tier:  TierRegionCenter,
		}, nil
	}

	return Resolution{Tier: TierNone}, nil
}

// lookup paces and runs one external call. Service failures count as a miss
// so the cascade can fall through; only cancellation aborts the pass.
func (r *Resolver) lookup(ctx context.Context, fn func(context.Context) (*Place, error)) (*Place, error) {
	if err := r.pacer.Wait(ctx); err != nil {
		return nil, err
	}
	place, err := fn(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, nil
	}
	return place, nil
}
