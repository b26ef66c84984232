package personalize

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/demolux/storefront/pkg/logger"
)

// Service ties the segment provider, the SDK and the tracker together for the API.
type Service struct {
	segments SegmentProvider
	sdk      SDK
	tracker  Tracker
	logg     *logger.Logger
	now      func() time.Time
}

// Resolution is the outcome of a variant computation.
type Resolution struct {
	Profile    Profile           `json:"profile"`
	Attributes map[string]string `json:"attributes"`
	Variants   []string          `json:"variantAliases"`
}

func NewService(segments SegmentProvider, sdk SDK, tracker Tracker, logg *logger.Logger) (*Service, error) {
	if segments == nil {
		return nil, fmt.Errorf("segment provider required")
	}
	if sdk == nil {
		sdk = DisabledSDK{}
	}
	if logg == nil {
		logg = logger.Nop()
	}
	if tracker == nil {
		tracker = NewLogTracker(logg)
	}
	return &Service{segments: segments, sdk: sdk, tracker: tracker, logg: logg, now: time.Now}, nil
}

// Configured reports whether the SDK is enabled.
func (s *Service) Configured() bool {
	return s.sdk.Configured()
}

// Segments returns the session profile.
func (s *Service) Segments(ctx context.Context, sessionID string, refresh bool) (Profile, error) {
	return s.segments.Segments(ctx, sessionID, refresh)
}

// Resolve computes the live attributes of the session and asks the SDK for its
// variants. No SDK call is made when the SDK is not configured.
func (s *Service) Resolve(ctx context.Context, sessionID string, query url.Values) (Resolution, error) {
	profile, err := s.segments.Segments(ctx, sessionID, false)
	if err != nil {
		return Resolution{}, err
	}
	res := Resolution{
		Profile:    profile,
		Attributes: LiveAttributes(profile, query),
		Variants:   []string{},
	}
	if !s.sdk.Configured() {
		return res, nil
	}
	variants, err := s.sdk.Variants(ctx, sessionID, res.Attributes)
	if err != nil {
		return res, err
	}
	if variants != nil {
		res.Variants = variants
	}
	return res, nil
}

// Track records event. Events are dropped when the SDK is not configured.
func (s *Service) Track(ctx context.Context, event Event) (bool, error) {
	if !s.sdk.Configured() {
		return false, nil
	}
	if err := s.tracker.Track(ctx, stamp(event, s.now())); err != nil {
		return false, err
	}
	return true, nil
}
