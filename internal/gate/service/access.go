package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dramatize/streamgate/internal/gate/store"
)

// AccessService answers the entitlement question consulted before a token
// is issued: may this viewer stream this video right now. It is the only
// place the gate touches the catalog; per-fetch validation never does.
type AccessService struct {
	Store store.Store
}

// CanStream reports whether userID may stream videoID. Unknown videos and
// unavailable videos answer false rather than erroring; only the store
// itself failing is an error.
func (s *AccessService) CanStream(ctx context.Context, userID, videoID string) (bool, error) {
	if userID == "" || videoID == "" {
		return false, nil
	}

	v, err := s.Store.Videos().GetVideoByID(ctx, videoID)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("catalog lookup: %w", err)
	}

	if !v.Available {
		return false, nil
	}
	if !v.Premium {
		return true, nil
	}

	return s.Store.Entitlements().HasEntitlement(ctx, userID, videoID)
}
