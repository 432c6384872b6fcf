// Package watermark is the boundary to the document-personalization
// collaborator. The simulated implementation stands in for a service that
// would stamp the buyer's email into the score and return a signed URL.
package watermark

import (
	"context"
	"time"
)

type Watermarker interface {
	// Prepare personalizes the file behind sourceURL for the given buyer
	// and returns the reference the buyer downloads from.
	Prepare(ctx context.Context, sourceURL, buyerEmail string) (string, error)
}

type Simulated struct {
	Delay time.Duration
}

func (s *Simulated) Prepare(ctx context.Context, sourceURL, buyerEmail string) (string, error) {
	select {
	case <-time.After(s.Delay):
		// A real service would return a temporary signed URL to the
		// stamped copy; the simulation hands back the source as-is.
		return sourceURL, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
