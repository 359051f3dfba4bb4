// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package game

import "github.com/AccelByte/extend-tag-engine/pkg/geo"

// Outcome is the resolved result of a tag or tripwire.
type Outcome string

const (
	OutcomeHit     Outcome = "hit"
	OutcomeMiss    Outcome = "miss"
	OutcomeBlocked Outcome = "blocked"
)

// HitSource tells a client whether a hit came from a tag or a tripwire.
type HitSource string

const (
	SourceTag      HitSource = "tag"
	SourceTripwire HitSource = "tripwire"

	// SourceInactivity marks a strike applied by the inactivity sweep. It never
	// appears on a TagResult.
	SourceInactivity HitSource = "inactivity"
)

// BlockReason explains a Blocked outcome.
type BlockReason string

const (
	BlockOutOfTags BlockReason = "out_of_tags"
	BlockHomeBase  BlockReason = "home_base"
	BlockSafeBase  BlockReason = "safe_base"
)

// NoCandidateDistance is reported as NearestDistance when no opponent had a location.
const NoCandidateDistance = -1.0

// TagResult is the successful result of a tag submission or tripwire entry.
type TagResult struct {
	Outcome         Outcome         `json:"outcome"`
	Source          HitSource       `json:"source"`
	TargetID        string          `json:"targetId,omitempty"`
	ActualLocation  *geo.Coordinate `json:"actualLocation,omitempty"`
	Distance        float64         `json:"distance,omitempty"`
	NearestDistance float64         `json:"nearestDistance,omitempty"`
	BlockReason     BlockReason     `json:"blockReason,omitempty"`
	Eliminated      bool            `json:"eliminated,omitempty"`
	GameCompleted   bool            `json:"gameCompleted,omitempty"`
}

// Hit builds a hit result.
func Hit(source HitSource, targetID string, actual geo.Coordinate, distance float64) *TagResult {
	return &TagResult{
		Outcome:        OutcomeHit,
		Source:         source,
		TargetID:       targetID,
		ActualLocation: &actual,
		Distance:       distance,
	}
}

// Miss builds a miss result.
func Miss(nearest float64) *TagResult {
	return &TagResult{Outcome: OutcomeMiss, Source: SourceTag, NearestDistance: nearest}
}

// Blocked builds a blocked result.
func Blocked(reason BlockReason) *TagResult {
	return &TagResult{Outcome: OutcomeBlocked, Source: SourceTag, BlockReason: reason}
}
