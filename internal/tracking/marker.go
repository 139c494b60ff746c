package tracking

import (
	"time"

	"github.com/gorilla/securecookie"
)

const (
	MarkerTTL          = time.Hour
	MarkerCookiePrefix = "track_verified_"

	markerVerified = "true"
)

// MarkerSource yields the raw verification marker a client presented for a project.
type MarkerSource interface {
	Marker(projectID string) (string, bool)
}

// MarkerCodec signs and checks PIN verification markers. The cookie name is
// part of the MAC, so a marker minted for one project never validates for another.
type MarkerCodec struct {
	sc *securecookie.SecureCookie
}

func NewMarkerCodec(hashKey, blockKey []byte) *MarkerCodec {
	sc := securecookie.New(hashKey, blockKey)
	sc.MaxAge(int(MarkerTTL.Seconds()))

	return &MarkerCodec{sc: sc}
}

func MarkerName(projectID string) string {
	return MarkerCookiePrefix + projectID
}

func (c *MarkerCodec) Mint(projectID string) (string, error) {
	return c.sc.Encode(MarkerName(projectID), markerVerified)
}

func (c *MarkerCodec) Valid(projectID, value string) bool {
	if value == "" {
		return false
	}

	var decoded string
	if err := c.sc.Decode(MarkerName(projectID), value, &decoded); err != nil {
		return false
	}

	return decoded == markerVerified
}

func (c *MarkerCodec) verified(projectID string, markers MarkerSource) bool {
	if markers == nil {
		return false
	}

	value, ok := markers.Marker(projectID)
	if !ok {
		return false
	}

	return c.Valid(projectID, value)
}
