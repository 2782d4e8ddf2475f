package occurrence

import "github.com/golang/geo/s2"

// CellToken returns the token of the S2 cell of the given level that
// contains the point. Records without both coordinates, or with
// coordinates outside of valid ranges, get an empty token.
func (r Record) CellToken(level int) string {
	if !r.HasCoordinates() {
		return ""
	}
	ll := s2.LatLngFromDegrees(*r.Latitude, *r.Longitude)
	if !ll.IsValid() {
		return ""
	}
	if level < 0 || level > s2.MaxLevel {
		level = s2.MaxLevel
	}
	return s2.CellIDFromLatLng(ll).Parent(level).ToToken()
}
