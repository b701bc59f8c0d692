// fingerprint.go
//
// Read-result cache keys.  The key is the JSON encoding of the full query
// shape; FieldMap and FilterMap are ordered, so identical constructions
// yield identical keys.
package datagate

import (
	"encoding/json"

	"github.com/tidemill/datagate/statement"
)

type fingerprint struct {
	Table      string              `json:"table"`
	Filter     statement.FilterMap `json:"filter,omitempty"`
	Projection []string            `json:"projection,omitempty"`
	Sort       []statement.Order   `json:"sort,omitempty"`
	IDs        []string            `json:"ids,omitempty"`
	Skip       int                 `json:"skip"`
	Limit      int                 `json:"limit"`
}

// cacheKey fingerprints one read request.
func cacheKey(p Params, limit int) string {
	fp := fingerprint{
		Table:      p.Table,
		Filter:     p.Filter,
		Projection: p.Model.Names(),
		Sort:       p.Sort,
		IDs:        p.RecordIDs,
		Skip:       p.Skip,
		Limit:      limit,
	}
	b, err := json.Marshal(fp)
	if err != nil {
		// Unmarshalable filter values cannot be fingerprinted; fall back to
		// an uncacheable key.
		return ""
	}
	return string(b)
}
