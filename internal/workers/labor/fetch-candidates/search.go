// internal/workers/labor/fetch-candidates/search.go
package fetchcandidates

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"crew-match-workers/internal/matching"
)

var errIndexMissing = errors.New("index not found")

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string                    `json:"_id"`
			Source matching.CandidateProfile `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// buildSearchQuery filters on trade, boosts skill overlap and, when the
// request has coordinates, drops candidates beyond cutoffKm.
func buildSearchQuery(req matching.MatchRequest, size int, cutoffKm float64) map[string]interface{} {
	filter := []interface{}{
		map[string]interface{}{
			"term": map[string]interface{}{"trade": strings.ToLower(strings.TrimSpace(req.Trade))},
		},
	}
	if c := req.Location.Coordinates; c != nil && cutoffKm > 0 {
		filter = append(filter, map[string]interface{}{
			"geo_distance": map[string]interface{}{
				"distance":             fmt.Sprintf("%gkm", cutoffKm),
				"location.coordinates": map[string]float64{"lat": c.Lat, "lon": c.Lon},
			},
		})
	}

	boolQuery := map[string]interface{}{"filter": filter}
	if len(req.Skills) > 0 {
		skills := make([]string, len(req.Skills))
		for i, s := range req.Skills {
			skills[i] = strings.ToLower(strings.TrimSpace(s))
		}
		boolQuery["should"] = []interface{}{
			map[string]interface{}{"terms": map[string]interface{}{"skills": skills}},
		}
	}

	return map[string]interface{}{
		"size":  size,
		"query": map[string]interface{}{"bool": boolQuery},
		"sort":  []interface{}{"_score", map[string]interface{}{"id": "asc"}},
	}
}

func (h *Handler) searchCandidates(ctx context.Context, req matching.MatchRequest, limit int) ([]matching.CandidateProfile, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(buildSearchQuery(req, limit, h.config.LocationCutoffKm)); err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	searchReq := esapi.SearchRequest{
		Index: []string{h.config.CandidateIndex},
		Body:  &buf,
	}
	res, err := searchReq.Do(ctx, h.es)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, errIndexMissing
	}
	if res.IsError() {
		return nil, fmt.Errorf("search failed: %s", res.String())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	candidates := make([]matching.CandidateProfile, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		c := hit.Source
		if c.ID == "" {
			c.ID = hit.ID
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}
