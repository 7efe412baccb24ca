// internal/workers/labor/rank-candidates/models.go
package rankcandidates

import (
	"encoding/json"

	"crew-match-workers/internal/common/errors"
	"crew-match-workers/internal/common/validation"
	"crew-match-workers/internal/matching"
)

type Input struct {
	Request    matching.MatchRequest       `json:"request"`
	Candidates []matching.CandidateProfile `json:"candidates"`
	Profile    string                      `json:"profile,omitempty"`
}

type Output struct {
	MatchID   string                    `json:"matchId"`
	Profile   string                    `json:"profile"`
	Shortlist []matching.CandidateScore `json:"shortlist"`
	Evaluated int                       `json:"evaluated"`
	Eligible  int                       `json:"eligible"`
	Returned  int                       `json:"returned"`
	RankedAt  string                    `json:"rankedAt"` // ISO 8601
}

// inputSchema checks the shape of the job variables. Semantic checks such
// as an empty trade or an inverted window are left to the matcher so they
// surface as INVALID_REQUEST.
const inputSchema = `{
	"type": "object",
	"required": ["request", "candidates"],
	"properties": {
		"profile": {"type": "string"},
		"request": {
			"type": "object",
			"properties": {
				"requestId": {"type": "string"},
				"trade": {"type": "string"},
				"skills": {"type": ["array", "null"], "items": {"type": "string"}},
				"dateWindow": {
					"type": "object",
					"properties": {
						"start": {"type": "string"},
						"end": {"type": "string"}
					}
				},
				"timeWindow": {
					"type": ["object", "null"],
					"required": ["start", "end"],
					"properties": {
						"start": {"type": "string"},
						"end": {"type": "string"}
					}
				},
				"crewSize": {"type": "integer"},
				"limit": {"type": "integer"},
				"location": {"$ref": "#/definitions/location"}
			}
		},
		"candidates": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id"],
				"properties": {
					"id": {"type": "string"},
					"skills": {"type": ["array", "null"], "items": {"type": "string"}},
					"crewSize": {"type": "integer"},
					"rating": {"type": "number"},
					"completedJobs": {"type": "integer", "minimum": 0},
					"location": {"$ref": "#/definitions/location"},
					"availability": {
						"type": ["array", "null"],
						"items": {
							"type": "object",
							"required": ["date", "status"],
							"properties": {
								"date": {"type": "string"},
								"start": {"type": "string"},
								"end": {"type": "string"},
								"status": {"type": "string"}
							}
						}
					}
				}
			}
		}
	},
	"definitions": {
		"location": {
			"type": "object",
			"properties": {
				"region": {"type": "string"},
				"coordinates": {
					"type": ["object", "null"],
					"required": ["lat", "lon"],
					"properties": {
						"lat": {"type": "number"},
						"lon": {"type": "number"}
					}
				}
			}
		}
	}
}`

var inputValidator = validation.MustCompile("rank-candidates-input", inputSchema)

// DecodeInput validates raw job variables against the input schema and
// decodes them.
func DecodeInput(variables string) (*Input, error) {
	if err := inputValidator.Check([]byte(variables)); err != nil {
		return nil, err
	}

	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewInputValidationFailedError(err.Error())
	}
	return &input, nil
}
