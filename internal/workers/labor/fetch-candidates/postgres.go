// internal/workers/labor/fetch-candidates/postgres.go
package fetchcandidates

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"crew-match-workers/internal/matching"
)

const selectCandidatesSQL = `SELECT id, display_name, skills, certifications, crew_size, rate, rate_unit,
       region, latitude, longitude, COALESCE(rating, 0), completed_jobs, phone, email
  FROM candidates
 WHERE active AND lower(trade) = lower($1)
 ORDER BY id
 LIMIT $2`

const selectSlotsSQL = `SELECT candidate_id, to_char(slot_date, 'YYYY-MM-DD'), to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'), status
  FROM candidate_availability
 WHERE candidate_id = ANY($1) AND slot_date BETWEEN $2 AND $3
 ORDER BY candidate_id, slot_date, start_time`

func (h *Handler) queryCandidates(ctx context.Context, req matching.MatchRequest, limit int) ([]matching.CandidateProfile, error) {
	rows, err := h.db.QueryContext(ctx, selectCandidatesSQL, req.Trade, limit)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	var (
		candidates []matching.CandidateProfile
		index      = map[string]int{}
	)
	for rows.Next() {
		var (
			c              matching.CandidateProfile
			displayName    sql.NullString
			rateUnit       sql.NullString
			region         sql.NullString
			lat, lon       sql.NullFloat64
			phone, email   sql.NullString
			skills, certs  []string
			crewSize, jobs sql.NullInt64
			rate           sql.NullFloat64
		)
		if err := rows.Scan(
			&c.ID, &displayName, pq.Array(&skills), pq.Array(&certs), &crewSize, &rate, &rateUnit,
			&region, &lat, &lon, &c.Rating, &jobs, &phone, &email,
		); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}

		c.DisplayName = displayName.String
		c.Skills = skills
		c.Certifications = certs
		c.CrewSize = int(crewSize.Int64)
		c.Rate = rate.Float64
		c.RateUnit = matching.RateUnit(rateUnit.String)
		c.Location.Region = region.String
		if lat.Valid && lon.Valid {
			c.Location.Coordinates = &matching.Coordinates{Lat: lat.Float64, Lon: lon.Float64}
		}
		c.CompletedJobs = int(jobs.Int64)
		c.Phone = phone.String
		c.Email = email.String

		index[c.ID] = len(candidates)
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}
	if len(candidates) == 0 {
		return []matching.CandidateProfile{}, nil
	}

	ids := make([]string, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
	}
	if err := h.attachSlots(ctx, candidates, index, ids, req.DateWindow); err != nil {
		return nil, err
	}
	return candidates, nil
}

func (h *Handler) attachSlots(ctx context.Context, candidates []matching.CandidateProfile, index map[string]int, ids []string, dw matching.DateWindow) error {
	rows, err := h.db.QueryContext(ctx, selectSlotsSQL, pq.Array(ids), dw.Start, dw.End)
	if err != nil {
		return fmt.Errorf("query availability: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			candidateID, date, status string
			start, end                sql.NullString
		)
		if err := rows.Scan(&candidateID, &date, &start, &end, &status); err != nil {
			return fmt.Errorf("scan availability: %w", err)
		}
		i, ok := index[candidateID]
		if !ok {
			continue
		}
		candidates[i].Availability = append(candidates[i].Availability, matching.AvailabilitySlot{
			Date:   date,
			Start:  start.String,
			End:    end.String,
			Status: matching.SlotStatus(status),
		})
	}
	return rows.Err()
}
