// Package collector drains the paginated call log search into a single slice.
package collector

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Andrew-LILO/agent-performance-dashboard/internal/convoso"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/metrics"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/types"
)

// PageFetcher fetches one page of call logs
type PageFetcher interface {
	FetchCallLogsPage(ctx context.Context, q convoso.CallLogQuery) (*convoso.CallLogPage, error)
}

// Collector pages through call logs sequentially
type Collector struct {
	fetcher  PageFetcher
	pageSize int
	logger   zerolog.Logger
}

// New creates a collector requesting pageSize records per page
func New(fetcher PageFetcher, pageSize int, logger zerolog.Logger) *Collector {
	if pageSize <= 0 {
		pageSize = convoso.DefaultPageLimit
	}
	return &Collector{
		fetcher:  fetcher,
		pageSize: pageSize,
		logger:   logger.With().Str("component", "collector").Logger(),
	}
}

// CollectAll returns every record matching base, up to maxRecords. It stops at
// the upstream total, the cap, an empty page, a failed page or the page budget,
// whichever comes first. A failed page ends collection with what was gathered
// so far; the error is logged, not returned.
func (c *Collector) CollectAll(ctx context.Context, base convoso.CallLogQuery, maxRecords int) []types.CallLogRecord {
	if maxRecords <= 0 {
		return nil
	}

	maxPages := (maxRecords + c.pageSize - 1) / c.pageSize
	records := make([]types.CallLogRecord, 0, min(maxRecords, c.pageSize))

	offset := 0
	totalFound := -1

	for page := 0; page < maxPages; page++ {
		q := base
		q.Offset = offset
		q.Limit = c.pageSize

		result, err := c.fetcher.FetchCallLogsPage(ctx, q)
		if err != nil {
			metrics.CollectorAbortsTotal.Inc()
			c.logger.Error().
				Err(err).
				Int("page", page+1).
				Int("offset", offset).
				Int("collected", len(records)).
				Msg("call log page failed, returning partial results")
			break
		}
		metrics.CollectorPagesTotal.Inc()

		if totalFound < 0 {
			totalFound = min(result.TotalFound, maxRecords)
			c.logger.Debug().
				Int("total_found", result.TotalFound).
				Int("target", totalFound).
				Msg("starting call log collection")
		}

		if len(result.Records) == 0 {
			break
		}

		batch := result.Records
		if room := maxRecords - len(records); len(batch) > room {
			batch = batch[:room]
		}
		records = append(records, batch...)
		metrics.CollectorRecordsTotal.Add(float64(len(batch)))

		if len(records) >= totalFound || len(records) >= maxRecords {
			break
		}
		offset += c.pageSize
	}

	c.logger.Info().
		Int("records", len(records)).
		Int("total_found", totalFound).
		Msg("call log collection finished")

	return records
}
