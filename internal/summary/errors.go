package summary

import (
	"errors"
	"fmt"

	"github.com/chat-summary-api/internal/models"
)

// ErrInvalidRequest marks input that fails structural validation
var ErrInvalidRequest = errors.New("invalid request")

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// Validate checks the request before any provider call is made
func Validate(req *models.SummaryRequest) error {
	if req == nil {
		return invalidf("request body is empty")
	}

	stats := req.Statistics
	if stats == nil {
		return invalidf("missing required field: statistics")
	}

	if stats.TotalMessages < 0 {
		return invalidf("statistics.total_messages must be non-negative, got %d", stats.TotalMessages)
	}
	for i, author := range stats.TopAuthors {
		if author.MsgCount < 0 {
			return invalidf("statistics.top_authors[%d].msg_count must be non-negative", i)
		}
	}
	for label, count := range stats.MessageTypes {
		if count < 0 {
			return invalidf("statistics.message_types[%q] must be non-negative", label)
		}
	}
	for i, pair := range stats.ReplyPairs {
		if pair.Replies < 0 {
			return invalidf("statistics.reply_pairs[%d].replies must be non-negative", i)
		}
	}
	for hour, count := range stats.HourlyActivity {
		if count < 0 {
			return invalidf("statistics.hourly_activity[%q] must be non-negative", hour)
		}
	}

	return nil
}
