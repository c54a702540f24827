package models

// Defaults applied to optional request fields
const (
	DefaultChatTitle = "Чат"
	DefaultHours     = 5
)

// TopAuthor represents message count statistics for a chat member
type TopAuthor struct {
	UserID    int64  `json:"user_id,omitempty"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name"`
	MsgCount  int    `json:"msg_count"`
}

// ReplyPair represents how many times one member replied to another
type ReplyPair struct {
	Username         string `json:"username,omitempty"`
	FirstName        string `json:"first_name"`
	ReplyToUsername  string `json:"reply_to_username,omitempty"`
	ReplyToFirstName string `json:"reply_to_first_name"`
	Replies          int    `json:"replies"`
}

// RecentMessage represents a single message from the analyzed window
type RecentMessage struct {
	Username           string `json:"username,omitempty"`
	FirstName          string `json:"first_name"`
	MessageText        string `json:"message_text"`
	MessageType        string `json:"message_type,omitempty"`
	VoiceTranscription string `json:"voice_transcription,omitempty"`
	ImageDescription   string `json:"image_description,omitempty"`
	StickerEmoji       string `json:"sticker_emoji,omitempty"`
}

// StatisticsPayload represents aggregated chat metrics computed by the caller
type StatisticsPayload struct {
	TotalMessages  int             `json:"total_messages"`
	TopAuthors     []TopAuthor     `json:"top_authors"`
	MessageTypes   map[string]int  `json:"message_types"`
	ReplyPairs     []ReplyPair     `json:"reply_pairs"`
	HourlyActivity map[string]int  `json:"hourly_activity"`
	RecentMessages []RecentMessage `json:"recent_messages"`
	HoursAnalyzed  int             `json:"hours_analyzed,omitempty"`
}

// PreviousSummary represents an earlier summary the caller keeps for context
type PreviousSummary struct {
	SummaryText   string `json:"summary_text"`
	TopTalkerName string `json:"top_talker_name,omitempty"`
}

// Memory represents a remembered fact about a chat member
type Memory struct {
	FirstName  string `json:"first_name,omitempty"`
	Username   string `json:"username,omitempty"`
	MemoryType string `json:"memory_type,omitempty"`
	MemoryText string `json:"memory_text"`
}

// SummaryRequest represents a request to generate a summary.
// Statistics is a pointer so that an absent field can be told apart
// from an empty object.
type SummaryRequest struct {
	Statistics        *StatisticsPayload `json:"statistics"`
	ChatTitle         string             `json:"chat_title"`
	Hours             int                `json:"hours"`
	PreviousSummaries []PreviousSummary  `json:"previous_summaries,omitempty"`
	Memories          []Memory           `json:"memories,omitempty"`
}

// SummaryResponse represents the result of summary generation
type SummaryResponse struct {
	Summary    string `json:"summary"`
	TokensUsed int    `json:"tokens_used"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
