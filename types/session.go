package types

// Mode selects automated or manual handling for one conversation.
type Mode string

const (
	ModeAI    Mode = "AI"
	ModeHuman Mode = "Human"
)

// ChatSession is the persisted per-conversation state. A missing record means
// the conversation is in AI mode; records are never deleted.
type ChatSession struct {
	ID         string `bson:"_id,omitempty" json:"id,omitempty"`
	LineUserID string `bson:"line_user_id" json:"line_user_id"`
	Mode       Mode   `bson:"mode" json:"mode"`
	LastActive int64  `bson:"last_active" json:"last_active"`
}
