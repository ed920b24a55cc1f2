package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub. Each
// event type maps to its own topic; the Discord bot subscribes to learn
// about vote resolutions out-of-band.
type EventType string

const (
	EventMatchConfirmed EventType = "match-confirmed"
	EventMatchCancelled EventType = "match-cancelled"
	EventRatingsUpdated EventType = "ratings-updated"
)

// MatchResolvedEvent is the payload published when a pending match
// leaves the voting state.
type MatchResolvedEvent struct {
	MatchID     string `msgpack:"match_id"`
	GuildID     string `msgpack:"guild_id"`
	ChannelID   string `msgpack:"channel_id"`
	MessageID   string `msgpack:"message_id"`
	Status      string `msgpack:"status"`
	WinningSide string `msgpack:"winning_side,omitempty"`
}

// RatingChangeEvent carries one participant's rating movement of a
// confirmed match.
type RatingChangeEvent struct {
	MatchID      string `msgpack:"match_id"`
	GuildID      string `msgpack:"guild_id"`
	DiscordID    string `msgpack:"discord_id"`
	RatingBefore int    `msgpack:"rating_before"`
	RatingAfter  int    `msgpack:"rating_after"`
	RatingChange int    `msgpack:"rating_change"`
	Win          bool   `msgpack:"win"`
}
