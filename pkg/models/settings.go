package models

// LogChannel is the persisted log channel pointer
type LogChannel struct {
	ChannelID string `bson:"channelId" json:"channelId"`
}
