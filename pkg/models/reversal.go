package models

import "time"

// ReversalKind identifies what a reversal undoes
type ReversalKind string

const (
	ReversalUnban      ReversalKind = "unban"
	ReversalRemoveRole ReversalKind = "remove_role"
)

// Reversal is a persisted, one-shot undo of a temporary ban or role grant
type Reversal struct {
	ID      string       `bson:"id" json:"id"`
	Kind    ReversalKind `bson:"kind" json:"kind"`
	GuildID string       `bson:"guildId" json:"guildId"`
	UserID  string       `bson:"userId" json:"userId"`
	RoleID  string       `bson:"roleId,omitempty" json:"roleId,omitempty"`
	DueAt   time.Time    `bson:"dueAt" json:"dueAt"`
	Reason  string       `bson:"reason,omitempty" json:"reason,omitempty"`
}
