package moderation

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
)

const (
	transcriptLimit = 1900

	// bulkDeleteMaxAge is how old a message may be and still be bulk deleted
	bulkDeleteMaxAge = 14 * 24 * time.Hour
)

// transcript renders msgs, which Discord returns newest first, as an
// oldest-first "**author:** content" listing. It also counts attachments.
func transcript(msgs []*discordgo.Message) (string, int) {
	var (
		b           strings.Builder
		attachments int
	)
	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]
		attachments += len(m.Attachments)

		content := m.Content
		if content == "" {
			if len(m.Attachments) > 0 {
				content = "*[Attachment]*"
			} else {
				content = "*[Embed]*"
			}
		}

		author := "unknown"
		if m.Author != nil {
			author = UserTag(m.Author)
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("**" + author + ":** " + content)
	}
	return truncate(b.String(), transcriptLimit), attachments
}

// deletable returns the ids of the messages young enough to bulk delete
func deletable(msgs []*discordgo.Message, now time.Time) []string {
	ids := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if now.Sub(m.Timestamp) >= bulkDeleteMaxAge {
			continue
		}
		ids = append(ids, m.ID)
	}
	return ids
}

// truncate cuts s to at most limit bytes without splitting a rune
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
