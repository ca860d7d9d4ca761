package richtext

import (
	"fmt"
	"html"

	"github.com/google/uuid"

	"github.com/kyangwi/portfolio/internal/domain/course"
)

// legacyTopicTitle names the synthetic topic a flat-notes chapter upgrades to.
const legacyTopicTitle = "Notes"

// ExpandChapters upgrades chapters persisted in the pre-topic shape (a flat
// notes string) into the current chapter/topic tree. A chapter that already
// carries a topics list, even an empty one, passes through unchanged apart
// from missing-id backfill, so the expansion is idempotent. The upgrade happens at read time only; the stored
// record is left in its legacy shape.
func ExpandChapters(chapters []course.Chapter) []course.Chapter {
	if len(chapters) == 0 {
		return []course.Chapter{}
	}

	expanded := make([]course.Chapter, len(chapters))
	for i, ch := range chapters {
		// A present topics list marks the current shape even when it is
		// empty; only chapters persisted without one carry legacy notes.
		if ch.Topics != nil {
			expanded[i] = ch
			expanded[i].ID = orGeneratedID(ch.ID, "chapter")
			expanded[i].Topics = backfillTopicIDs(ch.Topics)
			continue
		}

		expanded[i] = course.Chapter{
			ID:    orGeneratedID(ch.ID, "chapter"),
			Title: ch.Title,
			Topics: []course.Topic{{
				ID:       NewNodeID("topic"),
				Title:    legacyTopicTitle,
				Content:  fmt.Sprintf("<p>%s</p>", html.EscapeString(ch.Notes)),
				ReadTime: 1,
			}},
		}
	}
	return expanded
}

// NewNodeID mints an id for a chapter or topic node.
func NewNodeID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

func orGeneratedID(id, prefix string) string {
	if id != "" {
		return id
	}
	return NewNodeID(prefix)
}

func backfillTopicIDs(topics []course.Topic) []course.Topic {
	out := make([]course.Topic, len(topics))
	for i, t := range topics {
		out[i] = t
		out[i].ID = orGeneratedID(t.ID, "topic")
		if out[i].ReadTime < 1 {
			out[i].ReadTime = 1
		}
	}
	return out
}
