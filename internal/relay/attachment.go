package relay

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/icommits/telecord/internal/backend"
)

// FileResolver turns a platform file id into a (name, fetchable URL) pair.
type FileResolver interface {
	ResolveFileURL(fileID string) (name string, url string, err error)
}

// NormalizeAttachment extracts at most one attachment from an inbound
// message, probing media fields in fixed priority order: photo, audio,
// document, animation, sticker, video, voice. The first populated field
// wins, so an event never yields two attachments. A resolution failure is a
// hard error; a message with no supported media returns (nil, caption, nil).
func NormalizeAttachment(msg *tgbotapi.Message, resolver FileResolver) (*backend.AttachmentRef, string, error) {
	caption := strings.TrimSpace(msg.Caption)
	fileID := firstMediaFileID(msg)
	if fileID == "" {
		return nil, caption, nil
	}
	name, url, err := resolver.ResolveFileURL(fileID)
	if err != nil {
		return nil, caption, fmt.Errorf("resolve attachment: %w", err)
	}
	return &backend.AttachmentRef{Name: name, URL: url}, caption, nil
}

func firstMediaFileID(msg *tgbotapi.Message) string {
	switch {
	case len(msg.Photo) > 0:
		// Size variants come smallest first; the last is the full resolution.
		return msg.Photo[len(msg.Photo)-1].FileID
	case msg.Audio != nil:
		return msg.Audio.FileID
	case msg.Document != nil:
		return msg.Document.FileID
	case msg.Animation != nil:
		return msg.Animation.FileID
	case msg.Sticker != nil:
		return msg.Sticker.FileID
	case msg.Video != nil:
		return msg.Video.FileID
	case msg.Voice != nil:
		return msg.Voice.FileID
	default:
		return ""
	}
}
