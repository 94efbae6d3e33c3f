package ingest

import (
	"regexp"
	"time"

	"github.com/gotd/td/tg"

	"github.com/ebarrios/tgsearch/internal/repository"
)

// linkPattern matches a case-insensitive http(s) URL anywhere in the text.
var linkPattern = regexp.MustCompile(`(?i)https?://`)

// Normalize maps one raw history entry to the canonical message record.
// Malformed input is an expected case, not a fault: service messages, empty
// placeholders and entries without a positive id are rejected by returning
// ok=false.
func Normalize(chatID int64, raw tg.MessageClass) (repository.Message, bool) {
	m, ok := raw.(*tg.Message)
	if !ok || m.ID <= 0 {
		return repository.Message{}, false
	}

	msg := repository.Message{
		ChatID:    chatID,
		MessageID: int64(m.ID),
		Date:      time.Unix(int64(m.Date), 0).UTC(),
		MediaType: repository.MediaNone,
	}

	if peer, ok := m.FromID.(*tg.PeerUser); ok {
		userID := peer.UserID
		msg.FromUserID = &userID
	}

	if header, ok := m.ReplyTo.(*tg.MessageReplyHeader); ok {
		if replyID, ok := header.GetReplyToMsgID(); ok {
			id := int64(replyID)
			msg.ReplyTo = &id
		}
	}

	// the wire format shares one text field between body and caption: with
	// media attached it is the caption, without it is the message text
	switch media := m.Media.(type) {
	case nil:
		msg.TextPlain = m.Message
	case *tg.MessageMediaPhoto:
		msg.MediaType = repository.MediaPhoto
		msg.MediaCaption = m.Message
	case *tg.MessageMediaDocument:
		msg.MediaType = classifyDocument(media)
		msg.MediaCaption = m.Message
	default:
		// webpages, polls, geo and anything newer: keep the text, no media tag
		msg.TextPlain = m.Message
	}
	msg.MediaText = msg.MediaCaption

	msg.HasLinks = linkPattern.MatchString(msg.TextPlain + " " + msg.MediaCaption)

	return msg, true
}

// classifyDocument narrows a generic document to the media type the schema
// stores, based on the document attributes.
func classifyDocument(media *tg.MessageMediaDocument) string {
	doc, ok := media.Document.(*tg.Document)
	if !ok {
		return repository.MediaDocument
	}

	var isVideo, isAnimation bool
	for _, attr := range doc.Attributes {
		switch a := attr.(type) {
		case *tg.DocumentAttributeAudio:
			if a.Voice {
				return repository.MediaVoice
			}
			return repository.MediaAudio
		case *tg.DocumentAttributeAnimated:
			isAnimation = true
		case *tg.DocumentAttributeVideo:
			isVideo = true
		}
	}

	// gifs carry both the animated and video attributes
	if isAnimation {
		return repository.MediaAnimation
	}
	if isVideo {
		return repository.MediaVideo
	}
	return repository.MediaDocument
}
