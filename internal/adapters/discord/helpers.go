package discord

import (
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/jose-valero/soundboard-bot/internal/domain"
)

// commandAttachments junta los adjuntos de un /add (opciones sound1..sound10) en orden de opción.
func commandAttachments(data discordgo.ApplicationCommandInteractionData) []domain.Attachment {
	if data.Resolved == nil || len(data.Resolved.Attachments) == 0 {
		return nil
	}
	out := make([]domain.Attachment, 0, len(data.Options))
	for _, opt := range data.Options {
		if opt.Type != discordgo.ApplicationCommandOptionAttachment {
			continue
		}
		id, _ := opt.Value.(string)
		if a, ok := data.Resolved.Attachments[id]; ok && a != nil {
			out = append(out, toAttachment(a))
		}
	}
	return out
}

// messageAttachments: los adjuntos del mensaje sobre el que se usó "Add to soundboard".
func messageAttachments(data discordgo.ApplicationCommandInteractionData) []domain.Attachment {
	if data.Resolved == nil || data.TargetID == "" {
		return nil
	}
	msg, ok := data.Resolved.Messages[data.TargetID]
	if !ok || msg == nil {
		return nil
	}
	out := make([]domain.Attachment, 0, len(msg.Attachments))
	for _, a := range msg.Attachments {
		if a != nil {
			out = append(out, toAttachment(a))
		}
	}
	return out
}

func toAttachment(a *discordgo.MessageAttachment) domain.Attachment {
	return domain.Attachment{Filename: a.Filename, Size: int64(a.Size), URL: a.URL}
}

// Discord corta los labels de botón en 80 caracteres.
const maxLabel = 80

func buttonLabel(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "?"
	}
	r := []rune(s)
	if len(r) > maxLabel {
		return string(r[:maxLabel])
	}
	return s
}

func mention(userID string) string { return "<@!" + userID + ">" }
