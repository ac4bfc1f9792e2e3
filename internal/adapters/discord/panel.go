package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/jose-valero/soundboard-bot/internal/adapters/discordapi"
	"github.com/jose-valero/soundboard-bot/internal/domain"
)

const buttonsPerRow = 5

// Messages es la parte de la API REST que usa el panel.
type Messages interface {
	CreateMessage(ctx context.Context, channelID string, msg discordapi.MessagePayload) (string, error)
	EditMessage(ctx context.Context, channelID, messageID string, msg discordapi.MessagePayload) error
}

// Panel publica los botones de sonidos en el canal del soundboard.
// Cada mensaje es un contenedor: hasta 5 filas de 5 botones.
type Panel struct {
	api       Messages
	channelID string
}

func NewPanel(api Messages, channelID string) *Panel {
	return &Panel{api: api, channelID: channelID}
}

func (p *Panel) CreatePanel(ctx context.Context, sounds []domain.Sound) (string, error) {
	defer step("panel.create")()
	return p.api.CreateMessage(ctx, p.channelID, renderPanel(sounds))
}

// UpdatePanel reescribe el mensaje con la membresía completa, no un diff.
func (p *Panel) UpdatePanel(ctx context.Context, messageID string, sounds []domain.Sound) error {
	defer step("panel.update")()
	return p.api.EditMessage(ctx, p.channelID, messageID, renderPanel(sounds))
}

func renderPanel(sounds []domain.Sound) discordapi.MessagePayload {
	if len(sounds) > domain.MaxButtonsPerMessage {
		sounds = sounds[:domain.MaxButtonsPerMessage]
	}
	rows := make([]discordgo.MessageComponent, 0, (len(sounds)+buttonsPerRow-1)/buttonsPerRow)
	for start := 0; start < len(sounds); start += buttonsPerRow {
		end := min(start+buttonsPerRow, len(sounds))
		btns := make([]discordgo.MessageComponent, 0, end-start)
		for _, s := range sounds[start:end] {
			btns = append(btns, discordgo.Button{
				Label:    buttonLabel(s.Filename),
				Style:    discordgo.SecondaryButton,
				CustomID: s.CustomID,
			})
		}
		rows = append(rows, discordgo.ActionsRow{Components: btns})
	}
	return discordapi.MessagePayload{Components: rows}
}
