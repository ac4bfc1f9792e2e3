package discord

import (
	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const msgUnrecognized = "Unrecognized Interaction"

func Pong() *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{Type: discordgo.InteractionResponsePong}
}

// Ephemeral: mensaje que sólo ve quien invocó.
func Ephemeral(content string) *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}
}

func EphemeralEmbed(embed *discordgo.MessageEmbed) *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	}
}

// Ack de un botón: "actualiza" el mensaje sin cambiar nada, el panel queda igual.
func DeferredUpdate() *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{Type: discordgo.InteractionResponseDeferredMessageUpdate}
}

func Unrecognized() *discordgo.InteractionResponse { return Ephemeral(msgUnrecognized) }

// Respond contesta por el gateway (cuando no hay webhook configurado).
func Respond(s *discordgo.Session, ic *discordgo.Interaction, res *discordgo.InteractionResponse) error {
	err := s.InteractionRespond(ic, res)
	if err != nil {
		log.WithError(err).WithField("interaction", ic.ID).Warn("interaction respond failed")
	}
	return err
}
