package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/dustin/go-humanize"
	"github.com/jose-valero/soundboard-bot/internal/app/service"
	"github.com/jose-valero/soundboard-bot/internal/domain"
)

const (
	maxAddOptions    = 10
	msgStartingUp    = "The soundboard is still starting up, try again in a moment."
	msgNoGuildSounds = "No sounds on this server's soundboard."
	addEmbedTitle    = "Adding Sounds"
)

// SoundAdder es lo que /add necesita del servicio de sonidos.
type SoundAdder interface {
	Add(ctx context.Context, atts []domain.Attachment, addedBy string) (service.AddReport, error)
	MaxSize() int64
}

// BuildRegistry arma la tabla de comandos en orden fijo y la congela.
func BuildRegistry(sounds SoundAdder) (*Registry, error) {
	reg := NewRegistry()
	steps := []struct {
		name, desc string
		typ        discordgo.ApplicationCommandType
		opts       []*discordgo.ApplicationCommandOption
		cmd        Command
	}{
		{"hello", "Say hello", discordgo.ChatApplicationCommand, nil, CommandFunc(hello)},
		{"sounds", "List sounds", discordgo.ChatApplicationCommand, nil, CommandFunc(listSounds)},
		{"add", "Add sounds to the soundboard", discordgo.ChatApplicationCommand, addOptions(), &addCommand{sounds: sounds}},
		{"Add to soundboard", "", discordgo.MessageApplicationCommand, nil, &addCommand{sounds: sounds, fromMessage: true}},
		{"ping", "Check the bot is alive", discordgo.ChatApplicationCommand, nil, CommandFunc(ping)},
	}
	for _, s := range steps {
		if err := reg.Register(s.name, s.desc, s.typ, s.opts, s.cmd); err != nil {
			return nil, err
		}
	}
	reg.Freeze()
	return reg, nil
}

func addOptions() []*discordgo.ApplicationCommandOption {
	opts := make([]*discordgo.ApplicationCommandOption, 0, maxAddOptions)
	for i := 1; i <= maxAddOptions; i++ {
		opts = append(opts, &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionAttachment,
			Name:        fmt.Sprintf("sound%d", i),
			Description: "Audio file",
			Required:    i == 1,
		})
	}
	return opts
}

func hello(_ context.Context, ic *discordgo.Interaction, _ API) (*discordgo.InteractionResponse, error) {
	return Ephemeral("Hello " + mention(userID(ic))), nil
}

func ping(context.Context, *discordgo.Interaction, API) (*discordgo.InteractionResponse, error) {
	return Ephemeral("pong"), nil
}

// listSounds muestra el soundboard nativo del guild (no el nuestro).
func listSounds(ctx context.Context, ic *discordgo.Interaction, api API) (*discordgo.InteractionResponse, error) {
	items, err := api.ListSoundboardSounds(ctx, ic.GuildID)
	if err != nil {
		return nil, fmt.Errorf("list soundboard sounds: %w", err)
	}
	if len(items) == 0 {
		return Ephemeral(msgNoGuildSounds), nil
	}
	var b strings.Builder
	b.WriteString("```\n")
	for _, it := range items {
		line := it.Name
		if it.EmojiName != nil && *it.EmojiName != "" {
			line = *it.EmojiName + " " + line
		}
		if !it.Available {
			line += " (unavailable)"
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString("```")
	return Ephemeral(b.String()), nil
}

type addCommand struct {
	sounds      SoundAdder
	fromMessage bool
}

func (c *addCommand) Execute(ctx context.Context, ic *discordgo.Interaction, _ API) (*discordgo.InteractionResponse, error) {
	data, _ := ic.Data.(discordgo.ApplicationCommandInteractionData)
	atts := commandAttachments(data)
	if c.fromMessage {
		atts = messageAttachments(data)
	}

	rep, err := c.sounds.Add(ctx, atts, userID(ic))
	if errors.Is(err, service.ErrNotReady) {
		return Ephemeral(msgStartingUp), nil
	}
	if err != nil {
		return nil, err
	}
	return EphemeralEmbed(addEmbed(rep, c.sounds.MaxSize())), nil
}

func addEmbed(rep service.AddReport, maxSize int64) *discordgo.MessageEmbed {
	em := &discordgo.MessageEmbed{
		Title:       addEmbedTitle,
		Description: rep.Description,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Max size per sound: " + humanize.IBytes(uint64(maxSize))},
	}
	for _, it := range rep.Items {
		em.Fields = append(em.Fields, &discordgo.MessageEmbedField{Name: it.Filename, Value: it.Message})
	}
	return em
}
