package discord

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jose-valero/soundboard-bot/internal/app/service"
	"github.com/jose-valero/soundboard-bot/internal/domain"
	log "github.com/sirupsen/logrus"
)

const (
	msgNotInVoice = "You must be connected to a voice channel in this server!"
	msgSlowDown   = "Slow down a little."
	msgGoneSound  = "That sound is no longer available."
	msgQueueFull  = "Too many sounds queued, try again in a moment."
	msgJoinFailed = "Could not join your voice channel."
	msgNoPlayback = "Playback is not available right now."
)

type SoundLookup interface {
	Lookup(ctx context.Context, customID string) (domain.Sound, error)
}

type Player interface {
	Play(ctx context.Context, snd domain.Sound, userID, guildID string) error
}

// Presses atiende los clicks en los botones del panel: custom_id -> sonido -> play.
type Presses struct {
	sounds SoundLookup
	player Player
	limit  *userLimiter
}

// NewPresses: player puede ser nil (p.ej. en Lambda no hay voz).
func NewPresses(sounds SoundLookup, player Player, cooldown time.Duration) *Presses {
	return &Presses{sounds: sounds, player: player, limit: newUserLimiter(cooldown)}
}

func (p *Presses) HandleComponent(ctx context.Context, ic *discordgo.Interaction) (*discordgo.InteractionResponse, error) {
	data, ok := ic.Data.(discordgo.MessageComponentInteractionData)
	if !ok || data.ComponentType != discordgo.ButtonComponent {
		return Unrecognized(), nil
	}
	defer step("component.press")()

	uid := userID(ic)
	if p.player == nil {
		return Ephemeral(msgNoPlayback), nil
	}
	if !p.limit.Ready(uid) {
		return Ephemeral(msgSlowDown), nil
	}

	snd, err := p.sounds.Lookup(ctx, data.CustomID)
	if errors.Is(err, domain.ErrNotFound) {
		return Ephemeral(msgGoneSound), nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup %q: %w", data.CustomID, err)
	}

	lg := log.WithFields(log.Fields{"sound": snd.Filename, "guild": ic.GuildID, "user": uid})
	switch err := p.player.Play(ctx, snd, uid, ic.GuildID); {
	case err == nil:
		p.limit.Spend(uid)
		lg.Debug("queued")
		return DeferredUpdate(), nil
	case errors.Is(err, service.ErrNotInVoice):
		return Ephemeral(msgNotInVoice), nil
	case errors.Is(err, service.ErrQueueFull):
		return Ephemeral(msgQueueFull), nil
	default:
		lg.WithError(err).Warn("play failed")
		return Ephemeral(msgJoinFailed), nil
	}
}
