package discord

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jose-valero/soundboard-bot/internal/app/service"
)

var errVoiceNotReady = errors.New("voice connection not ready")

// Voice adapta la sesión del gateway a los puertos de voz del servicio de playback.
type Voice struct {
	s *discordgo.Session
}

func NewVoice(s *discordgo.Session) *Voice { return &Voice{s: s} }

// UserVoiceChannel lee el voice state del cache del gateway (requiere intent GuildVoiceStates).
func (v *Voice) UserVoiceChannel(guildID, userID string) (string, bool) {
	vs, err := v.s.State.VoiceState(guildID, userID)
	if err != nil || vs == nil || vs.ChannelID == "" {
		return "", false
	}
	return vs.ChannelID, true
}

// JoinVoice no espera más que ctx. Si el handshake termina tarde la conexión
// queda en la sesión de discordgo y el próximo join la reusa.
func (v *Voice) JoinVoice(ctx context.Context, guildID, channelID string) (service.VoiceTransport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	type joined struct {
		vc  *discordgo.VoiceConnection
		err error
	}
	done := make(chan joined, 1)
	go func() {
		vc, err := v.s.ChannelVoiceJoin(guildID, channelID, false, true)
		done <- joined{vc, err}
	}()
	select {
	case j := <-done:
		if j.err != nil {
			return nil, j.err
		}
		return &voiceConn{vc: j.vc, sendTimeout: time.Second}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type voiceConn struct {
	vc          *discordgo.VoiceConnection
	sendTimeout time.Duration
}

func (c *voiceConn) Speaking(on bool) error { return c.vc.Speaking(on) }

// SendOpus empuja un frame al canal de opus de discordgo; si nadie lo consume en
// sendTimeout la conexión está caída.
func (c *voiceConn) SendOpus(ctx context.Context, frame []byte) error {
	t := time.NewTimer(c.sendTimeout)
	defer t.Stop()
	select {
	case c.vc.OpusSend <- frame:
		return nil
	case <-t.C:
		return errVoiceNotReady
	case <-ctx.Done():
		return ctx.Err()
	}
}
