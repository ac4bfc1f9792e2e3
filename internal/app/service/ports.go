package service

import (
	"context"
	"io"

	"github.com/jose-valero/soundboard-bot/internal/domain"
)

// Lo implementa internal/infra/storage.SoundRepo
type SoundCatalog interface {
	LoadAll(ctx context.Context) ([]domain.Sound, error)
	Insert(ctx context.Context, customID, filename string, size int64, addedBy string) (domain.Sound, error)
	AssignToMessage(ctx context.Context, soundIDs []int64, messageID string) error
	ExistsCustomID(ctx context.Context, customID string) (bool, error)
	GetByCustomID(ctx context.Context, customID string) (domain.Sound, error)
}

// Lo implementa internal/adapters/discord.Panel: el mensaje con botones en el canal.
type Board interface {
	CreatePanel(ctx context.Context, sounds []domain.Sound) (messageID string, err error)
	UpdatePanel(ctx context.Context, messageID string, sounds []domain.Sound) error
}

// Lo implementa internal/infra/storage.AudioStore
type AudioFiles interface {
	Save(filename string, r io.Reader) (int64, error)
	Open(filename string) (io.ReadCloser, error)
	Remove(filename string) error
}

// Lo implementa internal/adapters/discordapi.Client
type Downloader interface {
	// Download no entrega más de limit+1 bytes: alcanza para detectar el exceso.
	Download(ctx context.Context, url string, limit int64) (io.ReadCloser, error)
}

// Voz: los implementa internal/adapters/discord sobre la sesión del gateway.
type VoiceLocator interface {
	// UserVoiceChannel devuelve el canal de voz actual del usuario en ese guild.
	UserVoiceChannel(guildID, userID string) (channelID string, ok bool)
}

type VoiceDialer interface {
	JoinVoice(ctx context.Context, guildID, channelID string) (VoiceTransport, error)
}

type VoiceTransport interface {
	Speaking(on bool) error
	SendOpus(ctx context.Context, frame []byte) error
}
