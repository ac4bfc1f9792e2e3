package discordapi

import "github.com/bwmarrin/discordgo"

// MessagePayload es el body de crear/editar mensaje que usamos (sólo contenido y componentes).
type MessagePayload struct {
	Content    string                       `json:"content"`
	Components []discordgo.MessageComponent `json:"components"`
}

type messageDTO struct {
	ID        string `json:"id"`
	ChannelID string `json:"channel_id"`
}

// SoundboardSound es un sonido nativo del soundboard del guild.
type SoundboardSound struct {
	SoundID   string  `json:"sound_id"`
	Name      string  `json:"name"`
	Volume    float64 `json:"volume"`
	EmojiName *string `json:"emoji_name"`
	Available bool    `json:"available"`
}

type soundboardListDTO struct {
	Items []SoundboardSound `json:"items"`
}
