package discordapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/bwmarrin/discordgo"
)

// BulkOverwriteGuildCommands reemplaza el set completo de comandos del guild (PUT).
func (c *Client) BulkOverwriteGuildCommands(ctx context.Context, appID, guildID string, cmds []*discordgo.ApplicationCommand) ([]*discordgo.ApplicationCommand, error) {
	if cmds == nil {
		cmds = []*discordgo.ApplicationCommand{}
	}
	var out []*discordgo.ApplicationCommand
	path := fmt.Sprintf("/applications/%s/guilds/%s/commands", appID, guildID)
	if err := c.doJSON(ctx, http.MethodPut, path, cmds, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListSoundboardSounds lista los sonidos nativos del soundboard del guild.
func (c *Client) ListSoundboardSounds(ctx context.Context, guildID string) ([]SoundboardSound, error) {
	var dto soundboardListDTO
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/guilds/%s/soundboard-sounds", guildID), nil, &dto); err != nil {
		return nil, err
	}
	return dto.Items, nil
}

// CreateMessage manda un mensaje al canal y devuelve su id.
func (c *Client) CreateMessage(ctx context.Context, channelID string, msg MessagePayload) (string, error) {
	var dto messageDTO
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/channels/%s/messages", channelID), msg, &dto); err != nil {
		return "", err
	}
	return dto.ID, nil
}

func (c *Client) EditMessage(ctx context.Context, channelID, messageID string, msg MessagePayload) error {
	return c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/channels/%s/messages/%s", channelID, messageID), msg, nil)
}

// Download baja un adjunto del CDN. Las URLs del CDN ya vienen firmadas: no lleva token.
// El body se corta en limit+1 bytes para que el que lee note el exceso (limit <= 0: sin tope).
func (c *Client) Download(ctx context.Context, url string, limit int64) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 1<<10))
		_ = res.Body.Close()
		return nil, apiError(req, res, bytes.TrimSpace(b))
	}
	if limit <= 0 {
		return res.Body, nil
	}
	return limitedBody{io.LimitReader(res.Body, limit+1), res.Body}, nil
}

type limitedBody struct {
	io.Reader
	io.Closer
}
