package discord

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reply(content string) Command {
	return CommandFunc(func(context.Context, *discordgo.Interaction, API) (*discordgo.InteractionResponse, error) {
		return Ephemeral(content), nil
	})
}

func commandInteraction(name string) *discordgo.Interaction {
	return &discordgo.Interaction{
		ID:      "i1",
		Type:    discordgo.InteractionApplicationCommand,
		GuildID: "g1",
		Data:    discordgo.ApplicationCommandInteractionData{Name: name},
	}
}

func TestRegisterRejectsMessageCommandWithDescription(t *testing.T) {
	reg := NewRegistry()
	err := reg.Register("Add to soundboard", "adds stuff", discordgo.MessageApplicationCommand, nil, reply("x"))
	require.True(t, errors.Is(err, ErrInvalidCommand))

	_, err = reg.Dispatch(context.Background(), commandInteraction("Add to soundboard"), nil)
	assert.True(t, errors.Is(err, ErrUnknownCommand))
	assert.Empty(t, reg.Definitions())
}

func TestRegisterAllowsMessageCommandWithoutDescription(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("Add to soundboard", "", discordgo.MessageApplicationCommand, nil, reply("x")))
	require.NoError(t, reg.Register("launch", "entry", PrimaryEntryPointCommand, nil, reply("y")))
	require.NoError(t, reg.Register("who", "user thing", discordgo.UserApplicationCommand, nil, reply("z")))
	assert.Len(t, reg.Definitions(), 3)
}

func TestRegisterLastWins(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("hello", "first", discordgo.ChatApplicationCommand, nil, reply("one")))
	require.NoError(t, reg.Register("ping", "pong", discordgo.ChatApplicationCommand, nil, reply("pong")))
	require.NoError(t, reg.Register("hello", "second", discordgo.ChatApplicationCommand, nil, reply("two")))

	res, err := reg.Dispatch(context.Background(), commandInteraction("hello"), nil)
	require.NoError(t, err)
	assert.Equal(t, "two", res.Data.Content)

	defs := reg.Definitions()
	require.Len(t, defs, 2)
	assert.Equal(t, "hello", defs[0].Name)
	assert.Equal(t, "second", defs[0].Description)
}

func TestFrozenRegistry(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("hello", "hi", discordgo.ChatApplicationCommand, nil, reply("hi")))
	reg.Freeze()

	err := reg.Register("late", "too late", discordgo.ChatApplicationCommand, nil, reply("x"))
	assert.True(t, errors.Is(err, ErrRegistryFrozen))

	res, err := reg.Dispatch(context.Background(), commandInteraction("hello"), nil)
	require.NoError(t, err)
	assert.Equal(t, "hi", res.Data.Content)
}

func TestDispatchUnknown(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Dispatch(context.Background(), commandInteraction("nope"), nil)
	assert.True(t, errors.Is(err, ErrUnknownCommand))

	_, err = reg.Dispatch(context.Background(), &discordgo.Interaction{Type: discordgo.InteractionPing}, nil)
	assert.True(t, errors.Is(err, ErrUnknownCommand))
}

// Registries separados no comparten estado.
func TestRegistriesAreIsolated(t *testing.T) {
	a, b := NewRegistry(), NewRegistry()
	require.NoError(t, a.Register("hello", "hi", discordgo.ChatApplicationCommand, nil, reply("a")))
	_, err := b.Dispatch(context.Background(), commandInteraction("hello"), nil)
	assert.True(t, errors.Is(err, ErrUnknownCommand))
}
