package discord

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/jose-valero/soundboard-bot/internal/adapters/discordapi"
)

// discordgo todavía no trae la constante para los comandos de entry point (Activities).
const PrimaryEntryPointCommand discordgo.ApplicationCommandType = 4

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrInvalidCommand = errors.New("invalid command")
	ErrRegistryFrozen = errors.New("command registry is frozen")
)

// API es lo que un comando puede usar de la API REST de Discord.
type API interface {
	ListSoundboardSounds(ctx context.Context, guildID string) ([]discordapi.SoundboardSound, error)
}

// Command es el cuerpo ejecutable de un comando registrado.
type Command interface {
	Execute(ctx context.Context, ic *discordgo.Interaction, api API) (*discordgo.InteractionResponse, error)
}

type CommandFunc func(ctx context.Context, ic *discordgo.Interaction, api API) (*discordgo.InteractionResponse, error)

func (f CommandFunc) Execute(ctx context.Context, ic *discordgo.Interaction, api API) (*discordgo.InteractionResponse, error) {
	return f(ctx, ic, api)
}

type registered struct {
	def *discordgo.ApplicationCommand
	cmd Command
}

// Registry es la tabla de comandos: se arma una vez al arrancar y se congela antes de servir.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]registered
	order  []string
	frozen bool
}

func NewRegistry() *Registry {
	return &Registry{byName: map[string]registered{}}
}

// Register agrega (o pisa, gana el último) un comando.
// Discord rechaza description en comandos de mensaje, así que acá falla antes.
func (r *Registry) Register(name, description string, typ discordgo.ApplicationCommandType, options []*discordgo.ApplicationCommandOption, cmd Command) error {
	if name == "" || cmd == nil {
		return fmt.Errorf("%q: %w", name, ErrInvalidCommand)
	}
	if typ == discordgo.MessageApplicationCommand && description != "" {
		return fmt.Errorf("%q: message commands cannot have a description: %w", name, ErrInvalidCommand)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return fmt.Errorf("%q: %w", name, ErrRegistryFrozen)
	}
	if _, ok := r.byName[name]; !ok {
		r.order = append(r.order, name)
	}
	r.byName[name] = registered{
		def: &discordgo.ApplicationCommand{
			Name:        name,
			Description: description,
			Type:        typ,
			Options:     options,
		},
		cmd: cmd,
	}
	return nil
}

func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Definitions devuelve el set completo para el PUT de comandos, en orden de registro.
func (r *Registry) Definitions() []*discordgo.ApplicationCommand {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*discordgo.ApplicationCommand, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name].def)
	}
	return out
}

// Dispatch ejecuta el comando por data.name y devuelve su respuesta tal cual.
// Un nombre desconocido vuelve como ErrUnknownCommand; decide el caller.
func (r *Registry) Dispatch(ctx context.Context, ic *discordgo.Interaction, api API) (*discordgo.InteractionResponse, error) {
	data, ok := ic.Data.(discordgo.ApplicationCommandInteractionData)
	if !ok {
		return nil, fmt.Errorf("interaction %s has no command data: %w", ic.ID, ErrUnknownCommand)
	}
	r.mu.RLock()
	reg, ok := r.byName[data.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%q: %w", data.Name, ErrUnknownCommand)
	}
	return reg.cmd.Execute(ctx, ic, api)
}
