package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	HeaderSignature = "X-Signature-Ed25519"
	HeaderTimestamp = "X-Signature-Timestamp"
)

var (
	errMissingData  = errors.New("application command without data")
	bodyPong        = []byte(`{"type":1}`)
	bodyMissingData = []byte(`{"error":"missing data"}`)
	bodyInternal    = []byte(`{"error":"internal error"}`)
)

// Reply es lo que vuelve por HTTP al webhook: status y body JSON (vacío en 401).
type Reply struct {
	Status int
	Body   []byte
}

// Components atiende los clicks en botones (type 3).
type Components interface {
	HandleComponent(ctx context.Context, ic *discordgo.Interaction) (*discordgo.InteractionResponse, error)
}

type Router struct {
	verify     *Verifier
	registry   *Registry
	api        API
	components Components
	timeout    time.Duration
}

// DefaultTimeout deja margen dentro de los 3s que Discord espera la respuesta.
const DefaultTimeout = 2500 * time.Millisecond

type RouterOption func(*Router)

// WithComponents habilita los botones. Sin esto un click cae en "Unrecognized Interaction".
func WithComponents(c Components) RouterOption {
	return func(r *Router) { r.components = c }
}

func WithTimeout(d time.Duration) RouterOption {
	return func(r *Router) { r.timeout = d }
}

func NewRouter(v *Verifier, reg *Registry, api API, opts ...RouterOption) *Router {
	r := &Router{verify: v, registry: reg, api: api, timeout: DefaultTimeout}
	for _, o := range opts {
		o(r)
	}
	return r
}

// envelope se decodifica antes que discordgo.Interaction: discordgo falla si un
// type 2 llega sin data y acá eso tiene que ser un 400, no un 500.
type envelope struct {
	Type discordgo.InteractionType `json:"type"`
	Data json.RawMessage           `json:"data"`
}

// Handle procesa un request crudo del webhook. Firma primero; sin firma válida
// no se toca el body. El error sólo viene con status 500 y es para loguear.
func (r *Router) Handle(ctx context.Context, signature, timestamp string, body []byte) (Reply, error) {
	if !r.verify.Verify(signature, timestamp, body) {
		return Reply{Status: http.StatusUnauthorized}, nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Reply{Status: http.StatusInternalServerError, Body: bodyInternal}, fmt.Errorf("decode interaction: %w", err)
	}

	switch env.Type {
	case discordgo.InteractionPing:
		return Reply{Status: http.StatusOK, Body: bodyPong}, nil
	case discordgo.InteractionApplicationCommand:
		if d := bytes.TrimSpace(env.Data); len(d) == 0 || bytes.Equal(d, []byte("null")) {
			return Reply{Status: http.StatusBadRequest, Body: bodyMissingData}, errMissingData
		}
	}

	var ic discordgo.Interaction
	if err := json.Unmarshal(body, &ic); err != nil {
		return Reply{Status: http.StatusInternalServerError, Body: bodyInternal}, fmt.Errorf("decode interaction: %w", err)
	}

	res, err := r.Dispatch(ctx, &ic)
	if err != nil {
		return Reply{Status: http.StatusInternalServerError, Body: bodyInternal}, err
	}
	out, err := json.Marshal(res)
	if err != nil {
		return Reply{Status: http.StatusInternalServerError, Body: bodyInternal}, fmt.Errorf("encode response: %w", err)
	}
	return Reply{Status: http.StatusOK, Body: out}, nil
}

// Dispatch lleva una interacción ya validada a su handler. Lo usan el webhook y el gateway.
// Tipos que no manejamos y comandos desconocidos reciben el fallback efímero.
func (r *Router) Dispatch(ctx context.Context, ic *discordgo.Interaction) (res *discordgo.InteractionResponse, err error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	lg := log.WithFields(log.Fields{"interaction": ic.ID, "type": int(ic.Type), "guild": ic.GuildID, "user": userID(ic)})
	defer func() {
		if rec := recover(); rec != nil {
			lg.Errorf("panic handling interaction: %v", rec)
			res, err = nil, fmt.Errorf("panic: %v", rec)
		}
	}()

	switch ic.Type {
	case discordgo.InteractionPing:
		return Pong(), nil

	case discordgo.InteractionApplicationCommand:
		data, ok := ic.Data.(discordgo.ApplicationCommandInteractionData)
		if !ok {
			return nil, errMissingData
		}
		defer step("cmd." + data.Name)()
		lg.WithField("cmd", data.Name).Info("command")

		res, err = r.registry.Dispatch(ctx, ic, r.api)
		if errors.Is(err, ErrUnknownCommand) {
			lg.WithError(err).Error("dispatch failed")
			return Unrecognized(), nil
		}
		if err != nil {
			return nil, fmt.Errorf("command %s: %w", data.Name, err)
		}
		return res, nil

	case discordgo.InteractionMessageComponent:
		if r.components == nil {
			return Unrecognized(), nil
		}
		return r.components.HandleComponent(ctx, ic)
	}

	lg.Debug("unhandled interaction type")
	return Unrecognized(), nil
}

// GatewayHandler conecta el router al evento InteractionCreate de discordgo.
func (r *Router) GatewayHandler() func(*discordgo.Session, *discordgo.InteractionCreate) {
	return func(s *discordgo.Session, ev *discordgo.InteractionCreate) {
		res, err := r.Dispatch(context.Background(), ev.Interaction)
		if err != nil {
			log.WithError(err).WithField("interaction", ev.ID).Error("interaction failed")
			res = Ephemeral("Something went wrong.")
		}
		_ = Respond(s, ev.Interaction, res)
	}
}

func userID(ic *discordgo.Interaction) string {
	if ic.Member != nil && ic.Member.User != nil {
		return ic.Member.User.ID
	}
	if ic.User != nil {
		return ic.User.ID
	}
	return ""
}
