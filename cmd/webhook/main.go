// Endpoint de interacciones en Lambda (API Gateway HTTP API v2). Sin gateway no hay voz:
// los botones contestan que el playback no está disponible.
// Pensado para concurrencia reservada = 1 (un solo escritor de contenedores).
package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	log "github.com/sirupsen/logrus"

	discordrouter "github.com/jose-valero/soundboard-bot/internal/adapters/discord"
	"github.com/jose-valero/soundboard-bot/internal/adapters/discordapi"
	"github.com/jose-valero/soundboard-bot/internal/app/service"
	"github.com/jose-valero/soundboard-bot/internal/infra/config"
	"github.com/jose-valero/soundboard-bot/internal/infra/storage"
)

// setup corre una vez por cold start.
func setup() (*discordrouter.Router, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := config.SetupLogging(cfg.LogLevel); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	db, err := storage.Open(ctx, cfg.DatabaseURL, storage.LambdaPool)
	if err != nil {
		return nil, err
	}
	if err := storage.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	sounds := storage.NewSoundRepo(db)
	files, err := storage.NewAudioStore(cfg.SoundDataDir)
	if err != nil {
		return nil, err
	}
	api := discordapi.New(cfg.BotAuth(), discordapi.WithBaseURL(cfg.DiscordBaseURL))

	assignSvc := service.NewAssignmentService(sounds, discordrouter.NewPanel(api, cfg.SoundboardChannelID))
	soundSvc := service.NewSoundService(sounds, files, api, assignSvc, cfg.SoundMaxSize)
	reg, err := discordrouter.BuildRegistry(soundSvc)
	if err != nil {
		return nil, err
	}
	verifier, err := discordrouter.NewVerifier(cfg.DiscordPublicKey)
	if err != nil {
		return nil, err
	}

	// cold start: reconciliar antes del primer request
	if err := assignSvc.Reconcile(ctx); err != nil {
		log.WithError(err).Error("reconcile failed; adds stay disabled for this instance")
	}

	return discordrouter.NewRouter(verifier, reg, api,
		discordrouter.WithComponents(discordrouter.NewPresses(soundSvc, nil, cfg.PressCooldown)),
	), nil
}

// header: API Gateway v2 manda los headers en minúscula, pero no lo garantizamos.
func header(h map[string]string, name string) string {
	if v, ok := h[strings.ToLower(name)]; ok {
		return v
	}
	for k, v := range h {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

type interactions interface {
	Handle(ctx context.Context, signature, timestamp string, body []byte) (discordrouter.Reply, error)
}

func newHandler(router interactions) func(context.Context, events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	return func(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		return handle(ctx, router, req)
	}
}

func handle(ctx context.Context, router interactions, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	lg := log.WithFields(log.Fields{
		"request_id": req.RequestContext.RequestID,
		"ip":         req.RequestContext.HTTP.SourceIP,
	})

	body := []byte(req.Body)
	if req.IsBase64Encoded {
		dec, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			lg.Warn("body: invalid base64")
			return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusBadRequest}, nil
		}
		body = dec
	}

	rep, err := router.Handle(ctx, header(req.Headers, discordrouter.HeaderSignature), header(req.Headers, discordrouter.HeaderTimestamp), body)
	if err != nil {
		lg.WithError(err).WithField("status", rep.Status).Error("interaction failed")
	}

	res := events.APIGatewayV2HTTPResponse{StatusCode: rep.Status, Body: string(rep.Body)}
	if len(rep.Body) > 0 {
		res.Headers = map[string]string{"Content-Type": "application/json"}
	}
	return res, nil
}

func main() {
	router, err := setup()
	if err != nil {
		log.Fatal(err)
	}
	lambda.Start(newHandler(router))
}
