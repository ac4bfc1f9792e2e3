package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	discordrouter "github.com/jose-valero/soundboard-bot/internal/adapters/discord"
	"github.com/jose-valero/soundboard-bot/internal/adapters/discordapi"
	"github.com/jose-valero/soundboard-bot/internal/adapters/httpwebhook"
	"github.com/jose-valero/soundboard-bot/internal/app/service"
	"github.com/jose-valero/soundboard-bot/internal/infra/config"
	"github.com/jose-valero/soundboard-bot/internal/infra/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := config.SetupLogging(cfg.LogLevel); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// DB
	db, err := storage.Open(ctx, cfg.DatabaseURL, storage.ServerPool)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := storage.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Info("✅ DB lista y migrada")

	sounds := storage.NewSoundRepo(db)
	files, err := storage.NewAudioStore(cfg.SoundDataDir)
	if err != nil {
		log.Fatal(err)
	}

	// REST (antes de los services que lo usan)
	api := discordapi.New(cfg.BotAuth(), discordapi.WithBaseURL(cfg.DiscordBaseURL))

	// Services
	assignSvc := service.NewAssignmentService(sounds, discordrouter.NewPanel(api, cfg.SoundboardChannelID))
	soundSvc := service.NewSoundService(sounds, files, api, assignSvc, cfg.SoundMaxSize)

	reg, err := discordrouter.BuildRegistry(soundSvc)
	if err != nil {
		log.Fatalf("armando comandos: %v", err)
	}
	regCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	_, err = api.BulkOverwriteGuildCommands(regCtx, cfg.DiscordApplicationID, cfg.DiscordGuild, reg.Definitions())
	cancel()
	if err != nil {
		log.Fatalf("registrando comandos: %v", err)
	}
	log.Infof("✅ comandos registrados en guild %s", cfg.DiscordGuild)

	// Gateway: sólo para voz y para interacciones si no hay endpoint configurado
	s, err := discordgo.New(cfg.BotAuth())
	if err != nil {
		log.Fatal(err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildVoiceStates
	if err := s.Open(); err != nil {
		log.Fatal(err)
	}
	defer s.Close()
	log.Infof("✅ Conectado como %s (%s)", s.State.User.Username, s.State.User.ID)

	voice := discordrouter.NewVoice(s)
	player := service.NewPlaybackService(voice, voice, files, cfg.PlayQueueSize)
	defer player.Close()

	verifier, err := discordrouter.NewVerifier(cfg.DiscordPublicKey)
	if err != nil {
		log.Fatal(err)
	}
	router := discordrouter.NewRouter(verifier, reg, api,
		discordrouter.WithComponents(discordrouter.NewPresses(soundSvc, player, cfg.PressCooldown)),
	)
	s.AddHandler(router.GatewayHandler())

	// Reconciliación: hasta que termine, /add contesta "starting up"
	go func() {
		defer func(t time.Time) { log.Infof("reconcile done in %s", time.Since(t)) }(time.Now())
		if err := assignSvc.Reconcile(ctx); err != nil {
			log.WithError(err).Error("reconcile failed; adds stay disabled until restart")
		}
	}()

	if err := httpwebhook.New(router).Start(ctx, cfg.HTTPAddr); err != nil {
		log.Errorf("http server: %v", err)
	}
	log.Info("shutting down")
}
