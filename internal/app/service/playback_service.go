package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/jose-valero/soundboard-bot/internal/domain"
	"github.com/jose-valero/soundboard-bot/internal/infra/audio"
)

var (
	ErrNotInVoice = errors.New("user is not connected to a voice channel in this guild")
	ErrQueueFull  = errors.New("play queue is full")
)

// DefaultQueueSize: cuántos sonidos pueden esperar por guild mientras otro suena.
const DefaultQueueSize = 6

// PlaybackService es dueño de las conexiones de voz: a lo sumo una por guild.
// Un play mientras otro suena se encola (FIFO acotado); si la cola está llena se descarta.
type PlaybackService struct {
	locator VoiceLocator
	dialer  VoiceDialer
	files   AudioFiles
	qsize   int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	sessions map[string]*playSession
}

type playSession struct {
	guildID string

	mu        sync.Mutex // tomado mientras se conecta: un solo dial por guild
	transport VoiceTransport

	queue chan domain.Sound
}

func NewPlaybackService(locator VoiceLocator, dialer VoiceDialer, files AudioFiles, queueSize int) *PlaybackService {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &PlaybackService{
		locator:  locator,
		dialer:   dialer,
		files:    files,
		qsize:    queueSize,
		ctx:      ctx,
		cancel:   cancel,
		sessions: map[string]*playSession{},
	}
}

// Play valida que el usuario esté en voz (siempre en fresco), reusa o abre la
// conexión del guild y encola el sonido. El streaming sigue en background.
func (p *PlaybackService) Play(ctx context.Context, snd domain.Sound, userID, guildID string) error {
	channelID, ok := p.locator.UserVoiceChannel(guildID, userID)
	if !ok || channelID == "" {
		return ErrNotInVoice
	}

	sess := p.session(guildID)
	if err := sess.connect(ctx, p.dialer, channelID); err != nil {
		return fmt.Errorf("join voice %s/%s: %w", guildID, channelID, err)
	}

	select {
	case sess.queue <- snd:
		log.WithFields(log.Fields{"guild": guildID, "user": userID, "sound": snd.Filename}).Info("sound queued")
		return nil
	default:
		return ErrQueueFull
	}
}

func (p *PlaybackService) session(guildID string) *playSession {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.sessions[guildID]; ok {
		return s
	}
	s := &playSession{guildID: guildID, queue: make(chan domain.Sound, p.qsize)}
	p.sessions[guildID] = s
	p.wg.Add(1)
	go p.worker(s)
	return s
}

func (s *playSession) connect(ctx context.Context, d VoiceDialer, channelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.transport != nil {
		return nil
	}
	t, err := d.JoinVoice(ctx, s.guildID, channelID)
	if err != nil {
		return err
	}
	s.transport = t
	log.WithFields(log.Fields{"guild": s.guildID, "channel": channelID}).Info("voice connected")
	return nil
}

func (s *playSession) conn() VoiceTransport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transport
}

func (p *PlaybackService) worker(s *playSession) {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case snd := <-s.queue:
			if err := p.stream(s.conn(), snd); err != nil {
				// un error de transporte no tumba la sesión
				log.WithError(err).WithFields(log.Fields{"guild": s.guildID, "sound": snd.Filename}).Warn("playback interrupted")
			}
		}
	}
}

func (p *PlaybackService) stream(t VoiceTransport, snd domain.Sound) error {
	defer step("play." + snd.Filename)()
	if t == nil {
		return errors.New("no voice transport")
	}
	rc, err := p.files.Open(snd.Filename)
	if err != nil {
		return err
	}
	defer rc.Close()

	if err := t.Speaking(true); err != nil {
		return fmt.Errorf("speaking on: %w", err)
	}
	defer func() {
		if err := t.Speaking(false); err != nil {
			log.WithError(err).Debug("speaking off")
		}
	}()

	dec := audio.NewDecoder(rc)
	for {
		frame, err := dec.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := t.SendOpus(p.ctx, frame); err != nil {
			return err
		}
	}
}

// Close corta los workers. Las conexiones de voz las cierra quien cierra la sesión del gateway.
func (p *PlaybackService) Close() {
	p.cancel()
	p.wg.Wait()
}
