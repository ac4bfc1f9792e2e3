package service

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/jose-valero/soundboard-bot/internal/domain"
)

type container struct {
	messageID string
	sounds    []domain.Sound
}

// Container es una copia de sólo lectura de un mensaje contenedor.
type Container struct {
	MessageID string
	Sounds    []domain.Sound
}

// AssignmentService reparte los sonidos en mensajes de hasta 25 botones
// (first-fit y después chunks nuevos) y persiste a qué mensaje quedó cada uno.
// Es el único que escribe Sound.MessageID.
type AssignmentService struct {
	catalog SoundCatalog
	board   Board

	mu         sync.Mutex // serializa Reconcile/Place: nadie lee contenedores a mitad de una asignación
	containers []*container

	ready     chan struct{}
	readyOnce sync.Once
}

func NewAssignmentService(catalog SoundCatalog, board Board) *AssignmentService {
	return &AssignmentService{catalog: catalog, board: board, ready: make(chan struct{})}
}

// Ready se cierra cuando terminó la primera reconciliación.
func (s *AssignmentService) Ready() <-chan struct{} { return s.ready }

func (s *AssignmentService) IsReady() bool {
	select {
	case <-s.ready:
		return true
	default:
		return false
	}
}

// Reconcile reconstruye los contenedores desde el catálogo y ubica los sonidos
// que quedaron sin mensaje. Correrla dos veces seguidas no escribe nada.
func (s *AssignmentService) Reconcile(ctx context.Context) error {
	defer step("assign.reconcile")()
	s.mu.Lock()
	defer s.mu.Unlock()

	sounds, err := s.catalog.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load sounds: %w", err)
	}
	s.containers = rebuild(sounds, s.containers)

	var pending []domain.Sound
	for _, snd := range sounds {
		if snd.Assigned() {
			continue
		}
		if !domain.ValidCustomID(snd.CustomID) {
			// Discord rechazaría el panel entero; queda sin botón
			log.WithFields(log.Fields{"sound": snd.ID, "custom_id": snd.CustomID}).Warn("reconcile: invalid custom_id, skipped")
			continue
		}
		pending = append(pending, snd)
	}
	log.WithFields(log.Fields{
		"sounds":     len(sounds),
		"pending":    len(pending),
		"containers": len(s.containers),
	}).Info("reconcile: catalog loaded")

	if len(pending) > 0 {
		if err := s.place(ctx, pending); err != nil {
			return err
		}
	}
	s.readyOnce.Do(func() { close(s.ready) })
	return nil
}

// Place ubica un lote de sonidos nuevos. Los que ya tienen mensaje se ignoran,
// así reintentar el mismo lote no duplica botones.
func (s *AssignmentService) Place(ctx context.Context, sounds []domain.Sound) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[int64]struct{}, len(sounds))
	pending := make([]domain.Sound, 0, len(sounds))
	for _, snd := range sounds {
		if snd.Assigned() || s.holds(snd.ID) || !domain.ValidCustomID(snd.CustomID) {
			continue
		}
		if _, dup := seen[snd.ID]; dup {
			continue
		}
		seen[snd.ID] = struct{}{}
		pending = append(pending, snd)
	}
	if len(pending) == 0 {
		return nil
	}
	return s.place(ctx, pending)
}

func (s *AssignmentService) place(ctx context.Context, pending []domain.Sound) error {
	i := 0

	// 1) llenar lo que ya existe
	for _, c := range s.containers {
		if i >= len(pending) {
			break
		}
		free := domain.MaxButtonsPerMessage - len(c.sounds)
		if free <= 0 {
			continue
		}
		take := pending[i:min(i+free, len(pending))]

		members := make([]domain.Sound, 0, len(c.sounds)+len(take))
		members = append(members, c.sounds...)
		members = append(members, withMessage(take, c.messageID)...)

		if err := s.board.UpdatePanel(ctx, c.messageID, members); err != nil {
			return fmt.Errorf("update panel %s: %w", c.messageID, err)
		}
		if err := s.catalog.AssignToMessage(ctx, ids(take), c.messageID); err != nil {
			return fmt.Errorf("assign to %s: %w", c.messageID, err)
		}
		// memoria sólo después de persistir: un error de storage no deja estado a medias
		c.sounds = members
		i += len(take)
		log.WithFields(log.Fields{"message": c.messageID, "added": len(take), "total": len(members)}).Debug("panel filled")
	}

	// 2) lo que sobra va a mensajes nuevos de a 25
	for _, chunk := range batched(pending[i:], domain.MaxButtonsPerMessage) {
		msgID, err := s.board.CreatePanel(ctx, chunk)
		if err != nil {
			return fmt.Errorf("create panel: %w", err)
		}
		// se registra vacío antes de persistir: si falla el assign, el reintento
		// reusa este mensaje en vez de abrir otro con los mismos botones
		c := &container{messageID: msgID}
		s.containers = append(s.containers, c)

		if err := s.catalog.AssignToMessage(ctx, ids(chunk), msgID); err != nil {
			return fmt.Errorf("assign to %s: %w", msgID, err)
		}
		c.sounds = withMessage(chunk, msgID)
		log.WithFields(log.Fields{"message": msgID, "sounds": len(chunk)}).Info("panel created")
	}
	return nil
}

// Containers devuelve una copia de los contenedores en orden de creación.
func (s *AssignmentService) Containers() []Container {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Container, 0, len(s.containers))
	for _, c := range s.containers {
		out = append(out, Container{MessageID: c.messageID, Sounds: append([]domain.Sound(nil), c.sounds...)})
	}
	return out
}

func (s *AssignmentService) holds(id int64) bool {
	for _, c := range s.containers {
		for _, snd := range c.sounds {
			if snd.ID == id {
				return true
			}
		}
	}
	return false
}

// rebuild agrupa los sonidos asignados por mensaje, en el orden en que aparece
// cada mensaje (catálogo ordenado por id). Contenedores en memoria que todavía
// no tienen nada persistido se conservan al final.
func rebuild(sounds []domain.Sound, prev []*container) []*container {
	var out []*container
	byMsg := map[string]*container{}
	for _, snd := range sounds {
		if !snd.Assigned() {
			continue
		}
		c, ok := byMsg[*snd.MessageID]
		if !ok {
			c = &container{messageID: *snd.MessageID}
			byMsg[c.messageID] = c
			out = append(out, c)
		}
		c.sounds = append(c.sounds, snd)
	}
	for _, c := range prev {
		if _, ok := byMsg[c.messageID]; !ok && len(c.sounds) == 0 {
			out = append(out, c)
		}
	}
	return out
}

func withMessage(sounds []domain.Sound, messageID string) []domain.Sound {
	out := make([]domain.Sound, len(sounds))
	for i, snd := range sounds {
		m := messageID
		snd.MessageID = &m
		out[i] = snd
	}
	return out
}

func ids(sounds []domain.Sound) []int64 {
	out := make([]int64, len(sounds))
	for i, snd := range sounds {
		out[i] = snd.ID
	}
	return out
}

func batched(sounds []domain.Sound, n int) [][]domain.Sound {
	var out [][]domain.Sound
	for len(sounds) > 0 {
		k := min(n, len(sounds))
		out = append(out, sounds[:k])
		sounds = sounds[k:]
	}
	return out
}
