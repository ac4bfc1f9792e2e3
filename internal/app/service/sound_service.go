package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jose-valero/soundboard-bot/internal/domain"
)

var (
	ErrNotReady = errors.New("soundboard is still reconciling")

	errBodyTooLarge = errors.New("downloaded body exceeds max size")
)

// placeTimeout: los botones se publican aunque el request ya haya vencido,
// las filas ya están en el catálogo.
const placeTimeout = 15 * time.Second

// Textos que ve el usuario en el embed de /add.
const (
	MsgNoAttachments = "No audio files provided"
	MsgTooMany       = "Can only add up to 25 sounds at once."
	MsgAdded         = "Added successfully."
	MsgExists        = "Skipping: already exists."
	MsgDownload      = "Skipping: download failed."
	MsgNameTooLong   = "Skipping: file name too long."
	MsgSizeMismatch  = "Skipping: file is larger than declared."
)

func msgTooLarge(size int64) string { return fmt.Sprintf("Skipping: too large (%d).", size) }

type ItemResult struct {
	Filename string
	Message  string
}

// AddReport es el resultado de un /add: un mensaje general (si aplica) y una línea por adjunto.
type AddReport struct {
	Description string
	Items       []ItemResult
	Added       []domain.Sound
}

type SoundService struct {
	catalog  SoundCatalog
	files    AudioFiles
	download Downloader
	assign   *AssignmentService
	maxSize  int64
}

func NewSoundService(catalog SoundCatalog, files AudioFiles, download Downloader, assign *AssignmentService, maxSize int64) *SoundService {
	return &SoundService{catalog: catalog, files: files, download: download, assign: assign, maxSize: maxSize}
}

func (s *SoundService) MaxSize() int64 { return s.maxSize }

// Add guarda cada adjunto válido y le da botón. Un adjunto inválido se saltea
// con su diagnóstico y el resto del lote sigue. Un error de storage corta el
// lote, pero lo que ya se insertó igual recibe botón.
func (s *SoundService) Add(ctx context.Context, atts []domain.Attachment, addedBy string) (AddReport, error) {
	if !s.assign.IsReady() {
		return AddReport{}, ErrNotReady
	}
	if len(atts) == 0 {
		return AddReport{Description: MsgNoAttachments}, nil
	}
	if len(atts) > domain.MaxButtonsPerMessage {
		return AddReport{Description: MsgTooMany}, nil
	}

	var rep AddReport
	err := s.addEach(ctx, atts, addedBy, &rep)

	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), placeTimeout)
	defer cancel()
	if perr := s.assign.Place(pctx, rep.Added); perr != nil {
		err = errors.Join(err, perr)
	}
	return rep, err
}

func (s *SoundService) addEach(ctx context.Context, atts []domain.Attachment, addedBy string, rep *AddReport) error {
	for _, att := range atts {
		l := log.WithFields(log.Fields{"file": att.Filename, "size": att.Size, "by": addedBy})

		if att.Size > s.maxSize {
			rep.Items = append(rep.Items, ItemResult{att.Filename, msgTooLarge(att.Size)})
			l.Debug("skipping: too large")
			continue
		}
		// custom_id = filename: es lo que va embebido en el botón
		if !domain.ValidCustomID(att.Filename) {
			rep.Items = append(rep.Items, ItemResult{att.Filename, MsgNameTooLong})
			l.Debug("skipping: name too long")
			continue
		}
		exists, err := s.catalog.ExistsCustomID(ctx, att.Filename)
		if err != nil {
			return err
		}
		if exists {
			rep.Items = append(rep.Items, ItemResult{att.Filename, MsgExists})
			l.Debug("skipping: already exists")
			continue
		}

		size, err := s.save(ctx, att)
		if errors.Is(err, errBodyTooLarge) {
			rep.Items = append(rep.Items, ItemResult{att.Filename, MsgSizeMismatch})
			l.Warn("skipping: body larger than declared")
			continue
		}
		if err != nil {
			rep.Items = append(rep.Items, ItemResult{att.Filename, MsgDownload})
			l.WithError(err).Warn("skipping: download failed")
			continue
		}

		snd, err := s.catalog.Insert(ctx, att.Filename, att.Filename, size, addedBy)
		if err != nil {
			return err
		}
		rep.Added = append(rep.Added, snd)
		rep.Items = append(rep.Items, ItemResult{att.Filename, MsgAdded})
		l.Info("sound saved")
	}
	return nil
}

// save baja el adjunto al store. Si el CDN manda más que maxSize el archivo se borra.
func (s *SoundService) save(ctx context.Context, att domain.Attachment) (int64, error) {
	rc, err := s.download.Download(ctx, att.URL, s.maxSize)
	if err != nil {
		return 0, err
	}
	defer rc.Close()
	n, err := s.files.Save(att.Filename, io.LimitReader(rc, s.maxSize+1))
	if err != nil {
		return 0, err
	}
	if n > s.maxSize {
		if rerr := s.files.Remove(att.Filename); rerr != nil {
			log.WithError(rerr).WithField("file", att.Filename).Warn("remove oversized file")
		}
		return 0, errBodyTooLarge
	}
	return n, nil
}

// Lookup resuelve el custom_id de un botón al sonido del catálogo.
func (s *SoundService) Lookup(ctx context.Context, customID string) (domain.Sound, error) {
	return s.catalog.GetByCustomID(ctx, customID)
}
