// Janitor: compara los audios en disco con el catálogo. Reporta huérfanos de los dos
// lados y, con -delete, borra los archivos que ningún sonido referencia.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"github.com/jose-valero/soundboard-bot/internal/infra/config"
	"github.com/jose-valero/soundboard-bot/internal/infra/storage"
)

type fileStore interface {
	List() ([]storage.StoredFile, error)
	Remove(filename string) error
}

type report struct {
	OrphanFiles  []storage.StoredFile // en disco, sin fila en el catálogo
	MissingFiles []string             // en el catálogo, sin archivo
	Freed        int64
}

func catalogFilenames(ctx context.Context, pool *pgxpool.Pool) (map[string]bool, error) {
	rows, err := pool.Query(ctx, `SELECT filename FROM sound`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out[name] = true
	}
	return out, rows.Err()
}

func sweep(catalog map[string]bool, files fileStore, del bool) (report, error) {
	var rep report
	stored, err := files.List()
	if err != nil {
		return rep, err
	}
	onDisk := make(map[string]bool, len(stored))
	for _, f := range stored {
		onDisk[f.Name] = true
		if catalog[f.Name] {
			continue
		}
		rep.OrphanFiles = append(rep.OrphanFiles, f)
		if !del {
			continue
		}
		if err := files.Remove(f.Name); err != nil {
			log.WithError(err).WithField("file", f.Name).Warn("remove failed")
			continue
		}
		rep.Freed += f.Size
	}
	for name := range catalog {
		if !onDisk[name] {
			rep.MissingFiles = append(rep.MissingFiles, name)
		}
	}
	sort.Strings(rep.MissingFiles)
	return rep, nil
}

func (r report) print(w io.Writer, del bool) {
	var total int64
	for _, f := range r.OrphanFiles {
		total += f.Size
		fmt.Fprintf(w, "orphan  %-40s %s\n", f.Name, humanize.IBytes(uint64(f.Size)))
	}
	for _, name := range r.MissingFiles {
		fmt.Fprintf(w, "missing %s\n", name)
	}
	fmt.Fprintf(w, "%d orphan files (%s), %d catalog entries without audio\n",
		len(r.OrphanFiles), humanize.IBytes(uint64(total)), len(r.MissingFiles))
	if del {
		fmt.Fprintf(w, "freed %s\n", humanize.IBytes(uint64(r.Freed)))
	}
}

func main() {
	del := flag.Bool("delete", false, "remove orphan audio files")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := config.SetupLogging(cfg.LogLevel); err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pcfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("parse: %v", err)
	}
	pcfg.MaxConns = 2
	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		log.Fatalf("pool: %v", err)
	}
	defer pool.Close()

	catalog, err := catalogFilenames(ctx, pool)
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}
	files, err := storage.NewAudioStore(cfg.SoundDataDir)
	if err != nil {
		log.Fatal(err)
	}
	rep, err := sweep(catalog, files, *del)
	if err != nil {
		log.Fatalf("sweep: %v", err)
	}
	rep.print(os.Stdout, *del)
}
