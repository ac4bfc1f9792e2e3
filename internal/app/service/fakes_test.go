package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/jose-valero/soundboard-bot/internal/domain"
)

var errStorage = errors.New("storage down")

// memCatalog es un catálogo en memoria con las mismas reglas que el repo SQL.
type memCatalog struct {
	mu         sync.Mutex
	nextID     int64
	rows       []domain.Sound
	assigns    int
	failAssign bool

	inserts      int
	failInsertAt int // el insert N (1-based) falla, 0 = nunca
}

func (c *memCatalog) LoadAll(context.Context) ([]domain.Sound, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Sound, len(c.rows))
	copy(out, c.rows)
	return out, nil
}

func (c *memCatalog) Insert(_ context.Context, customID, filename string, size int64, addedBy string) (domain.Sound, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inserts++
	if c.failInsertAt > 0 && c.inserts == c.failInsertAt {
		return domain.Sound{}, errStorage
	}
	c.nextID++
	s := domain.Sound{ID: c.nextID, CustomID: customID, Filename: filename, Size: size, AddedBy: addedBy}
	c.rows = append(c.rows, s)
	return s, nil
}

func (c *memCatalog) AssignToMessage(_ context.Context, ids []int64, messageID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failAssign {
		return errStorage
	}
	want := map[int64]bool{}
	for _, id := range ids {
		want[id] = true
	}
	for _, r := range c.rows {
		if want[r.ID] && r.Assigned() {
			return fmt.Errorf("sound %d already assigned", r.ID)
		}
	}
	for i := range c.rows {
		if want[c.rows[i].ID] {
			m := messageID
			c.rows[i].MessageID = &m
		}
	}
	c.assigns++
	return nil
}

func (c *memCatalog) ExistsCustomID(_ context.Context, customID string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range c.rows {
		if r.CustomID == customID {
			return true, nil
		}
	}
	return false, nil
}

func (c *memCatalog) GetByCustomID(_ context.Context, customID string) (domain.Sound, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range c.rows {
		if r.CustomID == customID {
			return r, nil
		}
	}
	return domain.Sound{}, domain.ErrNotFound
}

func (c *memCatalog) add(n int) []domain.Sound {
	var out []domain.Sound
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("s%03d.dca", c.nextID+1)
		s, _ := c.Insert(context.Background(), name, name, 100, "tester")
		out = append(out, s)
	}
	return out
}

// memBoard hace de canal: guarda qué botones muestra cada mensaje. Como Discord,
// rechaza el mensaje entero si algún custom_id es inválido.
type memBoard struct {
	mu       sync.Mutex
	next     int
	messages map[string][]int64
	order    []string
	creates  int
	updates  int
}

func newMemBoard() *memBoard { return &memBoard{messages: map[string][]int64{}} }

func checkCustomIDs(sounds []domain.Sound) error {
	for _, s := range sounds {
		if !domain.ValidCustomID(s.CustomID) {
			return fmt.Errorf("invalid form body: custom_id %q", s.CustomID)
		}
	}
	return nil
}

func (b *memBoard) CreatePanel(ctx context.Context, sounds []domain.Sound) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := checkCustomIDs(sounds); err != nil {
		return "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	id := fmt.Sprintf("msg-%d", b.next)
	b.messages[id] = ids(sounds)
	b.order = append(b.order, id)
	b.creates++
	return id, nil
}

func (b *memBoard) UpdatePanel(ctx context.Context, messageID string, sounds []domain.Sound) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkCustomIDs(sounds); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.messages[messageID]; !ok {
		return fmt.Errorf("unknown message %s", messageID)
	}
	b.messages[messageID] = ids(sounds)
	b.updates++
	return nil
}

type mockBoard struct{ mock.Mock }

func (m *mockBoard) CreatePanel(ctx context.Context, sounds []domain.Sound) (string, error) {
	args := m.Called(ctx, sounds)
	return args.String(0), args.Error(1)
}

func (m *mockBoard) UpdatePanel(ctx context.Context, messageID string, sounds []domain.Sound) error {
	return m.Called(ctx, messageID, sounds).Error(0)
}

// memFiles guarda el audio en memoria.
type memFiles struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemFiles() *memFiles { return &memFiles{files: map[string][]byte{}} }

func (f *memFiles) Save(name string, r io.Reader) (int64, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[name] = b
	return int64(len(b)), nil
}

func (f *memFiles) Open(name string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.files[name]
	if !ok {
		return nil, errors.New("no such file")
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (f *memFiles) Remove(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.files[name]; !ok {
		return errors.New("no such file")
	}
	delete(f.files, name)
	return nil
}

func (f *memFiles) names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for k := range f.files {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// fakeDownloader respeta el límite igual que el cliente real.
type fakeDownloader struct {
	fail   map[string]bool
	bodies map[string]string
}

func (d fakeDownloader) Download(_ context.Context, url string, limit int64) (io.ReadCloser, error) {
	if d.fail[url] {
		return nil, errors.New("cdn 404")
	}
	body, ok := d.bodies[url]
	if !ok {
		body = "audio:" + url
	}
	return io.NopCloser(io.LimitReader(strings.NewReader(body), limit+1)), nil
}
