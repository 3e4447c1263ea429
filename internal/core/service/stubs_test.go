package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/forum-system/internal/core/domain"
	"github.com/99minutos/forum-system/internal/core/pagination"
	"github.com/99minutos/forum-system/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// Accounts
// ---------------------------------------------------------------------------

type stubAccountRepo struct {
	mu      sync.Mutex
	nextID  int64
	byID    map[int64]*domain.Account
	findErr error
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{byID: make(map[int64]*domain.Account)}
}

func (r *stubAccountRepo) Create(_ context.Context, a *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Email == a.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.nextID++
	clone := *a
	clone.ID = r.nextID
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, a := range r.byID {
		if a.Email == email {
			clone := *a
			return &clone, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) FindByID(_ context.Context, id int64) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	clone := *a
	return &clone, nil
}

// ---------------------------------------------------------------------------
// Session cache, token codec, hasher
// ---------------------------------------------------------------------------

type stubSessionCache struct {
	mu      sync.Mutex
	tokens  map[int64]string
	getErr  error
	lastTTL time.Duration
}

func newStubSessionCache() *stubSessionCache {
	return &stubSessionCache{tokens: make(map[int64]string)}
}

func (c *stubSessionCache) Put(_ context.Context, accountID int64, token string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens[accountID] = token
	c.lastTTL = ttl
	return nil
}

func (c *stubSessionCache) Get(_ context.Context, accountID int64) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return "", false, c.getErr
	}
	tok, ok := c.tokens[accountID]
	return tok, ok, nil
}

func (c *stubSessionCache) Delete(_ context.Context, accountID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.tokens, accountID)
	return nil
}

// stubCodec issues "tok:<id>:<n>" so every login yields a distinct token.
type stubCodec struct {
	mu     sync.Mutex
	issued int
}

func (c *stubCodec) Issue(accountID int64, _ time.Duration) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issued++
	return fmt.Sprintf("tok:%d:%d", accountID, c.issued), nil
}

func (c *stubCodec) Verify(token string) (int64, error) {
	parts := strings.Split(token, ":")
	if len(parts) != 3 || parts[0] != "tok" {
		return 0, domain.ErrInvalidToken
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, domain.ErrInvalidToken
	}
	return id, nil
}

type stubHasher struct{}

func (stubHasher) Hash(plaintext string) (string, error) { return "hashed:" + plaintext, nil }
func (stubHasher) Verify(plaintext, hash string) bool   { return hash == "hashed:"+plaintext }

// ---------------------------------------------------------------------------
// Boards and posts
// ---------------------------------------------------------------------------

// stubStore keeps boards and posts together so post writes can adjust the
// board counter the way the real repositories do inside one transaction.
type stubStore struct {
	mu          sync.Mutex
	nextBoardID int64
	nextPostID  int64
	boards      map[int64]*domain.Board
	posts       map[int64]*domain.Post
	lastFilter  ports.ListBoardsFilter
	listErr     error
}

func newStubStore() *stubStore {
	return &stubStore{boards: make(map[int64]*domain.Board), posts: make(map[int64]*domain.Post)}
}

type stubBoardRepo struct{ s *stubStore }
type stubPostRepo struct{ s *stubStore }

func (r stubBoardRepo) Create(_ context.Context, b *domain.Board) (*domain.Board, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.boards {
		if existing.Name == b.Name {
			return nil, domain.ErrBoardNameTaken
		}
	}
	r.s.nextBoardID++
	clone := *b
	clone.ID = r.s.nextBoardID
	r.s.boards[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r stubBoardRepo) FindByID(_ context.Context, id int64) (*domain.Board, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.boards[id]
	if !ok {
		return nil, domain.ErrBoardNotFound
	}
	clone := *b
	return &clone, nil
}

func (r stubBoardRepo) Update(_ context.Context, b *domain.Board) (*domain.Board, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.boards[b.ID]
	if !ok {
		return nil, domain.ErrBoardNotFound
	}
	for id, existing := range r.s.boards {
		if id != b.ID && existing.Name == b.Name {
			return nil, domain.ErrBoardNameTaken
		}
	}
	stored.Name, stored.Public, stored.UpdatedAt = b.Name, b.Public, b.UpdatedAt
	clone := *stored
	return &clone, nil
}

func (r stubBoardRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.boards[id]; !ok {
		return domain.ErrBoardNotFound
	}
	delete(r.s.boards, id)
	for pid, p := range r.s.posts {
		if p.BoardID == id {
			delete(r.s.posts, pid)
		}
	}
	return nil
}

func (r stubBoardRepo) List(_ context.Context, f ports.ListBoardsFilter) (*pagination.Page[*domain.Board], error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.lastFilter = f
	if r.s.listErr != nil {
		return nil, r.s.listErr
	}

	var eligible []*domain.Board
	for _, b := range r.s.boards {
		if b.OwnerID == f.ViewerID || b.Public {
			clone := *b
			eligible = append(eligible, &clone)
		}
	}
	total := int64(len(eligible))

	if f.OrderByPostCount {
		sort.Slice(eligible, func(i, j int) bool {
			if eligible[i].PostCount != eligible[j].PostCount {
				return eligible[i].PostCount > eligible[j].PostCount
			}
			return eligible[i].ID < eligible[j].ID
		})
	} else {
		sort.Slice(eligible, func(i, j int) bool { return eligible[i].ID < eligible[j].ID })
	}

	var window []*domain.Board
	for _, b := range eligible {
		if f.Page.HasCursor() && b.ID <= f.Page.Cursor {
			continue
		}
		window = append(window, b)
	}
	window = cut(window, f.Page)
	return pagination.NewPage(total, window, f.Page.Limit, func(b *domain.Board) int64 { return b.ID }), nil
}

func (r stubBoardRepo) IDs(_ context.Context) ([]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := make([]int64, 0, len(r.s.boards))
	for id := range r.s.boards {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r stubBoardRepo) RecountPosts(_ context.Context, id int64) (int64, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.boards[id]
	if !ok {
		return 0, 0, domain.ErrBoardNotFound
	}
	var n int64
	for _, p := range r.s.posts {
		if p.BoardID == id {
			n++
		}
	}
	before := b.PostCount
	b.PostCount = n
	return before, n, nil
}

func (r stubPostRepo) Create(_ context.Context, p *domain.Post) (*domain.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.boards[p.BoardID]
	if !ok {
		return nil, domain.ErrBoardNotFound
	}
	r.s.nextPostID++
	clone := *p
	clone.ID = r.s.nextPostID
	r.s.posts[clone.ID] = &clone
	b.PostCount++
	out := clone
	return &out, nil
}

func (r stubPostRepo) FindByID(_ context.Context, id int64) (*domain.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	clone := *p
	return &clone, nil
}

func (r stubPostRepo) Update(_ context.Context, p *domain.Post) (*domain.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.posts[p.ID]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	stored.Title, stored.Content, stored.UpdatedAt = p.Title, p.Content, p.UpdatedAt
	clone := *stored
	return &clone, nil
}

func (r stubPostRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[id]
	if !ok {
		return domain.ErrPostNotFound
	}
	delete(r.s.posts, id)
	if b, ok := r.s.boards[p.BoardID]; ok {
		b.PostCount--
	}
	return nil
}

func (r stubPostRepo) ListByBoard(_ context.Context, f ports.ListPostsFilter) (*pagination.Page[*domain.Post], error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var eligible []*domain.Post
	for _, p := range r.s.posts {
		if p.BoardID == f.BoardID {
			clone := *p
			eligible = append(eligible, &clone)
		}
	}
	total := int64(len(eligible))
	sort.Slice(eligible, func(i, j int) bool { return eligible[i].ID < eligible[j].ID })

	var window []*domain.Post
	for _, p := range eligible {
		if f.Page.HasCursor() && p.ID <= f.Page.Cursor {
			continue
		}
		window = append(window, p)
	}
	window = cut(window, f.Page)
	return pagination.NewPage(total, window, f.Page.Limit, func(p *domain.Post) int64 { return p.ID }), nil
}

// cut applies offset and the limit+1 fetch size.
func cut[T any](rows []T, page pagination.Request) []T {
	if page.Offset >= len(rows) {
		return nil
	}
	rows = rows[page.Offset:]
	if len(rows) > page.FetchSize() {
		rows = rows[:page.FetchSize()]
	}
	return rows
}

var errStoreDown = errors.New("connection refused")
