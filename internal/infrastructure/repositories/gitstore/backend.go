package gitstore

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/storage/memory"

	"github.com/rios0rios0/supermanifest/internal/domain/entities"
	"github.com/rios0rios0/supermanifest/internal/domain/repositories"
)

// Backend opens go-git repositories by their store name.
type Backend interface {
	Open(name string) (*git.Repository, error)
	Exists(name string) bool
}

// FilesystemBackend serves bare repositories below the configured root, as
// <root>/<name>.git or <root>/<name>.
type FilesystemBackend struct {
	settings *entities.SettingsHolder
}

// NewFilesystemBackend creates a backend reading the root from settings.
func NewFilesystemBackend(settings *entities.SettingsHolder) *FilesystemBackend {
	return &FilesystemBackend{settings: settings}
}

func (b *FilesystemBackend) candidates(name string) ([]string, error) {
	if !validName(name) {
		return nil, fmt.Errorf("%w: invalid name %q", repositories.ErrRepositoryNotFound, name)
	}
	settings, err := b.settings.Load()
	if err != nil {
		return nil, err
	}
	base := filepath.Join(settings.Repositories.Root, filepath.FromSlash(name))
	return []string{base + ".git", base}, nil
}

func (b *FilesystemBackend) Open(name string) (*git.Repository, error) {
	paths, err := b.candidates(name)
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		repo, openErr := git.PlainOpen(p)
		if openErr == nil {
			return repo, nil
		}
		if !errors.Is(openErr, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("failed to open repository %q: %w", name, openErr)
		}
	}
	return nil, fmt.Errorf("%w: %s", repositories.ErrRepositoryNotFound, name)
}

func (b *FilesystemBackend) Exists(name string) bool {
	repo, err := b.Open(name)
	return err == nil && repo != nil
}

// validName rejects names escaping the root.
func validName(name string) bool {
	if name == "" || strings.HasPrefix(name, "/") || strings.Contains(name, `\`) {
		return false
	}
	for _, segment := range strings.Split(path.Clean(name), "/") {
		if segment == ".." || segment == "." {
			return false
		}
	}
	return true
}

// MemoryBackend keeps repositories in memory.
type MemoryBackend struct {
	mu    sync.Mutex
	repos map[string]*git.Repository
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{repos: make(map[string]*git.Repository)}
}

// Create initializes an empty bare repository called name, replacing any
// previous one.
func (b *MemoryBackend) Create(name string) (*git.Repository, error) {
	repo, err := git.Init(memory.NewStorage(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to init repository %q: %w", name, err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.repos[name] = repo
	return repo, nil
}

func (b *MemoryBackend) Open(name string) (*git.Repository, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	repo, ok := b.repos[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", repositories.ErrRepositoryNotFound, name)
	}
	return repo, nil
}

func (b *MemoryBackend) Exists(name string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.repos[name]
	return ok
}
