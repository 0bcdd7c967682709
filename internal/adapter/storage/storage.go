package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"regexp"
	"sort"
	"sync"

	"github.com/goydb/goyreport/internal/adapter/bbolt_engine"
	"github.com/goydb/goyreport/pkg/port"
	"go.uber.org/zap"
)

// DefaultReadBatchSize is the number of documents a cursor reads
// per read transaction.
const DefaultReadBatchSize = 500

var validDatabaseName = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// Storage is a directory of databases, one bbolt file each.
type Storage struct {
	path      string
	logger    *zap.Logger
	batchSize int

	dbs map[string]*Database
	mu  sync.RWMutex
}

type Option func(*Storage)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Storage) {
		s.logger = logger
	}
}

// WithReadBatchSize sets the number of documents cursors
// fetch per read transaction.
func WithReadBatchSize(n int) Option {
	return func(s *Storage) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

func Open(path string, opts ...Option) (*Storage, error) {
	s := &Storage{
		path:      path,
		logger:    zap.NewNop(),
		batchSize: DefaultReadBatchSize,
	}
	for _, opt := range opts {
		opt(s)
	}

	err := os.MkdirAll(path, 0755)
	if err != nil {
		return nil, err
	}

	err = s.ReloadDatabases(context.Background())
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Storage) String() string {
	return "<Storage path=" + s.path + ">"
}

func (s *Storage) ReloadDatabases(ctx context.Context) error {
	files, err := os.ReadDir(s.path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.dbs = make(map[string]*Database)
	s.mu.Unlock()

	for _, f := range files {
		if f.IsDir() || !validDatabaseName.MatchString(f.Name()) {
			continue
		}

		database, err := s.CreateDatabase(ctx, path.Base(f.Name()))
		if err != nil {
			s.logger.Error("loading database failed", zap.String("file", f.Name()), zap.Error(err))
			return err
		}
		s.logger.Info("loaded database", zap.Stringer("database", database))
	}

	return nil
}

// CreateDatabase opens the database file with the given name,
// creating it if needed. Creating an open database returns it.
func (s *Storage) CreateDatabase(ctx context.Context, name string) (*Database, error) {
	if !validDatabaseName.MatchString(name) {
		return nil, fmt.Errorf("database %q: %w", name, port.ErrInvalidName)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if db, ok := s.dbs[name]; ok {
		return db, nil
	}

	engine, err := bbolt_engine.Open(path.Join(s.path, name))
	if err != nil {
		return nil, err
	}

	database := &Database{
		name:      name,
		engine:    engine,
		logger:    s.logger.With(zap.String("database", name)),
		batchSize: s.batchSize,
	}
	s.dbs[name] = database

	return database, nil
}

func (s *Storage) DeleteDatabase(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, ok := s.dbs[name]
	if !ok {
		return fmt.Errorf("database %q: %w", name, port.ErrNotFound)
	}

	err := db.engine.Close()
	if err != nil {
		return err
	}

	err = os.Remove(path.Join(s.path, name))
	if err != nil {
		return err
	}

	delete(s.dbs, name)
	s.logger.Info("deleted database", zap.String("database", name))

	return nil
}

// Databases returns the sorted names of all open databases.
func (s *Storage) Databases(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.dbs))
	for name := range s.dbs {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}

func (s *Storage) Database(ctx context.Context, name string) (*Database, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	db, ok := s.dbs[name]
	if !ok {
		return nil, fmt.Errorf("database %q: %w", name, port.ErrNotFound)
	}

	return db, nil
}

func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, db := range s.dbs {
		err := db.engine.Close()
		if err != nil {
			return fmt.Errorf("failed to close db %q: %w", name, err)
		}
	}
	s.dbs = make(map[string]*Database)

	return nil
}
