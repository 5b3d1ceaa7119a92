package postgres

import (
	"github.com/upb/casting-agency/config"
	"github.com/upb/casting-agency/repositories"
	"go.uber.org/zap"
)

// RepositoryFactory creates and manages all repositories
type RepositoryFactory struct {
	db     *DB
	logger *zap.Logger
}

// NewRepositoryFactory opens the database and creates a factory bound to it
func NewRepositoryFactory(cfg config.DatabaseConfig, logger *zap.Logger) (*RepositoryFactory, error) {
	db, err := NewDB(cfg, logger)
	if err != nil {
		return nil, err
	}
	return NewRepositoryFactoryFromDB(db, logger), nil
}

// NewRepositoryFactoryFromDB creates a factory over an existing pool
func NewRepositoryFactoryFromDB(db *DB, logger *zap.Logger) *RepositoryFactory {
	return &RepositoryFactory{db: db, logger: logger}
}

// NewRepositories creates all repository instances
func (f *RepositoryFactory) NewRepositories() *repositories.Repositories {
	return &repositories.Repositories{
		Actors: NewActorRepository(f.db, f.logger),
		Movies: NewMovieRepository(f.db, f.logger),
		Drinks: NewDrinkRepository(f.db, f.logger),

		Categories: NewCategoryRepository(f.db, f.logger),
		Questions:  NewQuestionRepository(f.db, f.logger),

		Venues:  NewVenueRepository(f.db, f.logger),
		Artists: NewArtistRepository(f.db, f.logger),
		Shows:   NewShowRepository(f.db, f.logger),
	}
}

// GetTransactionManager returns a transaction manager
func (f *RepositoryFactory) GetTransactionManager() repositories.TransactionManager {
	return NewTransactionManager(f.db, f.logger)
}

// GetDB returns the database connection
func (f *RepositoryFactory) GetDB() *DB {
	return f.db
}

// Close closes the database connection
func (f *RepositoryFactory) Close() error {
	return f.db.Close()
}
