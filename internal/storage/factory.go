package storage

import "github.com/Noxaewr/good-night-app/internal"

// Repositories bundles the three repository views of one backend.
type Repositories struct {
	Users        UserRepository
	Follows      FollowRepository
	SleepRecords SleepRecordRepository
	Closer       interface{ Close() error }
}

func NewFileRepositories(usersFile, followsFile, sleepFile string, logger internal.Logger) (*Repositories, error) {
	storage, err := NewFileStorage(usersFile, followsFile, sleepFile, logger)
	if err != nil {
		return nil, err
	}
	return &Repositories{Users: storage, Follows: storage, SleepRecords: storage, Closer: storage}, nil
}

func NewPostgresRepositories(dsn string, logger internal.Logger) (*Repositories, error) {
	storage, err := NewPostgresStorage(dsn, logger)
	if err != nil {
		return nil, err
	}
	return &Repositories{Users: storage, Follows: storage, SleepRecords: storage, Closer: storage}, nil
}
