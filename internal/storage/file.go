package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/Noxaewr/good-night-app/internal"
)

type FileStorage struct {
	users           map[string]*internal.User        // id -> User
	follows         map[string]*internal.FollowEdge  // pair key -> FollowEdge
	sleepRecords    map[string]*internal.SleepRecord // id -> SleepRecord
	userSleepIndex  map[string][]*internal.SleepRecord
	mu              sync.RWMutex
	usersFile       string
	followsFile     string
	sleepFile       string
	saveUsersChan   chan struct{}
	saveFollowsChan chan struct{}
	saveSleepChan   chan struct{}
	shutdownChan    chan struct{}
	saveDelay       time.Duration
	logger          internal.Logger
}

func NewFileStorage(usersFile, followsFile, sleepFile string, logger internal.Logger) (*FileStorage, error) {
	s := &FileStorage{
		users:           make(map[string]*internal.User),
		follows:         make(map[string]*internal.FollowEdge),
		sleepRecords:    make(map[string]*internal.SleepRecord),
		userSleepIndex:  make(map[string][]*internal.SleepRecord),
		usersFile:       usersFile,
		followsFile:     followsFile,
		sleepFile:       sleepFile,
		saveUsersChan:   make(chan struct{}, 1),
		saveFollowsChan: make(chan struct{}, 1),
		saveSleepChan:   make(chan struct{}, 1),
		shutdownChan:    make(chan struct{}),
		saveDelay:       500 * time.Millisecond,
		logger:          logger,
	}

	if err := s.loadUsers(); err != nil {
		logger.Errorf("storage: failed to load users: %v", err)
		return nil, err
	}
	if err := s.loadFollows(); err != nil {
		logger.Errorf("storage: failed to load follows: %v", err)
		return nil, err
	}
	if err := s.loadSleepRecords(); err != nil {
		logger.Errorf("storage: failed to load sleep records: %v", err)
		return nil, err
	}

	go s.saveWorker(s.saveUsersChan, s.saveUsers)
	go s.saveWorker(s.saveFollowsChan, s.saveFollows)
	go s.saveWorker(s.saveSleepChan, s.saveSleepRecords)

	return s, nil
}

func pairKey(followerID, followedUserID string) string {
	return followerID + "\x00" + followedUserID
}

func loadJSONFile[T any](path string) ([]*T, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var items []*T
	if err := json.NewDecoder(file).Decode(&items); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	return items, nil
}

func (s *FileStorage) loadUsers() error {
	users, err := loadJSONFile[internal.User](s.usersFile)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range users {
		s.users[u.ID] = u
	}
	return nil
}

func (s *FileStorage) loadFollows() error {
	edges, err := loadJSONFile[internal.FollowEdge](s.followsFile)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range edges {
		s.follows[pairKey(e.FollowerID, e.FollowedUserID)] = e
	}
	return nil
}

func (s *FileStorage) loadSleepRecords() error {
	records, err := loadJSONFile[internal.SleepRecord](s.sleepFile)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		s.sleepRecords[r.ID] = r
		s.userSleepIndex[r.UserID] = append(s.userSleepIndex[r.UserID], r)
	}

	// Sort each user's records descending by CreatedAt
	for userID := range s.userSleepIndex {
		sort.Slice(s.userSleepIndex[userID], func(i, j int) bool {
			return s.userSleepIndex[userID][i].CreatedAt.After(s.userSleepIndex[userID][j].CreatedAt)
		})
	}
	return nil
}

func atomicWriteFileJSON(filePath string, data interface{}) error {
	tempFile := filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}

func (s *FileStorage) saveUsers() error {
	s.mu.RLock()
	users := make([]*internal.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	s.mu.RUnlock()
	return atomicWriteFileJSON(s.usersFile, users)
}

func (s *FileStorage) saveFollows() error {
	s.mu.RLock()
	edges := make([]*internal.FollowEdge, 0, len(s.follows))
	for _, e := range s.follows {
		edges = append(edges, e)
	}
	s.mu.RUnlock()
	return atomicWriteFileJSON(s.followsFile, edges)
}

func (s *FileStorage) saveSleepRecords() error {
	s.mu.RLock()
	records := make([]*internal.SleepRecord, 0, len(s.sleepRecords))
	for _, r := range s.sleepRecords {
		records = append(records, r)
	}
	s.mu.RUnlock()
	return atomicWriteFileJSON(s.sleepFile, records)
}

// saveWorker batches save operations to avoid frequent disk writes
func (s *FileStorage) saveWorker(signal <-chan struct{}, save func() error) {
	timer := time.NewTimer(s.saveDelay)
	defer timer.Stop()

	for {
		select {
		case <-signal:
			timer.Reset(s.saveDelay)
		case <-timer.C:
			if err := save(); err != nil {
				s.logger.Errorf("storage: error saving data: %v", err)
			}
		case <-s.shutdownChan:
			return
		}
	}
}

func signalSave(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

func (s *FileStorage) Close() error {
	close(s.shutdownChan)

	// Save pending data synchronously on shutdown
	if err := s.saveUsers(); err != nil {
		return err
	}
	if err := s.saveFollows(); err != nil {
		return err
	}
	return s.saveSleepRecords()
}

// --- UserRepository ---

func (s *FileStorage) CreateUser(ctx context.Context, user *internal.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	signalSave(s.saveUsersChan)
	return nil
}

func (s *FileStorage) GetUser(ctx context.Context, id string) (*internal.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *FileStorage) ListUsers(ctx context.Context) ([]internal.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]internal.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID < users[j].ID
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

// --- FollowRepository ---

// CreateFollow holds the write lock across the existence check and the
// insert, which gives the single-writer guarantee the pair uniqueness needs.
func (s *FileStorage) CreateFollow(ctx context.Context, edge *internal.FollowEdge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey(edge.FollowerID, edge.FollowedUserID)
	if _, exists := s.follows[key]; exists {
		return ErrDuplicateFollow
	}
	s.follows[key] = edge
	signalSave(s.saveFollowsChan)
	return nil
}

func (s *FileStorage) DeleteFollow(ctx context.Context, followerID, followedUserID string) (*internal.FollowEdge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey(followerID, followedUserID)
	edge, ok := s.follows[key]
	if !ok {
		return nil, ErrNotFound
	}
	delete(s.follows, key)
	signalSave(s.saveFollowsChan)
	copied := *edge
	return &copied, nil
}

func (s *FileStorage) GetFollow(ctx context.Context, followerID, followedUserID string) (*internal.FollowEdge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	edge, ok := s.follows[pairKey(followerID, followedUserID)]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *edge
	return &copied, nil
}

func (s *FileStorage) listRelated(userID string, pick func(*internal.FollowEdge) (string, bool)) []internal.User {
	type related struct {
		user internal.User
		at   time.Time
	}
	var out []related
	for _, e := range s.follows {
		otherID, ok := pick(e)
		if !ok {
			continue
		}
		if u, exists := s.users[otherID]; exists {
			out = append(out, related{user: *u, at: e.CreatedAt})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].at.Equal(out[j].at) {
			return out[i].user.ID < out[j].user.ID
		}
		return out[i].at.Before(out[j].at)
	})
	users := make([]internal.User, len(out))
	for i, r := range out {
		users[i] = r.user
	}
	return users
}

func (s *FileStorage) ListFollowing(ctx context.Context, userID string) ([]internal.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listRelated(userID, func(e *internal.FollowEdge) (string, bool) {
		return e.FollowedUserID, e.FollowerID == userID
	}), nil
}

func (s *FileStorage) ListFollowers(ctx context.Context, userID string) ([]internal.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listRelated(userID, func(e *internal.FollowEdge) (string, bool) {
		return e.FollowerID, e.FollowedUserID == userID
	}), nil
}

func (s *FileStorage) CountFollowing(ctx context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, e := range s.follows {
		if e.FollowerID == userID {
			count++
		}
	}
	return count, nil
}

func (s *FileStorage) CountFollowers(ctx context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, e := range s.follows {
		if e.FollowedUserID == userID {
			count++
		}
	}
	return count, nil
}

// --- SleepRecordRepository ---

func (s *FileStorage) SaveSleepRecord(ctx context.Context, record *internal.SleepRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sleepRecords[record.ID] = record

	// Insert into the user index maintaining descending CreatedAt order
	records := s.userSleepIndex[record.UserID]
	inserted := false
	for i, existing := range records {
		if existing.CreatedAt.Before(record.CreatedAt) {
			records = append(records[:i], append([]*internal.SleepRecord{record}, records[i:]...)...)
			inserted = true
			break
		}
	}
	if !inserted {
		records = append(records, record)
	}
	s.userSleepIndex[record.UserID] = records
	signalSave(s.saveSleepChan)
	return nil
}

func (s *FileStorage) ListSleepRecords(ctx context.Context, userID string) ([]internal.SleepRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ptrs, ok := s.userSleepIndex[userID]
	if !ok {
		return []internal.SleepRecord{}, nil
	}
	records := make([]internal.SleepRecord, len(ptrs))
	for i, r := range ptrs {
		records[i] = *r
	}
	return records, nil
}

func (s *FileStorage) ListSleepRecordsInWindow(ctx context.Context, userIDs []string, from, to time.Time) ([]internal.SleepRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := []internal.SleepRecord{}
	for _, userID := range userIDs {
		for _, r := range s.userSleepIndex[userID] {
			if r.Bedtime.Before(from) || r.Bedtime.After(to) {
				continue
			}
			records = append(records, *r)
		}
	}

	// Longest sleep first; created_at then id keep the order deterministic
	sort.Slice(records, func(i, j int) bool {
		if records[i].DurationMinutes != records[j].DurationMinutes {
			return records[i].DurationMinutes > records[j].DurationMinutes
		}
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.Before(records[j].CreatedAt)
		}
		return records[i].ID < records[j].ID
	})
	return records, nil
}

// --- Compile-time assertions ---
var _ UserRepository = (*FileStorage)(nil)
var _ FollowRepository = (*FileStorage)(nil)
var _ SleepRecordRepository = (*FileStorage)(nil)
