package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/sheepbooru/catalog/internal/apperror"
	"github.com/sheepbooru/catalog/internal/model"
	"github.com/sheepbooru/catalog/internal/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	users  []*model.User
	nextID int
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func (f *fakeUserRepo) CreateUser(_ context.Context, user *model.User) error {
	for _, u := range f.users {
		if u.Username == user.Username {
			return apperror.Conflict("user", user.Username)
		}
	}
	f.nextID++
	user.ID = "user-" + strconv.Itoa(f.nextID)
	f.users = append(f.users, user)
	return nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperror.NotFound("user", id)
}

func (f *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, apperror.NotFound("user", username)
}

func (f *fakeUserRepo) ListUsers(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserRepo) DeleteUser(_ context.Context, id string) error {
	for i, u := range f.users {
		if u.ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return apperror.NotFound("user", id)
}

// fakePostRepo records calls and serves canned posts.
type fakePostRepo struct {
	details   map[string]*model.PostDetail
	createErr error
	deleted   []string
}

var _ repository.PostRepository = (*fakePostRepo)(nil)

func (f *fakePostRepo) CreatePost(_ context.Context, post *model.Post, tagNames []string) error {
	if f.createErr != nil {
		return f.createErr
	}
	post.ID = "post-1"
	post.Tags = tagNames
	return nil
}

func (f *fakePostRepo) GetPost(_ context.Context, id, _ string) (*model.PostDetail, error) {
	detail, ok := f.details[id]
	if !ok {
		return nil, apperror.NotFound("post", id)
	}
	return detail, nil
}

func (f *fakePostRepo) ListPosts(_ context.Context, _ repository.PostFilter) ([]model.Post, error) {
	out := make([]model.Post, 0, len(f.details))
	for _, d := range f.details {
		out = append(out, d.Post)
	}
	return out, nil
}

func (f *fakePostRepo) DeletePost(_ context.Context, id string) error {
	if _, ok := f.details[id]; !ok {
		return apperror.NotFound("post", id)
	}
	delete(f.details, id)
	f.deleted = append(f.deleted, id)
	return nil
}

// fakePoolRepo serves one pool with a fixed creator.
type fakePoolRepo struct {
	poolID    string
	creatorID string
	nextIndex int64
	added     []string
	removed   []string
	deleted   []string
}

var _ repository.PoolRepository = (*fakePoolRepo)(nil)

func (f *fakePoolRepo) CreatePool(_ context.Context, pool *model.Pool) error {
	pool.ID = "pool-1"
	return nil
}

func (f *fakePoolRepo) GetPool(_ context.Context, id string) (*model.PoolDetail, error) {
	if id != f.poolID {
		return nil, apperror.NotFound("pool", id)
	}
	return &model.PoolDetail{Pool: model.Pool{ID: id, CreatorID: f.creatorID}}, nil
}

func (f *fakePoolRepo) GetPoolCreator(_ context.Context, id string) (string, error) {
	if id != f.poolID {
		return "", apperror.NotFound("pool", id)
	}
	return f.creatorID, nil
}

func (f *fakePoolRepo) ListPools(_ context.Context) ([]model.Pool, error) {
	return []model.Pool{{ID: f.poolID, CreatorID: f.creatorID}}, nil
}

func (f *fakePoolRepo) AddPoolPost(_ context.Context, poolID, postID string) (int64, error) {
	if poolID != f.poolID {
		return 0, apperror.NotFound("pool", poolID)
	}
	f.added = append(f.added, postID)
	index := f.nextIndex
	f.nextIndex++
	return index, nil
}

func (f *fakePoolRepo) RemovePoolPost(_ context.Context, poolID, postID string) error {
	if poolID != f.poolID {
		return apperror.NotFound("pool", poolID)
	}
	f.removed = append(f.removed, postID)
	return nil
}

func (f *fakePoolRepo) DeletePool(_ context.Context, id string) error {
	if id != f.poolID {
		return apperror.NotFound("pool", id)
	}
	f.deleted = append(f.deleted, id)
	return nil
}

// fakeBlobStore records stored and released keys.
type fakeBlobStore struct {
	stored     []string
	released   []string
	storeErr   error
	releaseErr error
}

func (f *fakeBlobStore) Store(filename string, _ io.Reader) (string, error) {
	if f.storeErr != nil {
		return "", f.storeErr
	}
	key := fmt.Sprintf("key-%d-%s", len(f.stored), filename)
	f.stored = append(f.stored, key)
	return key, nil
}

func (f *fakeBlobStore) Release(key string) error {
	f.released = append(f.released, key)
	return f.releaseErr
}
