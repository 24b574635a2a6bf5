package repository

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	app "socialserv/src/app"
)

// InMemoryUserDB is a map-backed UserDB used by tests and local runs
// without a database.
type InMemoryUserDB struct {
	mu    sync.RWMutex
	users map[string]*app.User
}

func NewInMemoryUserDB() *InMemoryUserDB {
	return &InMemoryUserDB{users: make(map[string]*app.User)}
}

func copyUser(u *app.User) *app.User {
	cp := *u
	cp.RefreshTokens = append([]string{}, u.RefreshTokens...)
	return &cp
}

func (i *InMemoryUserDB) Create(_ context.Context, user *app.User) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	i.users[user.ID.Hex()] = copyUser(user)
	return nil
}

func (i *InMemoryUserDB) FindByEmail(_ context.Context, email string) (*app.User, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	for _, u := range i.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (i *InMemoryUserDB) FindByID(_ context.Context, id string) (*app.User, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	u, ok := i.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(u), nil
}

func (i *InMemoryUserDB) UpdateByID(_ context.Context, id string, fields map[string]any) (*app.User, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	u, ok := i.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	for k, v := range fields {
		s, _ := v.(string)
		switch k {
		case "email":
			u.Email = s
		case "password":
			u.Password = s
		case "imgUrl":
			u.ImgUrl = s
		}
	}
	return copyUser(u), nil
}

func (i *InMemoryUserDB) Delete(_ context.Context, id string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.users, id)
	return nil
}

func (i *InMemoryUserDB) PushRefreshToken(_ context.Context, id, token string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	u, ok := i.users[id]
	if !ok {
		return ErrNotFound
	}
	u.RefreshTokens = append(u.RefreshTokens, token)
	return nil
}

func (i *InMemoryUserDB) SetRefreshTokens(_ context.Context, id string, tokens []string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	u, ok := i.users[id]
	if !ok {
		return ErrNotFound
	}
	u.RefreshTokens = append([]string{}, tokens...)
	return nil
}

// InMemoryPostDB is the PostDB counterpart of InMemoryUserDB.
type InMemoryPostDB struct {
	mu    sync.RWMutex
	posts map[string]*app.Post
	order []string
}

func NewInMemoryPostDB() *InMemoryPostDB {
	return &InMemoryPostDB{posts: make(map[string]*app.Post)}
}

func copyPost(p *app.Post) *app.Post {
	cp := *p
	cp.Like = append([]string{}, p.Like...)
	cp.Dislike = append([]string{}, p.Dislike...)
	cp.Comments = append([]app.Comment{}, p.Comments...)
	return &cp
}

func (i *InMemoryPostDB) Create(_ context.Context, post *app.Post) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	if post.Like == nil {
		post.Like = []string{}
	}
	if post.Dislike == nil {
		post.Dislike = []string{}
	}
	if post.Comments == nil {
		post.Comments = []app.Comment{}
	}
	id := post.ID.Hex()
	if _, ok := i.posts[id]; !ok {
		i.order = append(i.order, id)
	}
	i.posts[id] = copyPost(post)
	return nil
}

func (i *InMemoryPostDB) FindByID(_ context.Context, id string) (*app.Post, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	p, ok := i.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyPost(p), nil
}

func (i *InMemoryPostDB) FindByUser(_ context.Context, userID string) ([]app.Post, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	posts := []app.Post{}
	for _, id := range i.order {
		if p, ok := i.posts[id]; ok && p.User.Hex() == userID {
			posts = append(posts, *copyPost(p))
		}
	}
	return posts, nil
}

func (i *InMemoryPostDB) FindAll(_ context.Context) ([]app.Post, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	posts := []app.Post{}
	for _, id := range i.order {
		if p, ok := i.posts[id]; ok {
			posts = append(posts, *copyPost(p))
		}
	}
	return posts, nil
}

func (i *InMemoryPostDB) Update(_ context.Context, id, content, imgUrl string) (*app.Post, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	p, ok := i.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.Content = content
	p.ImgUrl = imgUrl
	return copyPost(p), nil
}

func (i *InMemoryPostDB) Delete(_ context.Context, id string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if _, ok := i.posts[id]; !ok {
		return ErrNotFound
	}
	delete(i.posts, id)
	for n, v := range i.order {
		if v == id {
			i.order = append(i.order[:n], i.order[n+1:]...)
			break
		}
	}
	return nil
}

func (i *InMemoryPostDB) SetReactions(_ context.Context, id string, like, dislike []string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	p, ok := i.posts[id]
	if !ok {
		return ErrNotFound
	}
	p.Like = append([]string{}, like...)
	p.Dislike = append([]string{}, dislike...)
	return nil
}

func (i *InMemoryPostDB) AddComment(_ context.Context, id string, comment app.Comment) (*app.Post, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	p, ok := i.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.Comments = append(p.Comments, comment)
	return copyPost(p), nil
}
