package app

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// SentinelPassword is stored for accounts created through Google sign-in.
// It is never a valid bcrypt hash, so password login always fails for them.
const SentinelPassword = "0"

// User is a registered account.
type User struct {
	ID primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`

	// Email is unique across users; uniqueness is checked before create.
	Email string `json:"email" bson:"email"`

	// Password holds the bcrypt hash, or SentinelPassword for Google accounts.
	Password string `json:"password" bson:"password"`

	ImgUrl string `json:"imgUrl" bson:"imgUrl"`

	// RefreshTokens is the set of refresh tokens currently accepted for
	// this user. Issuing appends, logout removes, refresh rotates.
	RefreshTokens []string `json:"refreshTokens,omitempty" bson:"refreshTokens"`
}

// HashPassword replaces the plaintext password with its bcrypt hash.
func (u *User) HashPassword() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// CheckPassword compares the stored hash against a plaintext candidate.
func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
}

// HasRefreshToken reports whether token is in the user's stored set.
func (u *User) HasRefreshToken(token string) bool {
	for _, t := range u.RefreshTokens {
		if t == token {
			return true
		}
	}
	return false
}

// RemoveRefreshToken returns the stored set without the given token.
func (u *User) RemoveRefreshToken(token string) []string {
	kept := make([]string, 0, len(u.RefreshTokens))
	for _, t := range u.RefreshTokens {
		if t != token {
			kept = append(kept, t)
		}
	}
	return kept
}

// Comment is a single entry in a post's comment list, in append order.
type Comment struct {
	User    string `json:"user" bson:"user"`
	Comment string `json:"comment" bson:"comment"`
}

// Post is a feed entry owned by a single user.
type Post struct {
	ID primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`

	// User references the owner; UserName keeps the display name derived
	// from the owner's email local part at creation time.
	User     primitive.ObjectID `json:"user" bson:"user"`
	UserName string             `json:"userName" bson:"userName"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`

	Content string `json:"content" bson:"content"`
	ImgUrl  string `json:"imgUrl,omitempty" bson:"imgUrl,omitempty"`

	// Like and Dislike hold user ids and are mutually exclusive per user.
	Like    []string `json:"like" bson:"like"`
	Dislike []string `json:"dislike" bson:"dislike"`

	Comments []Comment `json:"comments" bson:"comments"`
}

// Liked reports whether the user id is in the like set.
func (p *Post) Liked(userID string) bool { return contains(p.Like, userID) }

// Disliked reports whether the user id is in the dislike set.
func (p *Post) Disliked(userID string) bool { return contains(p.Dislike, userID) }

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func remove(set []string, v string) []string {
	kept := make([]string, 0, len(set))
	for _, s := range set {
		if s != v {
			kept = append(kept, s)
		}
	}
	return kept
}

// ToggleLike flips the user's like and clears any dislike when liking.
// It reports whether the post ends up liked by the user.
func (p *Post) ToggleLike(userID string) bool {
	if p.Liked(userID) {
		p.Like = remove(p.Like, userID)
		return false
	}
	p.Like = append(p.Like, userID)
	p.Dislike = remove(p.Dislike, userID)
	return true
}

// ToggleDislike is symmetric to ToggleLike.
func (p *Post) ToggleDislike(userID string) bool {
	if p.Disliked(userID) {
		p.Dislike = remove(p.Dislike, userID)
		return false
	}
	p.Dislike = append(p.Dislike, userID)
	p.Like = remove(p.Like, userID)
	return true
}
