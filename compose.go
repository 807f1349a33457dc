package genblog

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/eringen/genblog/generator"
)

// Defaults stamped on generated posts.
const (
	DefaultAuthor   = "AI Assistant"
	DefaultReadTime = "3 min read"
	DateLayout      = "Jan 2, 2006"
)

// IDSource produces post IDs. IDs must not collide within a store.
type IDSource interface {
	NewID() string
}

// IDFunc adapts a function to IDSource.
type IDFunc func() string

func (f IDFunc) NewID() string { return f() }

// ImageSource produces placeholder image URLs.
type ImageSource interface {
	ImageURL() string
}

// ImageFunc adapts a function to ImageSource.
type ImageFunc func() string

func (f ImageFunc) ImageURL() string { return f() }

// UUIDv7 returns time-ordered IDs. The generator's monotonic counter keeps
// IDs from the same millisecond distinct.
func UUIDv7() IDSource {
	return IDFunc(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})
}

// PicsumImages returns picsum.photos URLs seeded from a random number in
// [0, 1000).
func PicsumImages() ImageSource {
	return ImageFunc(func() string {
		return fmt.Sprintf("https://picsum.photos/800/600?random=%d", rand.IntN(1000))
	})
}

// Composer turns a generated draft into a complete post.
type Composer struct {
	IDs    IDSource
	Images ImageSource
	Now    func() time.Time
}

// NewComposer uses UUIDv7 IDs, picsum images and the wall clock.
func NewComposer() *Composer {
	return &Composer{
		IDs:    UUIDv7(),
		Images: PicsumImages(),
		Now:    time.Now,
	}
}

// Compose attaches id, author, date, read time, image and a zero view
// count to d.
func (c *Composer) Compose(d generator.Draft) *BlogPost {
	return &BlogPost{
		ID:       c.IDs.NewID(),
		Title:    d.Title,
		Excerpt:  d.Excerpt,
		Content:  d.Content,
		Category: d.Category,
		Author:   DefaultAuthor,
		Date:     c.Now().Format(DateLayout),
		ReadTime: DefaultReadTime,
		ImageURL: c.Images.ImageURL(),
		Views:    0,
	}
}
