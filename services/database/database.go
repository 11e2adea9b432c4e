// Package database persists submitted comments in a single bbolt file.
package database

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"sort"
	"strings"
	"time"

	"go.curlew.org/curlew/core"
	bolt "go.etcd.io/bbolt"
)

var commentsBucket = []byte("comments")

// ErrDuplicateComment is returned when the same author already submitted the
// exact same content for a post.
var ErrDuplicateComment = errors.New("duplicate comment")

type Database struct {
	db *bolt.DB
}

func NewDatabase(path string) (*Database, error) {
	db, err := bolt.Open(path, 0666, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	return &Database{db: db}, nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

// AddComment stores the comment, assigning it a sequential ID. Duplicate
// submissions are rejected.
func (d *Database) AddComment(ctx context.Context, comment *core.StoredComment) error {
	return d.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(commentsBucket)
		if err != nil {
			return err
		}

		duplicate := false
		_ = b.ForEach(func(_, v []byte) error {
			var existing core.StoredComment
			if err := decode(v, &existing); err != nil {
				return err
			}

			if existing.PostID == comment.PostID &&
				strings.EqualFold(existing.Author, comment.Author) &&
				existing.Content == comment.Content {
				duplicate = true
			}
			return nil
		})
		if duplicate {
			return ErrDuplicateComment
		}

		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		comment.ID = int(seq)

		var buf bytes.Buffer
		err = gob.NewEncoder(&buf).Encode(comment)
		if err != nil {
			return err
		}

		return b.Put(itob(seq), buf.Bytes())
	})
}

// ApprovedComments returns the approved comments of a post, oldest first.
func (d *Database) ApprovedComments(ctx context.Context, postID int) ([]core.StoredComment, error) {
	var comments []core.StoredComment

	err := d.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(commentsBucket)
		if b == nil {
			return nil
		}

		return b.ForEach(func(_, v []byte) error {
			var c core.StoredComment
			if err := decode(v, &c); err != nil {
				return err
			}

			if c.PostID == postID && c.Approved {
				comments = append(comments, c)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].Date.Before(comments[j].Date)
	})

	return comments, nil
}

// CountApproved returns the number of approved comments of a post.
func (d *Database) CountApproved(ctx context.Context, postID int) (int, error) {
	comments, err := d.ApprovedComments(ctx, postID)
	if err != nil {
		return 0, err
	}
	return len(comments), nil
}

// HasApprovedAuthor reports whether a commenter with this email was approved
// before. Those commenters skip the moderation queue.
func (d *Database) HasApprovedAuthor(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, nil
	}

	found := false
	err := d.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(commentsBucket)
		if b == nil {
			return nil
		}

		return b.ForEach(func(_, v []byte) error {
			var c core.StoredComment
			if err := decode(v, &c); err != nil {
				return err
			}

			if c.Approved && strings.EqualFold(c.Email, email) {
				found = true
			}
			return nil
		})
	})

	return found, err
}

func decode(v []byte, c *core.StoredComment) error {
	return gob.NewDecoder(bytes.NewReader(v)).Decode(c)
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
