package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/recipebox/internal/recipebox/domain"
)

// Stored records. Field names follow the JSON the site has always written so
// existing browser data stays readable.

type accountRecord struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
	Name     string `json:"name"`
	Picture  string `json:"picture"`
}

type identityRecord struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Picture  string `json:"picture"`
	Username string `json:"username,omitempty"`
}

type commentRecord struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	UserName    string          `json:"userName"`
	UserPicture string          `json:"userPicture"`
	Text        string          `json:"text"`
	ParentID    *string         `json:"parentId"`
	Timestamp   time.Time       `json:"timestamp"`
	Replies     []commentRecord `json:"replies"`
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}

// encodable rejects strings json.Marshal would rewrite to U+FFFD.
func encodable(what string, fields ...string) error {
	for _, f := range fields {
		if !utf8.ValidString(f) {
			return malformed("%s: invalid UTF-8", what)
		}
	}
	return nil
}

// decodeStrict unmarshals data into v, rejecting unknown fields and trailing
// content.
func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return malformed("%v", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return malformed("trailing data")
	}
	return nil
}

// EncodeRegistry serializes the account registry.
func EncodeRegistry(accounts []domain.UserAccount) ([]byte, error) {
	recs := make([]accountRecord, 0, len(accounts))
	for i, a := range accounts {
		if err := encodable(fmt.Sprintf("account %d", i), a.ID, a.Username, a.Password, a.Email, a.Name, a.PictureURL); err != nil {
			return nil, err
		}
		recs = append(recs, accountRecord{
			ID:       a.ID,
			Username: a.Username,
			Password: a.Password,
			Email:    a.Email,
			Name:     a.Name,
			Picture:  a.PictureURL,
		})
	}
	return json.Marshal(recs)
}

// DecodeRegistry parses and validates an account registry.
func DecodeRegistry(data []byte) ([]domain.UserAccount, error) {
	var recs []accountRecord
	if err := decodeStrict(data, &recs); err != nil {
		return nil, err
	}
	if recs == nil {
		return nil, malformed("registry is not a list")
	}

	seen := make(map[string]struct{}, len(recs))
	out := make([]domain.UserAccount, 0, len(recs))
	for i, r := range recs {
		if r.ID == "" || r.Username == "" {
			return nil, malformed("account %d: missing id or username", i)
		}
		if _, dup := seen[r.Username]; dup {
			return nil, malformed("account %d: duplicate username %q", i, r.Username)
		}
		seen[r.Username] = struct{}{}

		out = append(out, domain.UserAccount{
			ID:         r.ID,
			Username:   r.Username,
			Password:   r.Password,
			Email:      r.Email,
			Name:       r.Name,
			PictureURL: r.Picture,
		})
	}
	return out, nil
}

// EncodeIdentity serializes the signed-in identity.
func EncodeIdentity(id domain.SessionIdentity) ([]byte, error) {
	if err := encodable("identity", id.ID, id.Name, id.Email, id.PictureURL, id.Username); err != nil {
		return nil, err
	}
	return json.Marshal(identityRecord{
		ID:       id.ID,
		Name:     id.Name,
		Email:    id.Email,
		Picture:  id.PictureURL,
		Username: id.Username,
	})
}

// DecodeIdentity parses and validates a persisted identity.
func DecodeIdentity(data []byte) (domain.SessionIdentity, error) {
	var r *identityRecord
	if err := decodeStrict(data, &r); err != nil {
		return domain.SessionIdentity{}, err
	}
	if r == nil || r.ID == "" {
		return domain.SessionIdentity{}, malformed("identity without id")
	}
	return domain.SessionIdentity{
		ID:         r.ID,
		Name:       r.Name,
		Email:      r.Email,
		PictureURL: r.Picture,
		Username:   r.Username,
	}, nil
}

// EncodeForest serializes a comment forest.
func EncodeForest(forest []domain.Comment) ([]byte, error) {
	recs := make([]commentRecord, 0, len(forest))
	for _, c := range forest {
		rec, err := toCommentRecord(c)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return json.Marshal(recs)
}

func toCommentRecord(c domain.Comment) (commentRecord, error) {
	err := encodable("comment "+c.ID, c.ID, c.AuthorID, c.AuthorName, c.AuthorPictureURL, c.Text, c.ParentID)
	if err != nil {
		return commentRecord{}, err
	}

	rec := commentRecord{
		ID:          c.ID,
		UserID:      c.AuthorID,
		UserName:    c.AuthorName,
		UserPicture: c.AuthorPictureURL,
		Text:        c.Text,
		Timestamp:   c.CreatedAt,
		Replies:     make([]commentRecord, 0, len(c.Replies)),
	}
	if c.ParentID != "" {
		parent := c.ParentID
		rec.ParentID = &parent
	}
	for _, r := range c.Replies {
		reply, err := toCommentRecord(r)
		if err != nil {
			return commentRecord{}, err
		}
		rec.Replies = append(rec.Replies, reply)
	}
	return rec, nil
}

// DecodeForest parses a comment forest and checks its shape: top-level
// comments have no parent, replies point at their thread and have no
// replies of their own.
func DecodeForest(data []byte) ([]domain.Comment, error) {
	var recs []commentRecord
	if err := decodeStrict(data, &recs); err != nil {
		return nil, err
	}
	if recs == nil {
		return nil, malformed("forest is not a list")
	}

	out := make([]domain.Comment, 0, len(recs))
	for i, r := range recs {
		if r.ParentID != nil {
			return nil, malformed("comment %d: top-level comment has a parent", i)
		}
		top, err := fromCommentRecord(r)
		if err != nil {
			return nil, err
		}

		for j, rr := range r.Replies {
			if rr.ParentID == nil || *rr.ParentID != r.ID {
				return nil, malformed("comment %d reply %d: parent does not match thread", i, j)
			}
			if len(rr.Replies) > 0 {
				return nil, malformed("comment %d reply %d: nested deeper than one level", i, j)
			}
			reply, err := fromCommentRecord(rr)
			if err != nil {
				return nil, err
			}
			top.Replies = append(top.Replies, reply)
		}
		out = append(out, top)
	}
	return out, nil
}

func fromCommentRecord(r commentRecord) (domain.Comment, error) {
	if r.ID == "" || r.UserID == "" {
		return domain.Comment{}, malformed("comment without id or author")
	}
	if strings.TrimSpace(r.Text) == "" {
		return domain.Comment{}, malformed("comment %s: empty text", r.ID)
	}
	if r.Timestamp.IsZero() {
		return domain.Comment{}, malformed("comment %s: missing timestamp", r.ID)
	}

	c := domain.Comment{
		ID:               r.ID,
		AuthorID:         r.UserID,
		AuthorName:       r.UserName,
		AuthorPictureURL: r.UserPicture,
		Text:             r.Text,
		CreatedAt:        r.Timestamp,
	}
	if r.ParentID != nil {
		c.ParentID = *r.ParentID
	}
	return c, nil
}
