package port

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/fhuszti/athlete-portfolio-go/internal/model"
)

// MediaLister reads the metadata document for public pages and the admin panel.
type MediaLister interface {
	ListMedias(ctx context.Context, category *model.Category) []model.Media
	GetDocument(ctx context.Context) model.MetadataDocument
}

// MediaUpdater edits the metadata of a media.
type MediaUpdater interface {
	UpdateMedia(ctx context.Context, in UpdateMediaInput) (*model.Media, error)
}
type UpdateMediaInput struct {
	ID    string
	Patch model.MediaPatch
}

// MediaDeleter deletes a media and its file.
type MediaDeleter interface {
	DeleteMedia(ctx context.Context, id string) error
}

// MetadataResetter wipes every metadata object and writes an empty document.
type MetadataResetter interface {
	ResetMetadata(ctx context.Context) (model.MetadataDocument, error)
}

// MediaUploader stores a small file sent through the API and registers it.
type MediaUploader interface {
	UploadMedia(ctx context.Context, in UploadMediaInput) (*model.Media, error)
}
type MediaDetails struct {
	Title       string
	Description string
	Location    string
	Category    model.Category
	Date        string
}
type UploadMediaInput struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
	Details     MediaDetails
	UploadedBy  string
}

// UploadTokenIssuer authorises one direct client-to-store upload.
type UploadTokenIssuer interface {
	IssueUploadToken(ctx context.Context, in IssueUploadTokenInput) (IssueUploadTokenOutput, error)
}
type IssueUploadTokenInput struct {
	Filename    string
	ContentType string
	Size        int64
	Category    model.Category
	IssuedTo    string
}
type IssueUploadTokenOutput struct {
	Token     string       `json:"token"`
	Pathname  string       `json:"pathname"`
	URL       string       `json:"url"`
	Upload    UploadPolicy `json:"upload"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// UploadRegistrar creates the record of an object already placed in the store.
type UploadRegistrar interface {
	RegisterUpload(ctx context.Context, in RegisterUploadInput) (*model.Media, error)
}
type RegisterUploadInput struct {
	Token      string
	Details    MediaDetails
	UploadedBy string
}

// Authenticator checks admin credentials and issues sessions.
type Authenticator interface {
	Login(ctx context.Context, in LoginInput) (LoginOutput, error)
}
type LoginInput struct {
	Email    string
	Password string
	ClientIP string
}
type LoginOutput struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
}

// SessionVerifier validates a session token.
type SessionVerifier interface {
	VerifySession(token string) (Session, error)
}
type Session struct {
	Email     string
	Name      string
	ExpiresAt time.Time
}

// ContactSender forwards a contact form to the site owner.
type ContactSender interface {
	SendContact(ctx context.Context, in ContactInput) error
}
type ContactInput struct {
	Name     string
	Email    string
	Subject  string
	Message  string
	ClientIP string
}

// InstagramFeed returns embed metadata for the configured posts.
type InstagramFeed interface {
	GetEmbeds(ctx context.Context) ([]InstagramEmbed, error)
}
type InstagramEmbed struct {
	URL   string          `json:"url"`
	Embed json.RawMessage `json:"embed,omitempty"`
	Error string          `json:"error,omitempty"`
}
