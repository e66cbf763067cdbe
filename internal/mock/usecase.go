package mock

import (
	"context"
	"io"

	"github.com/fhuszti/athlete-portfolio-go/internal/model"
	"github.com/fhuszti/athlete-portfolio-go/internal/port"
)

// MediaLister implements port.MediaLister for tests.
type MediaLister struct {
	Medias []model.Media
	Doc    model.MetadataDocument

	GotCategory *model.Category
	Called      bool
}

func (m *MediaLister) ListMedias(ctx context.Context, category *model.Category) []model.Media {
	m.Called = true
	m.GotCategory = category
	return m.Medias
}

func (m *MediaLister) GetDocument(ctx context.Context) model.MetadataDocument {
	m.Called = true
	return m.Doc
}

// MediaUpdater implements port.MediaUpdater for tests.
type MediaUpdater struct {
	Out    *model.Media
	Err    error
	In     port.UpdateMediaInput
	Called bool
}

func (m *MediaUpdater) UpdateMedia(ctx context.Context, in port.UpdateMediaInput) (*model.Media, error) {
	m.Called = true
	m.In = in
	return m.Out, m.Err
}

// MediaDeleter implements port.MediaDeleter for tests.
type MediaDeleter struct {
	Err    error
	ID     string
	Called bool
}

func (m *MediaDeleter) DeleteMedia(ctx context.Context, id string) error {
	m.Called = true
	m.ID = id
	return m.Err
}

// MetadataResetter implements port.MetadataResetter for tests.
type MetadataResetter struct {
	Out    model.MetadataDocument
	Err    error
	Called bool
}

func (m *MetadataResetter) ResetMetadata(ctx context.Context) (model.MetadataDocument, error) {
	m.Called = true
	return m.Out, m.Err
}

// MediaUploader implements port.MediaUploader for tests. It drains the body.
type MediaUploader struct {
	Out      *model.Media
	Err      error
	In       port.UploadMediaInput
	BodyRead []byte
	Called   bool
}

func (m *MediaUploader) UploadMedia(ctx context.Context, in port.UploadMediaInput) (*model.Media, error) {
	m.Called = true
	m.In = in
	if in.Body != nil {
		m.BodyRead, _ = io.ReadAll(in.Body)
	}
	return m.Out, m.Err
}

// UploadTokenIssuer implements port.UploadTokenIssuer for tests.
type UploadTokenIssuer struct {
	Out    port.IssueUploadTokenOutput
	Err    error
	In     port.IssueUploadTokenInput
	Called bool
}

func (m *UploadTokenIssuer) IssueUploadToken(ctx context.Context, in port.IssueUploadTokenInput) (port.IssueUploadTokenOutput, error) {
	m.Called = true
	m.In = in
	return m.Out, m.Err
}

// UploadRegistrar implements port.UploadRegistrar for tests.
type UploadRegistrar struct {
	Out    *model.Media
	Err    error
	In     port.RegisterUploadInput
	Called bool
}

func (m *UploadRegistrar) RegisterUpload(ctx context.Context, in port.RegisterUploadInput) (*model.Media, error) {
	m.Called = true
	m.In = in
	return m.Out, m.Err
}

// Authenticator implements port.Authenticator for tests.
type Authenticator struct {
	Out    port.LoginOutput
	Err    error
	In     port.LoginInput
	Called bool
}

func (m *Authenticator) Login(ctx context.Context, in port.LoginInput) (port.LoginOutput, error) {
	m.Called = true
	m.In = in
	return m.Out, m.Err
}

// SessionVerifier implements port.SessionVerifier for tests.
// Tokens maps a raw token to its session; unknown tokens fail with Err.
type SessionVerifier struct {
	Tokens map[string]port.Session
	Err    error
}

func (m *SessionVerifier) VerifySession(token string) (port.Session, error) {
	if s, ok := m.Tokens[token]; ok {
		return s, nil
	}
	return port.Session{}, m.Err
}

// ContactSender implements port.ContactSender for tests.
type ContactSender struct {
	Err    error
	In     port.ContactInput
	Called bool
}

func (m *ContactSender) SendContact(ctx context.Context, in port.ContactInput) error {
	m.Called = true
	m.In = in
	return m.Err
}

// InstagramFeed implements port.InstagramFeed for tests.
type InstagramFeed struct {
	Out    []port.InstagramEmbed
	Err    error
	Called bool
}

func (m *InstagramFeed) GetEmbeds(ctx context.Context) ([]port.InstagramEmbed, error) {
	m.Called = true
	return m.Out, m.Err
}
