package media

import (
	"context"
	"errors"
	"testing"

	"github.com/fhuszti/athlete-portfolio-go/internal/mock"
	"github.com/fhuszti/athlete-portfolio-go/internal/model"
	"github.com/fhuszti/athlete-portfolio-go/internal/port"
)

func strPtr(s string) *string { return &s }

func TestUpdateMedia(t *testing.T) {
	cat := model.CategoryEvents
	badCat := model.Category("misc")
	tests := []struct {
		name      string
		patch     model.MediaPatch
		repo      *mock.MediaRepo
		wantErr   error
		wantValid bool
	}{
		{
			name:  "success",
			patch: model.MediaPatch{Title: strPtr("  Finale  "), Category: &cat},
			repo:  &mock.MediaRepo{Updated: &model.Media{ID: "a", Title: "Finale"}},
		},
		{
			name:    "unknown id",
			patch:   model.MediaPatch{Title: strPtr("x")},
			repo:    &mock.MediaRepo{},
			wantErr: ErrMediaNotFound,
		},
		{
			name:    "repo error",
			patch:   model.MediaPatch{Title: strPtr("x")},
			repo:    &mock.MediaRepo{UpdateErr: errors.New("save fail")},
			wantErr: errors.New("save fail"),
		},
		{name: "empty patch", patch: model.MediaPatch{}, repo: &mock.MediaRepo{}, wantValid: true},
		{name: "blank title", patch: model.MediaPatch{Title: strPtr(" ")}, repo: &mock.MediaRepo{}, wantValid: true},
		{name: "bad category", patch: model.MediaPatch{Category: &badCat}, repo: &mock.MediaRepo{}, wantValid: true},
		{name: "bad date", patch: model.MediaPatch{Date: strPtr("2025-13-40")}, repo: &mock.MediaRepo{}, wantValid: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewMediaUpdater(tc.repo)
			m, err := svc.UpdateMedia(context.Background(), port.UpdateMediaInput{ID: "a", Patch: tc.patch})
			switch {
			case tc.wantValid:
				if !IsValidationError(err) {
					t.Fatalf("expected validation error, got %v", err)
				}
				if tc.repo.UpdateCalled {
					t.Error("repo must not be called on invalid input")
				}
			case tc.wantErr != nil:
				if err == nil || err.Error() != tc.wantErr.Error() {
					t.Fatalf("error = %v; want %v", err, tc.wantErr)
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if m.ID != "a" {
					t.Errorf("media = %+v", m)
				}
				if tc.repo.GotID != "a" || *tc.repo.GotPatch.Title != "Finale" {
					t.Errorf("repo got id=%q title=%q", tc.repo.GotID, *tc.repo.GotPatch.Title)
				}
			}
		})
	}
}

func TestDeleteMedia(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := &mock.MediaRepo{Deleted: true}
		if err := NewMediaDeleter(repo).DeleteMedia(context.Background(), "a"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if repo.GotID != "a" {
			t.Errorf("deleted id = %q", repo.GotID)
		}
	})
	t.Run("not found", func(t *testing.T) {
		err := NewMediaDeleter(&mock.MediaRepo{}).DeleteMedia(context.Background(), "a")
		if !errors.Is(err, ErrMediaNotFound) {
			t.Fatalf("error = %v; want ErrMediaNotFound", err)
		}
	})
	t.Run("repo error", func(t *testing.T) {
		err := NewMediaDeleter(&mock.MediaRepo{DeleteErr: errors.New("boom")}).DeleteMedia(context.Background(), "a")
		if err == nil || err.Error() != "boom" {
			t.Fatalf("error = %v; want boom", err)
		}
	})
}

func TestListMedias(t *testing.T) {
	repo := &mock.MediaRepo{Doc: model.MetadataDocument{Medias: []model.Media{
		{ID: "a", Category: model.CategoryEvents},
		{ID: "b", Category: model.CategoryTraining},
	}}}
	svc := NewMediaLister(repo)

	if got := svc.ListMedias(context.Background(), nil); len(got) != 2 || !repo.ListCalled {
		t.Errorf("all = %+v", got)
	}
	cat := model.CategoryTraining
	if got := svc.ListMedias(context.Background(), &cat); len(got) != 1 || got[0].ID != "b" {
		t.Errorf("training = %+v", got)
	}
	if doc := svc.GetDocument(context.Background()); len(doc.Medias) != 2 || !repo.GetCalled {
		t.Errorf("document = %+v", doc)
	}
}

func TestResetMetadata(t *testing.T) {
	repo := &mock.MediaRepo{Doc: model.MetadataDocument{Medias: []model.Media{{ID: "a"}}}}
	doc, err := NewMetadataResetter(repo).ResetMetadata(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Medias) != 0 || !repo.ResetCalled {
		t.Errorf("doc = %+v", doc)
	}

	_, err = NewMetadataResetter(&mock.MediaRepo{ResetErr: errors.New("list fail")}).ResetMetadata(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
}
