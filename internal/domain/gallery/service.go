package gallery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/milbratheduardo/App-ZSUL-sub000/internal/blob"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/domain/user"
	"github.com/milbratheduardo/App-ZSUL-sub000/internal/utils"
)

type Service struct {
	repo  *Repo
	blobs blob.Store
}

func NewService(repo *Repo, blobs blob.Store) *Service {
	return &Service{repo: repo, blobs: blobs}
}

// Upload converts the photo to WebP, stores it and records the entry. The
// stored file is removed again if the record cannot be written.
func (s *Service) Upload(ctx context.Context, v user.Viewer, title string, r io.Reader) (*View, error) {
	if !v.IsStaff() {
		return nil, fmt.Errorf("%w: only staff can upload to the gallery", ErrUnauthorized)
	}
	if r == nil {
		return nil, fmt.Errorf("%w: image is required", ErrBadRequest)
	}

	fileID, err := blob.UploadImage(ctx, s.blobs, blob.BucketGallery, r, blob.GalleryImage)
	if err != nil {
		if errors.Is(err, blob.ErrInvalidImage) {
			return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	img, err := s.repo.Create(ctx, Image{
		ImageID:   fileID,
		Title:     utils.TrimMax(strings.TrimSpace(title), 120),
		UserID:    v.UserID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		_ = s.blobs.Delete(ctx, blob.BucketGallery, fileID)
		return nil, err
	}
	view := s.view(ctx, *img)
	return &view, nil
}

// List returns the newest images first.
func (s *Service) List(ctx context.Context) ([]View, error) {
	images, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(images, func(i, j int) bool {
		return images[i].CreatedAt.After(images[j].CreatedAt)
	})
	out := make([]View, 0, len(images))
	for _, img := range images {
		out = append(out, s.view(ctx, img))
	}
	return out, nil
}

func (s *Service) Delete(ctx context.Context, v user.Viewer, id string) error {
	img, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !v.IsAdmin() && img.UserID != v.UserID {
		return fmt.Errorf("%w: only the uploader or an admin can delete", ErrUnauthorized)
	}
	if err := s.blobs.Delete(ctx, blob.BucketGallery, img.ImageID); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) view(ctx context.Context, img Image) View {
	url, err := s.blobs.URL(ctx, blob.BucketGallery, img.ImageID)
	if err != nil {
		log.Printf("[gallery] url %s: %v", img.ImageID, err)
	}
	return View{Image: img, URL: url}
}
