// Package upload сохраняет загруженные изображения товаров на локальный диск
// и возвращает пути, по которым их отдаёт статический обработчик /uploads.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrUnsupportedType возвращается для файлов с расширением не из списка изображений.
var ErrUnsupportedType = errors.New("unsupported image type")

var allowedExt = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
	".gif":  {},
}

// Storage хранилище изображений в каталоге dir.
type Storage struct {
	dir       string
	urlPrefix string
}

// New создаёт каталог при необходимости и возвращает хранилище.
func New(dir string) (*Storage, error) {
	const op = "upload.New"
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Storage{dir: dir, urlPrefix: "/uploads"}, nil
}

// SaveImages сохраняет файлы и возвращает их публичные пути.
// При ошибке уже записанные файлы удаляются.
func (s *Storage) SaveImages(files []*multipart.FileHeader) ([]string, error) {
	const op = "upload.SaveImages"
	paths := make([]string, 0, len(files))
	written := make([]string, 0, len(files))
	for _, fh := range files {
		name, err := s.save(fh)
		if err != nil {
			for _, w := range written {
				_ = os.Remove(w)
			}
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		written = append(written, filepath.Join(s.dir, name))
		paths = append(paths, path.Join(s.urlPrefix, name))
	}
	return paths, nil
}

// RemoveImages удаляет файлы по публичным путям, которые вернул SaveImages.
// Уже отсутствующие файлы не считаются ошибкой.
func (s *Storage) RemoveImages(paths []string) error {
	const op = "upload.RemoveImages"
	var errs []error
	for _, p := range paths {
		name := path.Base(p)
		if path.Join(s.urlPrefix, name) != p {
			errs = append(errs, fmt.Errorf("path %q is outside %s", p, s.urlPrefix))
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) save(fh *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if _, ok := allowedExt[ext]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, fh.Filename)
	}
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := uuid.NewString() + ext
	dst, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	if _, err = io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(dst.Name())
		return "", err
	}
	if err = dst.Close(); err != nil {
		_ = os.Remove(dst.Name())
		return "", err
	}
	return name, nil
}

// Dir возвращает каталог хранилища.
func (s *Storage) Dir() string {
	return s.dir
}
