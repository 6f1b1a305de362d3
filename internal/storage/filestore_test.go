package storage

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_SaveLoadRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	content := []byte("%PDF-1.4 test content")
	fileID, err := store.Save("contract.pdf", strings.NewReader(string(content)))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(fileID, "_contract.pdf"))

	url, err := store.Load(fileID)
	require.NoError(t, err)
	assert.Equal(t, "data:application/pdf;base64,"+base64.StdEncoding.EncodeToString(content), url)

	raw, err := store.Raw(fileID)
	require.NoError(t, err)
	assert.Equal(t, content, raw)
}

func TestFileStore_MissingBlobFallsBackToSample(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	url, err := store.Load("deadbeef_gone.pdf")
	require.NoError(t, err)
	assert.Equal(t, SampleDocumentURL(), url)

	raw, err := store.Raw("")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "%PDF-"))
}

func TestFileStore_Delete(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	fileID, err := store.Save("doc.docx", strings.NewReader("word content"))
	require.NoError(t, err)

	store.Delete(fileID)

	// После удаления отдаётся образец, а не ошибка
	url, err := store.Load(fileID)
	require.NoError(t, err)
	assert.Equal(t, SampleDocumentURL(), url)
}

func TestMimeByName(t *testing.T) {
	assert.Equal(t, "application/pdf", MimeByName("a_file.PDF"))
	assert.Equal(t, "application/msword", MimeByName("x.doc"))
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", MimeByName("x.docx"))
	assert.Equal(t, "application/octet-stream", MimeByName("x.bin"))
}
