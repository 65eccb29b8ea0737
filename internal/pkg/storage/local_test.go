package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_Upload(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir(), "http://files.test/files/")
	require.NoError(t, err)
	defer s.Close()

	stored, err := s.Upload(ctx, strings.NewReader("sheet"), "payroll/2023-08/sheet.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "payroll/2023-08/sheet.xlsx", stored)
	assert.Equal(t, "http://files.test/files/payroll/2023-08/sheet.xlsx", s.URL(stored))

	body, err := os.ReadFile(filepath.Join(s.Dir(), "payroll", "2023-08", "sheet.xlsx"))
	require.NoError(t, err)
	assert.Equal(t, "sheet", string(body))

	// A second upload to the same path replaces the file.
	_, err = s.Upload(ctx, strings.NewReader("sheet v2"), stored)
	require.NoError(t, err)
	body, err = os.ReadFile(filepath.Join(s.Dir(), "payroll", "2023-08", "sheet.xlsx"))
	require.NoError(t, err)
	assert.Equal(t, "sheet v2", string(body))
}

func TestLocalStorage_RejectsEscapes(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir(), "http://files.test")
	require.NoError(t, err)
	defer s.Close()

	for _, name := range []string{"../outside.txt", "/etc/passwd", ""} {
		_, err := s.Upload(ctx, strings.NewReader("x"), name)
		assert.Error(t, err, name)
	}
}
