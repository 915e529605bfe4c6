package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeName(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{input: "photo.png", expected: "photo.png"},
		{input: "my photo (1).jpg", expected: "my_photo__1_.jpg"},
		{input: "../../etc/passwd", expected: "passwd"},
		{input: `C:\Users\lab\pic.webp`, expected: "pic.webp"},
		{input: "照片.png", expected: "__.png"},
		{input: "", expected: "file"},
		{input: "/", expected: "file"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, SafeName(tc.input))
		})
	}
}

func TestFixMojibake(t *testing.T) {
	// "实验室.png" encoded as UTF-8 then decoded as Latin-1
	garbled := string([]rune{0xe5, 0xae, 0x9e, 0xe9, 0xaa, 0x8c, 0xe5, 0xae, 0xa4}) + ".png"
	assert.Equal(t, "实验室.png", FixMojibake(garbled))

	assert.Equal(t, "plain.png", FixMojibake("plain.png"))
	assert.Equal(t, "café.png", FixMojibake("café.png"), "invalid reinterpretation keeps the name")
	assert.Equal(t, "实验é.png", FixMojibake("实验é.png"))
}

func TestUploadPath(t *testing.T) {
	now := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)

	rel := UploadPath(now, "team photo.png")
	assert.True(t, strings.HasPrefix(rel, "uploads/2024/03/"), rel)
	assert.True(t, strings.HasSuffix(rel, "_team_photo.png"), rel)

	parts := strings.Split(rel, "/")
	require.Len(t, parts, 4)
	assert.Len(t, strings.SplitN(parts[3], "_", 2)[0], 36)

	assert.NotEqual(t, rel, UploadPath(now, "team photo.png"))
}

func TestCleanRelative(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
		err      bool
	}{
		{input: "uploads/2024/03/a.png", expected: "uploads/2024/03/a.png"},
		{input: `uploads\2024\03\a.png`, expected: "uploads/2024/03/a.png"},
		{input: "uploads/../uploads/a.png", expected: "uploads/a.png"},
		{input: "../secret", err: true},
		{input: "uploads/../../secret", err: true},
		{input: "/etc/passwd", err: true},
		{input: "", err: true},
		{input: ".", err: true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := CleanRelative(tc.input)
			if tc.err {
				require.ErrorIs(t, err, ErrUnsafePath)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}
