package tags

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestIsMusicFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/a/song.mp3", true},
		{"/a/SONG.FLAC", true},
		{"/a/song.ogg", true},
		{"/a/song.wav", true},
		{"/a/song.m4a", false},
		{"/a/cover.jpg", false},
		{"/a/noext", false},
	}
	for _, tt := range tests {
		if got := IsMusicFile(tt.path); got != tt.want {
			t.Errorf("IsMusicFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestNewInfo_FallsBackToFileName(t *testing.T) {
	info := newInfo("/music/01 Intro.mp3", "  \x00", " Artist ", "Album\x00")

	if info.Title != "01 Intro" {
		t.Errorf("Title = %q, want %q", info.Title, "01 Intro")
	}
	if info.Artist != "Artist" {
		t.Errorf("Artist = %q, want %q", info.Artist, "Artist")
	}
	if info.Album != "Album" {
		t.Errorf("Album = %q, want %q", info.Album, "Album")
	}
	if info.DisplayName() != "01 Intro.mp3" {
		t.Errorf("DisplayName() = %q", info.DisplayName())
	}
}

func TestReadTags_UntaggedWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "take.wav")
	if err := os.WriteFile(path, []byte("not really audio"), 0o600); err != nil {
		t.Fatal(err)
	}

	info, err := ReadTags(path)
	if err != nil {
		t.Fatalf("ReadTags() error = %v", err)
	}
	if info.Title != "take" {
		t.Errorf("Title = %q, want %q", info.Title, "take")
	}
}

func TestRead_Unsupported(t *testing.T) {
	if _, err := Read("/music/song.m4a"); err == nil {
		t.Error("Read() should reject unsupported extensions")
	}
}

func TestStreamInfoDuration(t *testing.T) {
	// 44100 Hz, 441000 samples = 10s
	data := make([]byte, 18)
	rate := 44100
	data[10] = byte(rate >> 12)
	data[11] = byte(rate >> 4)
	data[12] = byte(rate<<4) & 0xF0
	total := 441000
	data[14] = byte(total >> 24)
	data[15] = byte(total >> 16)
	data[16] = byte(total >> 8)
	data[17] = byte(total)

	d, ok := streamInfoDuration(data)
	if !ok {
		t.Fatal("streamInfoDuration() ok = false")
	}
	if d != 10*time.Second {
		t.Errorf("duration = %v, want 10s", d)
	}
}

func TestSkipID3v2(t *testing.T) {
	// header declares a 5 byte tag body
	tagged := append([]byte("ID3\x04\x00\x00\x00\x00\x00\x05"), []byte("xxxxxfLaC")...)
	r := bytes.NewReader(tagged)
	if err := skipID3v2(r); err != nil {
		t.Fatalf("skipID3v2() error = %v", err)
	}
	rest, _ := io.ReadAll(r)
	if string(rest) != "fLaC" {
		t.Errorf("remaining = %q, want fLaC", rest)
	}

	plain := bytes.NewReader([]byte("fLaC0000000000"))
	if err := skipID3v2(plain); err != nil {
		t.Fatalf("skipID3v2() error = %v", err)
	}
	if pos, _ := plain.Seek(0, io.SeekCurrent); pos != 0 {
		t.Errorf("position = %d, want 0 for untagged stream", pos)
	}
}
