// Package wordfreq seeds practice words from the Japanese lists of the
// wordfreq dataset.
package wordfreq

import (
	"archive/zip"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/vmihailenco/msgpack/v5"
)

// PyPIEndpoint is the package metadata URL for the wordfreq distribution.
const PyPIEndpoint = "https://pypi.org/pypi/wordfreq/json"

const (
	minWordRunes = 2
	maxWordRunes = 8
)

// Attribution must accompany words seeded from the dataset.
const Attribution = "Words from the wordfreq dataset (https://github.com/rspeer/wordfreq), " +
	"licensed CC BY-SA 4.0 (https://creativecommons.org/licenses/by-sa/4.0/)."

// dataFiles are the Japanese lists in preference order.
var dataFiles = []string{
	"wordfreq/data/large_ja.msgpack.gz",
	"wordfreq/data/small_ja.msgpack.gz",
}

// Wheel describes a cached wordfreq wheel.
type Wheel struct {
	Version  string
	Path     string
	Filename string
	Cached   bool
}

type pypiURL struct {
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	Packagetype string `json:"packagetype"`
}

type pypiResponse struct {
	Info struct {
		Version string `json:"version"`
	} `json:"info"`
	URLs []pypiURL `json:"urls"`
}

// DownloadLatestWheel fetches the newest wheel listed at endpoint into
// cacheDir, reusing a cached copy of the same file.
func DownloadLatestWheel(ctx context.Context, endpoint, cacheDir string) (Wheel, error) {
	if cacheDir == "" {
		return Wheel{}, fmt.Errorf("cache directory is required")
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return Wheel{}, fmt.Errorf("failed to create cache dir: %w", err)
	}

	var payload pypiResponse
	if err := fetch(ctx, endpoint, func(body io.Reader) error {
		return json.NewDecoder(body).Decode(&payload)
	}); err != nil {
		return Wheel{}, fmt.Errorf("failed to fetch wordfreq metadata: %w", err)
	}
	if payload.Info.Version == "" {
		return Wheel{}, fmt.Errorf("missing version in pypi response")
	}
	url, filename := pickWheelURL(payload.URLs)
	if url == "" {
		return Wheel{}, fmt.Errorf("no suitable wordfreq wheel found")
	}

	wheel := Wheel{Version: payload.Info.Version, Path: filepath.Join(cacheDir, filename), Filename: filename}
	if _, err := os.Stat(wheel.Path); err == nil {
		wheel.Cached = true
		return wheel, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return Wheel{}, fmt.Errorf("failed to stat cached wheel: %w", err)
	}

	tmpFile, err := os.CreateTemp(cacheDir, "wordfreq-*.whl")
	if err != nil {
		return Wheel{}, fmt.Errorf("failed to create temp wheel: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()
	if err := fetch(ctx, url, func(body io.Reader) error {
		_, err := io.Copy(tmpFile, body)
		return err
	}); err != nil {
		return Wheel{}, fmt.Errorf("failed to download wheel: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return Wheel{}, fmt.Errorf("failed to close temp wheel: %w", err)
	}
	if err := os.Rename(tmpPath, wheel.Path); err != nil {
		return Wheel{}, fmt.Errorf("failed to move wheel into cache: %w", err)
	}
	return wheel, nil
}

func fetch(ctx context.Context, url string, read func(io.Reader) error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}
	return read(resp.Body)
}

func pickWheelURL(urls []pypiURL) (string, string) {
	for _, u := range urls {
		if u.Packagetype == "bdist_wheel" && strings.HasSuffix(u.Filename, "py3-none-any.whl") {
			return u.URL, u.Filename
		}
	}
	for _, u := range urls {
		if u.Packagetype == "bdist_wheel" {
			return u.URL, u.Filename
		}
	}
	return "", ""
}

// ExtractJapanese returns up to limit Japanese words from the wheel, most
// frequent first. Words outside 2 to 8 characters and words with
// characters other than kana or kanji are skipped.
func ExtractJapanese(wheelPath string, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than 0")
	}
	bins, err := readBins(wheelPath)
	if err != nil {
		return nil, err
	}
	words := make([]string, 0, limit)
	seen := make(map[string]struct{})
	for _, bin := range bins {
		for _, word := range bin {
			if _, ok := seen[word]; ok || !isJapaneseWord(word) {
				continue
			}
			seen[word] = struct{}{}
			words = append(words, word)
			if len(words) >= limit {
				return words, nil
			}
		}
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("no Japanese words found in wheel")
	}
	return words, nil
}

// readBins decodes a list in the dataset's cB format: a header map followed
// by one array of words per frequency bin, most frequent first.
func readBins(wheelPath string) ([][]string, error) {
	reader, err := zip.OpenReader(wheelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open wheel: %w", err)
	}
	defer func() {
		_ = reader.Close()
	}()

	file := findDataFile(reader.File)
	if file == nil {
		return nil, fmt.Errorf("no Japanese word list in wheel")
	}
	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer func() {
		_ = rc.Close()
	}()
	gz, err := gzip.NewReader(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer func() {
		_ = gz.Close()
	}()

	var raw []msgpack.RawMessage
	if err := msgpack.NewDecoder(gz).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", file.Name, err)
	}
	bins := make([][]string, 0, len(raw))
	for i, item := range raw {
		var words []string
		if err := msgpack.Unmarshal(item, &words); err != nil {
			if i == 0 {
				// header
				continue
			}
			return nil, fmt.Errorf("failed to decode bin %d: %w", i, err)
		}
		bins = append(bins, words)
	}
	return bins, nil
}

func findDataFile(files []*zip.File) *zip.File {
	byName := make(map[string]*zip.File, len(files))
	for _, f := range files {
		byName[f.Name] = f
	}
	for _, name := range dataFiles {
		if f, ok := byName[name]; ok {
			return f
		}
	}
	return nil
}

func isJapaneseWord(word string) bool {
	n := utf8.RuneCountInString(word)
	if n < minWordRunes || n > maxWordRunes {
		return false
	}
	hasKanaOrHan := false
	for _, r := range word {
		switch {
		case r == 'ー':
		case unicode.In(r, unicode.Hiragana, unicode.Katakana, unicode.Han):
			hasKanaOrHan = true
		default:
			return false
		}
	}
	return hasKanaOrHan
}
