package moderation

import (
	"bufio"
	"bytes"
	"embed"
	"io/fs"
	"strings"

	"market-chat/errors"
)

//go:embed words/*
var wordsFolder embed.FS

// WordList carries the loaded forbidden words plus metadata for logging.
type WordList struct {
	Words     []string
	Languages []string
}

// LoadWords parses the embedded per-language dictionaries (one word per
// line, filename is the language code) into a unique word list.
func LoadWords() (*WordList, error) {
	entries, err := fs.ReadDir(wordsFolder, "words")
	if err != nil {
		return nil, err
	}

	var languages []string
	uniqueWords := make(map[string]struct{})

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		languages = append(languages, strings.TrimSuffix(entry.Name(), ".txt"))

		data, err := wordsFolder.ReadFile("words/" + entry.Name())
		if err != nil {
			return nil, err
		}

		// A scanner handles both \n and \r\n line endings
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line != "" {
				uniqueWords[line] = struct{}{}
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}

	if len(uniqueWords) == 0 {
		return nil, errors.ErrEmptyWords
	}

	words := make([]string, 0, len(uniqueWords))
	for w := range uniqueWords {
		words = append(words, w)
	}
	return &WordList{Words: words, Languages: languages}, nil
}
