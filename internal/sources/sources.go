package sources

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Adda-Baaj/podcast-harvester/internal/domain"
)

// LoadFile reads a line-delimited feed list. Blank lines and lines starting
// with '#' are skipped; everything else is passed through as-is. Any I/O
// failure is a KindSourceIO FeedError.
func LoadFile(path string) ([]string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, domain.NewFeedError(domain.KindSourceIO, path, fmt.Errorf("feed list path is empty"))
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, domain.NewFeedError(domain.KindSourceIO, path, err)
	}
	defer file.Close()

	urls, err := Read(file)
	if err != nil {
		return nil, domain.NewFeedError(domain.KindSourceIO, path, err)
	}
	return urls, nil
}

// Read parses a feed list from r.
func Read(r io.Reader) ([]string, error) {
	var urls []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read feed list: %w", err)
	}

	return urls, nil
}
