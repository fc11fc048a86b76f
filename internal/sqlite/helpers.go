package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/letzcode/letzcode-server/internal/repository"
)

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

func requireAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Languages are stored as a JSON array in a TEXT column.
func encodeLanguages(langs []string) (string, error) {
	if langs == nil {
		langs = []string{}
	}
	data, err := json.Marshal(langs)
	if err != nil {
		return "", fmt.Errorf("failed to encode languages: %w", err)
	}
	return string(data), nil
}

func decodeLanguages(raw string) ([]string, error) {
	langs := []string{}
	if raw == "" {
		return langs, nil
	}
	if err := json.Unmarshal([]byte(raw), &langs); err != nil {
		return nil, fmt.Errorf("failed to decode languages: %w", err)
	}
	return langs, nil
}
